package ytmusic

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/mirei/internal/shared"
	"github.com/tidwall/gjson"
)

// DefaultSearchLimit is the number of results returned when no limit is given.
const DefaultSearchLimit = 20

var categoryTypes = map[string]string{
	"songs":               "song",
	"videos":              "video",
	"albums":              "album",
	"artists":             "artist",
	"community playlists": "playlist",
	"featured playlists":  "playlist",
	"podcasts":            "podcast",
	"episodes":            "episode",
	"profiles":            "profile",
}

// Search runs an unfiltered search and returns at most limit results across all shelves, in page order.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", shared.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	resp, err := c.send(ctx, "search", map[string]any{"query": query}, nil)
	if err != nil {
		return nil, err
	}

	return parseSearch(resp, limit), nil
}

func parseSearch(resp gjson.Result, limit int) []SearchResult {
	results := []SearchResult{}
	sections := resp.Get("contents.tabbedSearchResultsRenderer.tabs.0.tabRenderer.content.sectionListRenderer.contents").Array()

	for _, section := range sections {
		if len(results) >= limit {
			break
		}

		if card := section.Get("musicCardShelfRenderer"); card.Exists() {
			if r, ok := parseTopResult(card); ok {
				results = append(results, r)
			}
			continue
		}

		shelf := section.Get("musicShelfRenderer")
		if !shelf.Exists() {
			continue
		}
		category := textOf(shelf.Get("title"))
		for _, item := range shelf.Get("contents.#.musicResponsiveListItemRenderer").Array() {
			if len(results) >= limit {
				break
			}
			results = append(results, parseSearchItem(item, category))
		}
	}

	return results
}

func parseTopResult(card gjson.Result) (SearchResult, bool) {
	title := card.Get("title.runs.0")
	if !title.Exists() {
		return SearchResult{}, false
	}

	subtitle := card.Get("subtitle.runs").Array()
	r := SearchResult{
		Category:   "Top result",
		Title:      title.Get("text").String(),
		VideoID:    title.Get(pathWatchVideoID).String(),
		BrowseID:   title.Get(pathBrowseID).String(),
		Artists:    parseArtists(subtitle),
		Album:      parseAlbum(subtitle),
		Thumbnails: parseThumbnails(card.Get(pathThumbnails)),
	}
	if len(subtitle) > 0 {
		r.ResultType = strings.ToLower(subtitle[0].Get("text").String())
	}
	r.Duration, r.DurationSeconds = durationFromTokens(strings.Split(runsText(subtitle), separator))
	return r, true
}

func parseSearchItem(item gjson.Result, category string) SearchResult {
	detail := flexRuns(item, 1)
	tokens := strings.Split(runsText(detail), separator)

	r := SearchResult{
		Category:   category,
		ResultType: categoryTypes[strings.ToLower(category)],
		Title:      runsText(flexRuns(item, 0)),
		VideoID:    itemVideoID(item),
		BrowseID:   item.Get(pathBrowseID).String(),
		Artists:    parseArtists(detail),
		Album:      parseAlbum(detail),
		Thumbnails: parseThumbnails(item.Get(pathThumbnails)),
	}

	if r.ResultType == "" && len(tokens) > 0 {
		r.ResultType = strings.ToLower(strings.TrimSpace(tokens[0]))
	}
	r.Duration, r.DurationSeconds = durationFromTokens(tokens)
	if r.Duration == "" {
		r.Duration = textOf(item.Get(pathFixedColumn))
		r.DurationSeconds = ParseDuration(r.Duration)
	}
	return r
}

// durationFromTokens returns the first token that looks like a duration.
func durationFromTokens(tokens []string) (string, int) {
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if secs := ParseDuration(tok); secs > 0 {
			return tok, secs
		}
	}
	return "", 0
}
