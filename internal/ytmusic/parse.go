package ytmusic

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	pathFlexColumn   = "musicResponsiveListItemFlexColumnRenderer.text.runs"
	pathFixedColumn  = "fixedColumns.0.musicResponsiveListItemFixedColumnRenderer.text"
	pathThumbnails   = "thumbnail.musicThumbnailRenderer.thumbnail.thumbnails"
	pathPageType     = "navigationEndpoint.browseEndpoint.browseEndpointContextSupportedConfigs.browseEndpointContextMusicConfig.pageType"
	pathBrowseID     = "navigationEndpoint.browseEndpoint.browseId"
	pathWatchVideoID = "navigationEndpoint.watchEndpoint.videoId"
	pathOverlayVideo = "overlay.musicItemThumbnailOverlayRenderer.content.musicPlayButtonRenderer.playNavigationEndpoint.watchEndpoint.videoId"

	pageTypeArtist = "MUSIC_PAGE_TYPE_ARTIST"
	pageTypeAlbum  = "MUSIC_PAGE_TYPE_ALBUM"

	separator = " • "
)

var durationPattern = regexp.MustCompile(`^\d+(:\d{2})+$`)

// continuation points at the next page of a paged response.
//
// Legacy continuations are sent as ctoken query parameters, command continuations as a body field.
type continuation struct {
	token  string
	legacy bool
}

func (c continuation) empty() bool { return c.token == "" }

// flexRuns returns the text runs of the i-th flex column.
func flexRuns(item gjson.Result, i int) []gjson.Result {
	return item.Get("flexColumns." + strconv.Itoa(i) + "." + pathFlexColumn).Array()
}

// runsText concatenates the text of all runs.
func runsText(runs []gjson.Result) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Get("text").String())
	}
	return b.String()
}

// textOf reads either a runs array or a simpleText field.
func textOf(v gjson.Result) string {
	if runs := v.Get("runs"); runs.Exists() {
		return runsText(runs.Array())
	}
	return v.Get("simpleText").String()
}

func parseThumbnails(v gjson.Result) []Thumbnail {
	thumbs := []Thumbnail{}
	for _, t := range v.Array() {
		thumbs = append(thumbs, Thumbnail{
			URL:    t.Get("url").String(),
			Width:  int(t.Get("width").Int()),
			Height: int(t.Get("height").Int()),
		})
	}
	return thumbs
}

// parseArtists collects runs that link to artist pages.
func parseArtists(runs []gjson.Result) []Artist {
	artists := []Artist{}
	for _, r := range runs {
		id := r.Get(pathBrowseID).String()
		if r.Get(pathPageType).String() == pageTypeArtist || strings.HasPrefix(id, "UC") {
			artists = append(artists, Artist{Name: r.Get("text").String(), ID: id})
		}
	}
	return artists
}

func parseAlbum(runs []gjson.Result) *Album {
	for _, r := range runs {
		id := r.Get(pathBrowseID).String()
		if r.Get(pathPageType).String() == pageTypeAlbum || strings.HasPrefix(id, "MPRE") {
			return &Album{Name: r.Get("text").String(), ID: id}
		}
	}
	return nil
}

// itemVideoID finds the video id of a list item in any of the places YouTube Music puts it.
func itemVideoID(item gjson.Result) string {
	for _, p := range []string{"playlistItemData.videoId", pathOverlayVideo} {
		if id := item.Get(p).String(); id != "" {
			return id
		}
	}
	for _, r := range flexRuns(item, 0) {
		if id := r.Get(pathWatchVideoID).String(); id != "" {
			return id
		}
	}
	return ""
}

// ParseDuration converts "h:mm:ss" or "m:ss" to seconds. Invalid input yields 0.
func ParseDuration(s string) int {
	if !durationPattern.MatchString(s) {
		return 0
	}
	total := 0
	for _, part := range strings.Split(s, ":") {
		n, _ := strconv.Atoi(part)
		total = total*60 + n
	}
	return total
}

// parseCount extracts the first integer in s, ignoring thousands separators ("1,234 songs" -> 1234).
func parseCount(s string) int {
	var digits strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ',' || r == '.':
			continue
		case digits.Len() > 0:
			n, _ := strconv.Atoi(digits.String())
			return n
		}
	}
	n, _ := strconv.Atoi(digits.String())
	return n
}

// nextContinuation reads the continuation of a shelf/grid renderer, checking both the trailing
// continuationItemRenderer and the legacy continuations array.
func nextContinuation(renderer gjson.Result, itemsKey string) continuation {
	items := renderer.Get(itemsKey).Array()
	if n := len(items); n > 0 {
		if token := items[n-1].Get("continuationItemRenderer.continuationEndpoint.continuationCommand.token").String(); token != "" {
			return continuation{token: token}
		}
	}
	if token := renderer.Get("continuations.0.nextContinuationData.continuation").String(); token != "" {
		return continuation{token: token, legacy: true}
	}
	return continuation{}
}

// continuationPage extracts the items and next continuation from a continuation response.
func continuationPage(resp gjson.Result) ([]gjson.Result, continuation) {
	if actions := resp.Get("onResponseReceivedActions.0.appendContinuationItemsAction"); actions.Exists() {
		items := actions.Get("continuationItems").Array()
		next := continuation{}
		if n := len(items); n > 0 {
			next.token = items[n-1].Get("continuationItemRenderer.continuationEndpoint.continuationCommand.token").String()
		}
		return items, next
	}

	var items []gjson.Result
	next := continuation{}
	resp.Get("continuationContents").ForEach(func(_, shelf gjson.Result) bool {
		for _, key := range []string{"items", "contents"} {
			if v := shelf.Get(key); v.Exists() {
				items = v.Array()
				next = nextContinuation(shelf, key)
				break
			}
		}
		return false
	})
	return items, next
}
