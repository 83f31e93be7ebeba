package ytmusic

import (
	"context"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// DefaultLibraryLimit is the number of library playlists returned when no limit is given.
	DefaultLibraryLimit = 25
	// DefaultLikedLimit is the number of liked songs returned when no limit is given.
	DefaultLikedLimit = 100

	likedPlaylistID   = "LM"
	libraryPlaylistID = "FEmusic_liked_playlists"
	greyedOutPolicy   = "MUSIC_ITEM_RENDERER_DISPLAY_POLICY_GREY_OUT"
)

// browse calls the browse endpoint for browseID.
func (c *Client) browse(ctx context.Context, browseID string) (gjson.Result, error) {
	return c.send(ctx, "browse", map[string]any{"browseId": browseID}, nil)
}

// next fetches the page behind cont.
func (c *Client) next(ctx context.Context, cont continuation) ([]gjson.Result, continuation, error) {
	var (
		resp gjson.Result
		err  error
	)
	if cont.legacy {
		params := url.Values{"ctoken": {cont.token}, "continuation": {cont.token}, "type": {"next"}}
		resp, err = c.send(ctx, "browse", nil, params)
	} else {
		resp, err = c.send(ctx, "browse", map[string]any{"continuation": cont.token}, nil)
	}
	if err != nil {
		return nil, continuation{}, err
	}

	items, nextCont := continuationPage(resp)
	return items, nextCont, nil
}

// GetLibraryPlaylists lists playlists in the user's library, following continuations until limit are collected.
func (c *Client) GetLibraryPlaylists(ctx context.Context, limit int) ([]LibraryPlaylist, error) {
	if limit <= 0 {
		limit = DefaultLibraryLimit
	}

	resp, err := c.browse(ctx, libraryPlaylistID)
	if err != nil {
		return nil, err
	}

	grid := libraryGrid(resp)
	playlists := appendPlaylists(nil, grid.Get("items").Array(), limit)
	cont := nextContinuation(grid, "items")

	for len(playlists) < limit && !cont.empty() {
		var items []gjson.Result
		if items, cont, err = c.next(ctx, cont); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		playlists = appendPlaylists(playlists, items, limit)
	}

	if playlists == nil {
		playlists = []LibraryPlaylist{}
	}
	return playlists, nil
}

// libraryGrid locates the grid renderer of a library page.
func libraryGrid(resp gjson.Result) gjson.Result {
	sections := resp.Get("contents.singleColumnBrowseResultsRenderer.tabs.0.tabRenderer.content.sectionListRenderer.contents").Array()
	for _, s := range sections {
		if g := s.Get("gridRenderer"); g.Exists() {
			return g
		}
		if g := s.Get("itemSectionRenderer.contents.0.gridRenderer"); g.Exists() {
			return g
		}
	}
	return gjson.Result{}
}

func appendPlaylists(dst []LibraryPlaylist, items []gjson.Result, limit int) []LibraryPlaylist {
	for _, item := range items {
		if len(dst) >= limit {
			break
		}
		if p, ok := parseLibraryPlaylist(item.Get("musicTwoRowItemRenderer")); ok {
			dst = append(dst, p)
		}
	}
	return dst
}

// parseLibraryPlaylist reads a grid tile. Tiles that are not playlists ("New playlist") are skipped.
func parseLibraryPlaylist(tile gjson.Result) (LibraryPlaylist, bool) {
	browseID := tile.Get("title.runs.0." + pathBrowseID).String()
	if browseID == "" {
		browseID = tile.Get(pathBrowseID).String()
	}
	if !strings.HasPrefix(browseID, "VL") {
		return LibraryPlaylist{}, false
	}

	subtitle := tile.Get("subtitle.runs").Array()
	p := LibraryPlaylist{
		PlaylistID:  strings.TrimPrefix(browseID, "VL"),
		Title:       textOf(tile.Get("title")),
		Description: runsText(subtitle),
		Thumbnails:  parseThumbnails(tile.Get("thumbnailRenderer.musicThumbnailRenderer.thumbnail.thumbnails")),
	}
	if n := len(subtitle); n >= 3 {
		p.Count = parseCount(subtitle[n-1].Get("text").String())
	}
	return p, true
}

// GetLikedSongs returns the "Liked Music" playlist with up to limit tracks.
func (c *Client) GetLikedSongs(ctx context.Context, limit int) (*Playlist, error) {
	if limit <= 0 {
		limit = DefaultLikedLimit
	}

	resp, err := c.browse(ctx, "VL"+likedPlaylistID)
	if err != nil {
		return nil, err
	}

	shelf := playlistShelf(resp)
	tracks := appendTracks([]Track{}, shelf.Get("contents").Array(), limit)
	cont := nextContinuation(shelf, "contents")

	for len(tracks) < limit && !cont.empty() {
		var items []gjson.Result
		if items, cont, err = c.next(ctx, cont); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		tracks = appendTracks(tracks, items, limit)
	}

	playlist := parsePlaylistHeader(resp)
	playlist.ID = likedPlaylistID
	playlist.Tracks = tracks
	if playlist.TrackCount == 0 {
		playlist.TrackCount = len(tracks)
	}
	return playlist, nil
}

// playlistShelf finds the track shelf in both the two-column (current) and single-column (legacy) layouts.
func playlistShelf(resp gjson.Result) gjson.Result {
	for _, p := range []string{
		"contents.twoColumnBrowseResultsRenderer.secondaryContents.sectionListRenderer.contents.0.musicPlaylistShelfRenderer",
		"contents.singleColumnBrowseResultsRenderer.tabs.0.tabRenderer.content.sectionListRenderer.contents.0.musicPlaylistShelfRenderer",
	} {
		if shelf := resp.Get(p); shelf.Exists() {
			return shelf
		}
	}
	return gjson.Result{}
}

func parsePlaylistHeader(resp gjson.Result) *Playlist {
	header := resp.Get("contents.twoColumnBrowseResultsRenderer.tabs.0.tabRenderer.content.sectionListRenderer.contents.0.musicResponsiveHeaderRenderer")
	if !header.Exists() {
		header = resp.Get("header.musicDetailHeaderRenderer")
	}
	if !header.Exists() {
		header = resp.Get("header.musicEditablePlaylistDetailHeaderRenderer.header.musicDetailHeaderRenderer")
	}

	p := &Playlist{Title: textOf(header.Get("title")), Privacy: "PRIVATE"}
	if p.Title == "" {
		p.Title = "Liked Music"
	}
	for _, key := range []string{"secondSubtitle", "secondSubtitle.runs.0"} {
		if n := parseCount(textOf(header.Get(key))); n > 0 {
			p.TrackCount = n
			break
		}
	}
	return p
}

func appendTracks(dst []Track, items []gjson.Result, limit int) []Track {
	for _, item := range items {
		if len(dst) >= limit {
			break
		}
		renderer := item.Get("musicResponsiveListItemRenderer")
		if !renderer.Exists() {
			continue
		}
		dst = append(dst, parseTrack(renderer))
	}
	return dst
}

func parseTrack(item gjson.Result) Track {
	artistRuns := flexRuns(item, 1)
	t := Track{
		VideoID:     itemVideoID(item),
		Title:       runsText(flexRuns(item, 0)),
		Artists:     parseArtists(artistRuns),
		Album:       parseAlbum(flexRuns(item, 2)),
		SetVideoID:  item.Get("playlistItemData.playlistSetVideoId").String(),
		IsAvailable: item.Get("musicItemRendererDisplayPolicy").String() != greyedOutPolicy,
		Thumbnails:  parseThumbnails(item.Get(pathThumbnails)),
	}
	if len(t.Artists) == 0 && len(artistRuns) > 0 {
		t.Artists = []Artist{{Name: runsText(artistRuns)}}
	}
	t.Duration = textOf(item.Get(pathFixedColumn))
	t.DurationSeconds = ParseDuration(t.Duration)
	return t
}
