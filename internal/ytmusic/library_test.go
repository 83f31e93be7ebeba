package ytmusic

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/mirei/internal/shared"
)

func TestGetLibraryPlaylists(t *testing.T) {
	libraryServer := func(t *testing.T, continued *bool) *Client {
		return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if token := r.URL.Query().Get("ctoken"); token != "" {
				if token != "page-2" || r.URL.Query().Get("type") != "next" {
					t.Errorf("unexpected continuation query %s", r.URL.RawQuery)
				}
				*continued = true
				w.Write(fixture(t, "library_continuation.json"))
				return
			}
			if body := decodeBody(t, r); body["browseId"] != libraryPlaylistID {
				t.Errorf("expected browseId %s, got %v", libraryPlaylistID, body["browseId"])
			}
			w.Write(fixture(t, "library_playlists.json"))
		})
	}

	t.Run("follows continuations", func(t *testing.T) {
		var continued bool
		c := libraryServer(t, &continued)

		playlists, err := c.GetLibraryPlaylists(context.Background(), 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !continued {
			t.Error("expected continuation request")
		}
		if len(playlists) != 3 {
			t.Fatalf("expected 3 playlists, got %d", len(playlists))
		}

		want := []struct {
			id    string
			title string
			count int
		}{
			{"PLroadtrip", "Road Trip", 42},
			{"PLfocus", "Focus", 1204},
			{"PLlatenight", "Late Night", 7},
		}
		for i, w := range want {
			p := playlists[i]
			if p.PlaylistID != w.id || p.Title != w.title || p.Count != w.count {
				t.Errorf("playlist %d: expected %+v, got %+v", i, w, p)
			}
		}
		if playlists[0].Description != "Playlist • 42 songs" {
			t.Errorf("unexpected description %q", playlists[0].Description)
		}
		if len(playlists[0].Thumbnails) != 1 {
			t.Errorf("expected 1 thumbnail, got %d", len(playlists[0].Thumbnails))
		}
	})

	t.Run("stops at limit", func(t *testing.T) {
		var continued bool
		c := libraryServer(t, &continued)

		playlists, err := c.GetLibraryPlaylists(context.Background(), 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 1 || playlists[0].PlaylistID != "PLroadtrip" {
			t.Errorf("unexpected playlists %+v", playlists)
		}
		if continued {
			t.Error("expected no continuation request")
		}
	})

	t.Run("empty library", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})

		playlists, err := c.GetLibraryPlaylists(context.Background(), 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlists == nil || len(playlists) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", playlists)
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		if _, err := c.GetLibraryPlaylists(context.Background(), 1); !errors.Is(err, shared.ErrAuthentication) {
			t.Errorf("expected ErrAuthentication, got %v", err)
		}
	})
}

func TestGetLikedSongs(t *testing.T) {
	likedServer := func(t *testing.T, continued *bool) *Client {
		return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			if body["continuation"] == "liked-page-2" {
				*continued = true
				w.Write(fixture(t, "liked_continuation.json"))
				return
			}
			if body["browseId"] != "VLLM" {
				t.Errorf("expected browseId VLLM, got %v", body["browseId"])
			}
			w.Write(fixture(t, "liked_songs.json"))
		})
	}

	t.Run("parses header and tracks", func(t *testing.T) {
		var continued bool
		c := likedServer(t, &continued)

		playlist, err := c.GetLikedSongs(context.Background(), 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !continued {
			t.Error("expected continuation request")
		}
		if playlist.ID != "LM" || playlist.Title != "Liked Music" || playlist.TrackCount != 3 {
			t.Errorf("unexpected playlist %+v", playlist)
		}
		if len(playlist.Tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(playlist.Tracks))
		}

		first := playlist.Tracks[0]
		if first.VideoID != "liked0001" || first.Title != "Wait" || first.SetVideoID != "set0001" {
			t.Errorf("unexpected first track %+v", first)
		}
		if !first.IsAvailable || first.DurationSeconds != 343 {
			t.Errorf("unexpected first track details %+v", first)
		}
		if len(first.Artists) != 1 || first.Artists[0].ID != "UC0ZrdLrbf-tKDahv2UZVkzw" {
			t.Errorf("unexpected artists %+v", first.Artists)
		}
		if first.Album == nil || first.Album.Name != "Hurry Up, We're Dreaming" {
			t.Errorf("unexpected album %+v", first.Album)
		}

		second := playlist.Tracks[1]
		if second.IsAvailable {
			t.Error("expected greyed out track to be unavailable")
		}
		if second.Duration != "1:02:03" || second.DurationSeconds != 3723 {
			t.Errorf("unexpected duration %s (%d)", second.Duration, second.DurationSeconds)
		}
		if len(second.Artists) != 1 || second.Artists[0].Name != "Unknown Artist" || second.Artists[0].ID != "" {
			t.Errorf("unexpected unlinked artist %+v", second.Artists)
		}

		if playlist.Tracks[2].Title != "Reunion" {
			t.Errorf("expected Reunion from continuation, got %s", playlist.Tracks[2].Title)
		}
	})

	t.Run("stops at limit", func(t *testing.T) {
		var continued bool
		c := likedServer(t, &continued)

		playlist, err := c.GetLikedSongs(context.Background(), 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlist.Tracks) != 2 {
			t.Errorf("expected 2 tracks, got %d", len(playlist.Tracks))
		}
		if continued {
			t.Error("expected no continuation request")
		}
	})

	t.Run("empty playlist", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})

		playlist, err := c.GetLikedSongs(context.Background(), 10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.Title != "Liked Music" || len(playlist.Tracks) != 0 || playlist.Tracks == nil {
			t.Errorf("unexpected playlist %+v", playlist)
		}
	})
}
