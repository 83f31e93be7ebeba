// package services defines the client handle lifecycle for the HTTP facade
package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/desertthunder/mirei/internal/models"
	"github.com/desertthunder/mirei/internal/shared"
	"github.com/desertthunder/mirei/internal/ytmusic"
	"golang.org/x/oauth2"
)

// Library is the subset of the YouTube Music client the HTTP endpoints forward to.
type Library interface {
	// Search runs an unfiltered search and returns at most limit results.
	Search(ctx context.Context, query string, limit int) ([]ytmusic.SearchResult, error)

	// GetLibraryPlaylists lists playlists saved in the user's library.
	GetLibraryPlaylists(ctx context.Context, limit int) ([]ytmusic.LibraryPlaylist, error)

	// GetLikedSongs returns the user's liked songs playlist.
	GetLikedSongs(ctx context.Context, limit int) (*ytmusic.Playlist, error)
}

// Factory constructs a ready-to-use [Library].
type Factory func(ctx context.Context) (Library, error)

// Recorder persists credential lifecycle events.
type Recorder interface {
	Create(event *models.AuthEvent) error
}

// ClientFactory returns a [Factory] that loads the credential file named in cfg and verifies it with a single-item
// library listing.
//
// oauthConfig refreshes the stored token. A nil oauthConfig uses [ytmusic.OAuthConfig] with the identity in cfg. A nil
// httpClient uses [http.DefaultClient].
func ClientFactory(cfg *shared.Config, oauthConfig *oauth2.Config, httpClient *http.Client) Factory {
	return func(ctx context.Context) (Library, error) {
		yt := cfg.Credentials.YouTube
		if err := yt.Validate(); err != nil {
			return nil, err
		}

		oc := oauthConfig
		if oc == nil {
			oc = ytmusic.OAuthConfig(yt.ClientID, yt.ClientSecret)
		}

		opts := ytmusic.Options{
			HTTPClient: httpClient,
			Language:   cfg.YTMusic.Language,
			RateLimit:  cfg.YTMusic.RateLimit,
		}

		client, err := ytmusic.NewFromFile(oc, yt.OAuthPath, opts)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: credential file %s not found, run `mirei setup oauth`", shared.ErrConfiguration, yt.OAuthPath)
			}
			if errors.Is(err, shared.ErrAuthentication) {
				return nil, fmt.Errorf("%w; delete %s and rerun `mirei setup oauth`", err, yt.OAuthPath)
			}
			return nil, fmt.Errorf("%w: %v", shared.ErrAuthentication, err)
		}

		if _, err := client.GetLibraryPlaylists(ctx, 1); err != nil {
			return nil, fmt.Errorf("%w: credentials invalid or expired, delete %s and rerun `mirei setup oauth`: %v",
				shared.ErrAuthentication, yt.OAuthPath, err)
		}

		return client, nil
	}
}
