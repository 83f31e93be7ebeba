package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mirei/internal/services"
	"github.com/desertthunder/mirei/internal/shared"
	"github.com/desertthunder/mirei/internal/ytmusic"
)

const (
	welcomeMessage    = "Welcome to the Mirei YouTube Music API"
	streamStubMessage = "Stream URL generation is not implemented yet."
)

// LibraryProvider hands out the shared client. Implemented by [services.Session].
type LibraryProvider interface {
	Library(ctx context.Context) (services.Library, error)
	Authenticated() bool
}

// API implements the public endpoints.
type API struct {
	provider LibraryProvider
	logger   *log.Logger
}

// NewAPI creates the endpoint handlers backed by provider.
func NewAPI(provider LibraryProvider, logger *log.Logger) *API {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &API{provider: provider, logger: shared.WithLogger(logger, "component", "api")}
}

// Register adds every endpoint to r.
func (a *API) Register(r Router) {
	r.Handle(http.MethodGet, "/", http.HandlerFunc(a.Root))
	r.Handle(http.MethodGet, "/search", http.HandlerFunc(a.Search))
	r.Handle(http.MethodGet, "/library/playlists", http.HandlerFunc(a.LibraryPlaylists))
	r.Handle(http.MethodGet, "/library/liked", http.HandlerFunc(a.LikedSongs))
	r.Handle(http.MethodGet, "/stream_url", http.HandlerFunc(a.StreamURL))
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(a.Health))
	r.NotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	}))
}

// NewHandler builds the complete HTTP handler: router, middleware and endpoints.
func NewHandler(provider LibraryProvider, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	router := NewBasicRouter()
	router.Use(RequestID, Logging(shared.WithLogger(logger, "component", "http")), Recover(logger))
	NewAPI(provider, logger).Register(router)
	return router
}

// Root returns the welcome message.
func (a *API) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: welcomeMessage})
}

// Health reports whether the client has been built, without building it.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Authenticated: a.provider.Authenticated()})
}

// Search forwards query and limit to the client verbatim. Backing failures, including a rejected
// blank query, are 500s.
func (a *API) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("query") {
		writeError(w, http.StatusUnprocessableEntity, "query parameter 'query' is required")
		return
	}
	query := q.Get("query")
	limit, err := parseLimit(r, ytmusic.DefaultSearchLimit)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	lib, ok := a.library(w, r)
	if !ok {
		return
	}

	results, err := lib.Search(r.Context(), query, limit)
	if err != nil {
		a.logger.Error("search failed", "query", query, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// LibraryPlaylists lists the user's playlists. Backing failures are reported as 401s.
func (a *API) LibraryPlaylists(w http.ResponseWriter, r *http.Request) {
	lib, ok := a.library(w, r)
	if !ok {
		return
	}

	playlists, err := lib.GetLibraryPlaylists(r.Context(), ytmusic.DefaultLibraryLimit)
	if err != nil {
		a.logger.Error("library playlists failed", "err", err)
		writeError(w, http.StatusUnauthorized, authFailure(err))
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

// LikedSongs returns the liked songs playlist. Backing failures are reported as 401s.
func (a *API) LikedSongs(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, ytmusic.DefaultLikedLimit)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	lib, ok := a.library(w, r)
	if !ok {
		return
	}

	liked, err := lib.GetLikedSongs(r.Context(), limit)
	if err != nil {
		a.logger.Error("liked songs failed", "limit", limit, "err", err)
		writeError(w, http.StatusUnauthorized, authFailure(err))
		return
	}
	writeJSON(w, http.StatusOK, liked)
}

// StreamURL is a placeholder. It validates videoId but never contacts the client.
func (a *API) StreamURL(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("videoId") {
		writeError(w, http.StatusUnprocessableEntity, "query parameter 'videoId' is required")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: streamStubMessage})
}

// library obtains the client, writing a 503 when it cannot be built.
func (a *API) library(w http.ResponseWriter, r *http.Request) (services.Library, bool) {
	lib, err := a.provider.Library(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return nil, false
	}
	return lib, true
}

func authFailure(err error) string {
	return fmt.Sprintf("Authentication required or failed: %v", err)
}

// parseLimit reads the optional limit parameter. Any integer is passed through to the client.
func parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter 'limit' must be an integer, got %q", raw)
	}
	return limit, nil
}
