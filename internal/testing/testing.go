// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/mirei/internal/models"
	"github.com/desertthunder/mirei/internal/ytmusic"
)

// MockLibrary is a test double for [services.Library].
//
// Each operation returns the configured result and error and records the arguments it was called with.
type MockLibrary struct {
	SearchResults []ytmusic.SearchResult
	SearchErr     error
	Playlists     []ytmusic.LibraryPlaylist
	PlaylistsErr  error
	Liked         *ytmusic.Playlist
	LikedErr      error

	mu        sync.Mutex
	lastQuery string
	lastLimit int
	calls     int
}

func (m *MockLibrary) track(query string, limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = query
	m.lastLimit = limit
	m.calls++
}

func (m *MockLibrary) Search(ctx context.Context, query string, limit int) ([]ytmusic.SearchResult, error) {
	m.track(query, limit)
	return m.SearchResults, m.SearchErr
}

func (m *MockLibrary) GetLibraryPlaylists(ctx context.Context, limit int) ([]ytmusic.LibraryPlaylist, error) {
	m.track("", limit)
	return m.Playlists, m.PlaylistsErr
}

func (m *MockLibrary) GetLikedSongs(ctx context.Context, limit int) (*ytmusic.Playlist, error) {
	m.track("", limit)
	return m.Liked, m.LikedErr
}

// LastCall returns the query and limit of the most recent call.
func (m *MockLibrary) LastCall() (string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastQuery, m.lastLimit
}

// Calls returns how many operations were invoked.
func (m *MockLibrary) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockRecorder is an in-memory [services.Recorder].
type MockRecorder struct {
	Err error

	mu     sync.Mutex
	events []*models.AuthEvent
}

func (r *MockRecorder) Create(event *models.AuthEvent) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Kinds returns the recorded event kinds in order.
func (r *MockRecorder) Kinds() []models.AuthEventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]models.AuthEventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind()
	}
	return kinds
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
