package ytmusic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/mirei/internal/shared"
	"golang.org/x/oauth2"
)

// fixture reads testdata/name.
func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

// newTestClient points a client with a static token at handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token", TokenType: "Bearer"})
	return New(ts, Options{HTTPClient: server.Client(), BaseURL: server.URL + "/", Language: "de"})
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("failed to decode request body: %v", err)
	}
	return body
}

func TestClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("applies defaults", func(t *testing.T) {
			c := New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "x"}), Options{})
			if c.baseURL != defaultBaseURL {
				t.Errorf("expected baseURL %s, got %s", defaultBaseURL, c.baseURL)
			}
			if c.language != "en" {
				t.Errorf("expected language en, got %s", c.language)
			}
			if c.limiter != nil {
				t.Error("expected no limiter when RateLimit is zero")
			}
		})

		t.Run("creates limiter for positive rate", func(t *testing.T) {
			c := New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "x"}), Options{RateLimit: 2})
			if c.limiter == nil {
				t.Fatal("expected limiter to be created")
			}
		})
	})

	t.Run("send", func(t *testing.T) {
		t.Run("sends authorized InnerTube request", func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/browse" {
					t.Errorf("expected path /browse, got %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("alt"); got != "json" {
					t.Errorf("expected alt=json, got %q", got)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
					t.Errorf("expected bearer token, got %q", got)
				}
				if got := r.Header.Get("X-Goog-AuthUser"); got != "0" {
					t.Errorf("expected X-Goog-AuthUser 0, got %q", got)
				}
				if got := r.Header.Get("Origin"); got != origin {
					t.Errorf("expected Origin %s, got %q", origin, got)
				}

				body := decodeBody(t, r)
				client := body["context"].(map[string]any)["client"].(map[string]any)
				if client["clientName"] != clientName {
					t.Errorf("expected clientName %s, got %v", clientName, client["clientName"])
				}
				if client["hl"] != "de" {
					t.Errorf("expected hl de, got %v", client["hl"])
				}
				if body["browseId"] != "FEtest" {
					t.Errorf("expected browseId FEtest, got %v", body["browseId"])
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"ok": true}`))
			})

			resp, err := c.browse(context.Background(), "FEtest")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.Get("ok").Bool() {
				t.Error("expected parsed response")
			}
		})

		t.Run("maps HTTP errors", func(t *testing.T) {
			tests := []struct {
				name   string
				status int
				want   error
			}{
				{"unauthorized", http.StatusUnauthorized, shared.ErrAuthentication},
				{"forbidden", http.StatusForbidden, shared.ErrAuthentication},
				{"server error", http.StatusInternalServerError, shared.ErrUpstream},
				{"bad request", http.StatusBadRequest, shared.ErrUpstream},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
						w.WriteHeader(tt.status)
						w.Write([]byte(`{"error": {"code": 0, "message": "nope"}}`))
					})

					_, err := c.browse(context.Background(), "FEtest")
					if !errors.Is(err, tt.want) {
						t.Fatalf("expected %v, got %v", tt.want, err)
					}

					var apiErr *APIError
					if !errors.As(err, &apiErr) {
						t.Fatalf("expected *APIError, got %T", err)
					}
					if apiErr.StatusCode != tt.status || apiErr.Message != "nope" {
						t.Errorf("unexpected APIError %+v", apiErr)
					}
				})
			}
		})

		t.Run("rejects invalid JSON", func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			})

			if _, err := c.browse(context.Background(), "FEtest"); !errors.Is(err, shared.ErrUpstream) {
				t.Errorf("expected ErrUpstream, got %v", err)
			}
		})

		t.Run("reports transport failure as upstream error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			url := server.URL
			server.Close()

			c := New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "x"}), Options{BaseURL: url + "/"})
			if _, err := c.browse(context.Background(), "FEtest"); !errors.Is(err, shared.ErrUpstream) {
				t.Errorf("expected ErrUpstream, got %v", err)
			}
		})

		t.Run("honors canceled context", func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			})

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if _, err := c.browse(ctx, "FEtest"); err == nil {
				t.Error("expected error for canceled context")
			}
		})
	})

	t.Run("NewFromFile", func(t *testing.T) {
		t.Run("missing file", func(t *testing.T) {
			_, err := NewFromFile(OAuthConfig("id", "secret"), filepath.Join(t.TempDir(), "oauth.json"), Options{})
			if !errors.Is(err, os.ErrNotExist) {
				t.Errorf("expected ErrNotExist, got %v", err)
			}
		})

		t.Run("refreshes expired token", func(t *testing.T) {
			var refreshed bool
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/token":
					refreshed = true
					if err := r.ParseForm(); err != nil {
						t.Errorf("failed to parse form: %v", err)
					}
					if got := r.PostForm.Get("refresh_token"); got != "refresh-me" {
						t.Errorf("expected refresh_token refresh-me, got %q", got)
					}
					w.Header().Set("Content-Type", "application/json")
					w.Write([]byte(`{"access_token": "fresh", "token_type": "Bearer", "expires_in": 3600}`))
				case "/browse":
					if got := r.Header.Get("Authorization"); got != "Bearer fresh" {
						t.Errorf("expected refreshed token, got %q", got)
					}
					w.Write([]byte(`{}`))
				default:
					http.NotFound(w, r)
				}
			}))
			defer server.Close()

			path := filepath.Join(t.TempDir(), "oauth.json")
			expired := &oauth2.Token{AccessToken: "stale", RefreshToken: "refresh-me", Expiry: time.Now().Add(-time.Hour)}
			if err := SaveToken(path, expired); err != nil {
				t.Fatalf("failed to save token: %v", err)
			}

			config := OAuthConfig("id", "secret")
			config.Endpoint.TokenURL = server.URL + "/token"

			c, err := NewFromFile(config, path, Options{HTTPClient: server.Client(), BaseURL: server.URL + "/"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, err := c.browse(context.Background(), "FEtest"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !refreshed {
				t.Error("expected token refresh")
			}
		})

		t.Run("rejected refresh is an authentication error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error": "invalid_grant", "error_description": "Token has been expired or revoked."}`))
			}))
			defer server.Close()

			path := filepath.Join(t.TempDir(), "oauth.json")
			expired := &oauth2.Token{AccessToken: "stale", RefreshToken: "revoked", Expiry: time.Now().Add(-time.Hour)}
			if err := SaveToken(path, expired); err != nil {
				t.Fatalf("failed to save token: %v", err)
			}

			config := OAuthConfig("id", "secret")
			config.Endpoint.TokenURL = server.URL + "/token"

			c, err := NewFromFile(config, path, Options{HTTPClient: server.Client(), BaseURL: server.URL + "/"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, err := c.browse(context.Background(), "FEtest"); !errors.Is(err, shared.ErrAuthentication) {
				t.Errorf("expected ErrAuthentication, got %v", err)
			}
		})
	})
}
