package ytmusic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/mirei/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://music.youtube.com/youtubei/v1/"
	clientName     = "WEB_REMIX"
	clientVersion  = "1.20250101.01.00"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0"
	origin         = "https://music.youtube.com"
)

// Options configures a [Client].
type Options struct {
	// HTTPClient is used for API calls and token refreshes. Defaults to [http.DefaultClient].
	HTTPClient *http.Client
	// BaseURL overrides the InnerTube endpoint root. Must end with a slash.
	BaseURL string
	// Language is sent as the client "hl" parameter. Defaults to "en".
	Language string
	// RateLimit caps outbound requests per second. Zero disables throttling.
	RateLimit float64
}

// Client performs authenticated InnerTube requests.
//
// A Client is safe for concurrent use.
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a client that authorizes requests with tokens from ts.
func New(ts oauth2.TokenSource, opts Options) *Client {
	base := opts.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Language == "" {
		opts.Language = "en"
	}

	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: ts, Base: base.Transport},
		Timeout:   base.Timeout,
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		baseURL:    opts.BaseURL,
		language:   opts.Language,
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// NewFromFile loads the credential file at path and creates a client whose token refreshes with config.
func NewFromFile(config *oauth2.Config, path string, opts Options) (*Client, error) {
	token, err := LoadToken(path)
	if err != nil {
		return nil, err
	}

	refreshCtx := context.Background()
	if opts.HTTPClient != nil {
		refreshCtx = context.WithValue(refreshCtx, oauth2.HTTPClient, opts.HTTPClient)
	}

	return New(config.TokenSource(refreshCtx, token), opts), nil
}

func (c *Client) requestBody(extra map[string]any) map[string]any {
	body := map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    clientName,
				"clientVersion": clientVersion,
				"hl":            c.language,
			},
			"user": map[string]any{},
		},
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

// send posts body to endpoint and returns the parsed response.
func (c *Client) send(ctx context.Context, endpoint string, body map[string]any, params url.Values) (gjson.Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return gjson.Result{}, fmt.Errorf("%w: rate limiter: %v", shared.ErrUpstream, err)
		}
	}

	payload, err := json.Marshal(c.requestBody(body))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("alt", "json")
	apiURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", origin)
	req.Header.Set("X-Origin", origin)
	req.Header.Set("X-Goog-AuthUser", "0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return gjson.Result{}, fmt.Errorf("%w: token refresh failed: %v", shared.ErrAuthentication, err)
		}
		return gjson.Result{}, fmt.Errorf("%w: request failed: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: failed to read response: %v", shared.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gjson.Result{}, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: response is not valid JSON", shared.ErrUpstream)
	}

	return gjson.ParseBytes(data), nil
}

// errorMessage extracts the Google API error message, falling back to the raw body.
func errorMessage(data []byte) string {
	if msg := gjson.GetBytes(data, "error.message"); msg.Exists() {
		return msg.String()
	}
	return strings.TrimSpace(string(data))
}
