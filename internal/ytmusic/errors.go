package ytmusic

import (
	"fmt"
	"net/http"

	"github.com/desertthunder/mirei/internal/shared"
)

// APIError is a non-2xx response from the InnerTube API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("youtube music API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("youtube music API error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap classifies the error as [shared.ErrAuthentication] for 401/403 and [shared.ErrUpstream] otherwise.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return shared.ErrAuthentication
	default:
		return shared.ErrUpstream
	}
}
