package ytmusic

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/mirei/internal/shared"
	"golang.org/x/oauth2"
)

// DeviceFlow drives the OAuth 2.0 device authorization grant (RFC 8628).
//
// The user visits the verification URL on any device and enters the user code while the CLI polls the token endpoint.
type DeviceFlow struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewDeviceFlow creates a device flow for config. A nil client uses [http.DefaultClient].
func NewDeviceFlow(config *oauth2.Config, client *http.Client) *DeviceFlow {
	if client == nil {
		client = http.DefaultClient
	}
	return &DeviceFlow{config: config, httpClient: client}
}

func (d *DeviceFlow) context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, d.httpClient)
}

// Start requests a device and user code.
func (d *DeviceFlow) Start(ctx context.Context) (*oauth2.DeviceAuthResponse, error) {
	da, err := d.config.DeviceAuth(d.context(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to request device code: %w", err)
	}
	return da, nil
}

// Wait polls the token endpoint at the server-provided interval until the user approves, denies or the code expires.
//
// Cancelling ctx stops polling.
func (d *DeviceFlow) Wait(ctx context.Context, da *oauth2.DeviceAuthResponse) (*oauth2.Token, error) {
	token, err := d.config.DeviceAccessToken(d.context(ctx), da)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && (re.ErrorCode == "access_denied" || re.ErrorCode == "expired_token") {
			return nil, fmt.Errorf("%w: %s", shared.ErrAuthorizationDenied, re.ErrorCode)
		}
		return nil, fmt.Errorf("failed to obtain token: %w", err)
	}
	return token, nil
}
