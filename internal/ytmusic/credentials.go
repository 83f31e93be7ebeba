package ytmusic

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/mirei/internal/shared"
	"golang.org/x/oauth2"
)

const (
	// Scope is the OAuth scope YouTube Music accepts for library access.
	Scope = "https://www.googleapis.com/auth/youtube"

	deviceCodeURL = "https://www.youtube.com/o/oauth2/device/code"
	tokenURL      = "https://oauth2.googleapis.com/token"
	authURL       = "https://accounts.google.com/o/oauth2/auth"
)

// Endpoint is the Google OAuth endpoint set used by YouTube Music TV clients.
var Endpoint = oauth2.Endpoint{
	AuthURL:       authURL,
	TokenURL:      tokenURL,
	DeviceAuthURL: deviceCodeURL,
	AuthStyle:     oauth2.AuthStyleInParams,
}

// OAuthConfig builds the [oauth2.Config] for the given application identity.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     Endpoint,
		Scopes:       []string{Scope},
	}
}

// TokenFile is the on-disk credential file layout.
type TokenFile struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresAt    int64  `json:"expires_at"`
	ExpiresIn    int64  `json:"expires_in"`
}

// NewTokenFile converts an [oauth2.Token] to its on-disk form.
func NewTokenFile(token *oauth2.Token) *TokenFile {
	tf := &TokenFile{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scope:        Scope,
	}
	if scope, ok := token.Extra("scope").(string); ok && scope != "" {
		tf.Scope = scope
	}
	if !token.Expiry.IsZero() {
		tf.ExpiresAt = token.Expiry.Unix()
		tf.ExpiresIn = int64(time.Until(token.Expiry).Seconds())
	}
	return tf
}

// Token converts the file contents back to an [oauth2.Token].
func (tf *TokenFile) Token() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  tf.AccessToken,
		RefreshToken: tf.RefreshToken,
		TokenType:    tf.TokenType,
	}
	if tf.ExpiresAt > 0 {
		token.Expiry = time.Unix(tf.ExpiresAt, 0)
	}
	return token
}

// Validate checks that the token can authorize requests, either directly or through a refresh.
func (tf *TokenFile) Validate() error {
	if tf.AccessToken == "" && tf.RefreshToken == "" {
		return fmt.Errorf("%w: credential file has neither access_token nor refresh_token", shared.ErrAuthentication)
	}
	return nil
}

// LoadToken reads and validates the credential file at path.
//
// A missing file is reported as [fs.ErrNotExist] so callers can tell it apart from a corrupt one.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var tf TokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("%w: credential file is not valid JSON: %v", shared.ErrAuthentication, err)
	}
	if err := tf.Validate(); err != nil {
		return nil, err
	}

	return tf.Token(), nil
}

// SaveToken writes token to path with owner-only permissions, creating parent directories.
func SaveToken(path string, token *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create credential directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(NewTokenFile(token), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}
