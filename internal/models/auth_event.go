package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/mirei/internal/shared"
)

// AuthEventKind identifies a step of the credential lifecycle.
type AuthEventKind string

const (
	// EventBootstrap is recorded when the device flow writes a new credential file.
	EventBootstrap AuthEventKind = "bootstrap"
	// EventInitOK is recorded when a client handle is built and passes the liveness check.
	EventInitOK AuthEventKind = "init_ok"
	// EventInitMissing is recorded when initialization fails for lack of credentials or identity.
	EventInitMissing AuthEventKind = "init_missing"
	// EventInitRejected is recorded when the credential file is unreadable or rejected upstream.
	EventInitRejected AuthEventKind = "init_rejected"
)

// Valid reports whether k is a known kind.
func (k AuthEventKind) Valid() bool {
	switch k {
	case EventBootstrap, EventInitOK, EventInitMissing, EventInitRejected:
		return true
	}
	return false
}

// AuthEvent is a persisted credential lifecycle record.
type AuthEvent struct {
	id        string
	sequence  int
	kind      AuthEventKind
	detail    string
	createdAt time.Time
}

// NewAuthEvent creates an unsaved event stamped with the current time.
func NewAuthEvent(kind AuthEventKind, detail string) *AuthEvent {
	return &AuthEvent{kind: kind, detail: detail, createdAt: time.Now().UTC()}
}

// RestoreAuthEvent rebuilds a stored event.
func RestoreAuthEvent(id string, sequence int, kind AuthEventKind, detail string, createdAt time.Time) *AuthEvent {
	return &AuthEvent{id: id, sequence: sequence, kind: kind, detail: detail, createdAt: createdAt}
}

func (e *AuthEvent) ID() string           { return e.id }
func (e *AuthEvent) Sequence() int        { return e.sequence }
func (e *AuthEvent) Kind() AuthEventKind  { return e.kind }
func (e *AuthEvent) Detail() string       { return e.detail }
func (e *AuthEvent) CreatedAt() time.Time { return e.createdAt }

func (e *AuthEvent) SetID(id string)     { e.id = id }
func (e *AuthEvent) SetSequence(seq int) { e.sequence = seq }

// Validate checks the event kind.
func (e *AuthEvent) Validate() error {
	if !e.kind.Valid() {
		return fmt.Errorf("%w: unknown auth event kind %q", shared.ErrInvalidInput, e.kind)
	}
	return nil
}
