package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mirei/internal/models"
	"github.com/desertthunder/mirei/internal/shared"
)

// SessionOpts configures a [Session].
type SessionOpts struct {
	// Recorder stores an [models.AuthEvent] per attempt. Optional.
	Recorder Recorder
	// Logger defaults to [shared.NewLogger] on stderr.
	Logger *log.Logger
	// Timeout bounds each construction attempt. Zero leaves attempts bound only by the caller's context.
	Timeout time.Duration
}

// Session lazily constructs and caches the process-wide [Library].
//
// The zero value is not usable; create one with [NewSession].
type Session struct {
	factory  Factory
	recorder Recorder
	logger   *log.Logger
	timeout  time.Duration

	// sem admits one construction attempt at a time; waiters give up when their context ends.
	sem      chan struct{}
	ready    atomic.Bool
	library  Library
	attempts atomic.Int64
}

// NewSession creates a session that builds its [Library] with factory on first use.
func NewSession(factory Factory, opts SessionOpts) *Session {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Session{
		factory:  factory,
		recorder: opts.Recorder,
		logger:   shared.WithLogger(opts.Logger, "component", "session"),
		timeout:  opts.Timeout,
		sem:      make(chan struct{}, 1),
	}
}

// Library returns the cached client, constructing it if no attempt has succeeded yet.
//
// Failed attempts are not cached. The returned error wraps [shared.ErrConfiguration] or [shared.ErrAuthentication]
// when the factory classified it, and [shared.ErrServiceUnavailable] when ctx ends while another caller's attempt is
// still running.
func (s *Session) Library(ctx context.Context) (Library, error) {
	if s.ready.Load() {
		return s.library, nil
	}

	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer func() { <-s.sem }()

	if s.ready.Load() {
		return s.library, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	attempt := s.attempts.Add(1)
	library, err := s.factory(ctx)
	if err != nil {
		kind := models.EventInitRejected
		if errors.Is(err, shared.ErrConfiguration) {
			kind = models.EventInitMissing
		}
		s.logger.Warn("client initialization failed", "attempt", attempt, "kind", kind, "err", err)
		s.record(kind, err.Error())
		return nil, err
	}

	s.library = library
	s.ready.Store(true)
	s.logger.Info("client initialized", "attempt", attempt)
	s.record(models.EventInitOK, "")
	return library, nil
}

// acquire takes the construction slot. A free slot is taken even when ctx is already done.
func (s *Session) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	default:
	}

	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for client initialization: %w", shared.ErrServiceUnavailable, ctx.Err())
	}
}

// Authenticated reports whether a client has been constructed. It never triggers construction.
func (s *Session) Authenticated() bool {
	return s.ready.Load()
}

// Attempts returns the number of construction attempts so far.
func (s *Session) Attempts() int {
	return int(s.attempts.Load())
}

func (s *Session) record(kind models.AuthEventKind, detail string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Create(models.NewAuthEvent(kind, detail)); err != nil {
		s.logger.Warn("failed to record auth event", "kind", kind, "err", err)
	}
}
