package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mirei/internal/formatter"
	"github.com/desertthunder/mirei/internal/models"
	"github.com/desertthunder/mirei/internal/repositories"
	"github.com/desertthunder/mirei/internal/services"
	"github.com/desertthunder/mirei/internal/shared"
	"github.com/urfave/cli/v3"
)

// authEventView is the CLI output shape of an [models.AuthEvent].
type authEventView struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthStatus runs the client initializer once and reports whether the credential file is missing, rejected or valid.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	recorder, closeStore := r.openRecorder(config)
	defer closeStore()

	opts := services.SessionOpts{Logger: r.logger, Timeout: config.YTMusic.InitTimeout}
	if recorder != nil {
		opts.Recorder = recorder
	}
	session := services.NewSession(services.ClientFactory(config, r.oauthConfig(config), r.httpClient), opts)

	r.logger.Info("checking credentials", "path", config.Credentials.YouTube.OAuthPath)

	_, err = session.Library(ctx)
	switch {
	case err == nil:
		return r.writePlain("✓ Credentials valid (%s)\n", config.Credentials.YouTube.OAuthPath)
	case errors.Is(err, shared.ErrConfiguration):
		r.writePlain("✗ Credentials missing\n")
	default:
		r.writePlain("✗ Credentials rejected\n")
	}
	return err
}

// AuthHistory lists recorded credential events, newest first.
func (r *Runner) AuthHistory(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := shared.OpenStore(config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	kind := models.AuthEventKind(cmd.String("kind"))
	if kind != "" && !kind.Valid() {
		return fmt.Errorf("%w: unknown event kind %q", shared.ErrInvalidArgument, kind)
	}

	events, err := repositories.NewAuthEventRepository(db).List(map[string]any{
		"kind":  string(kind),
		"limit": cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]authEventView, 0, len(events))
		for _, e := range events {
			views = append(views, authEventView{ID: e.ID(), Kind: string(e.Kind()), Detail: e.Detail(), CreatedAt: e.CreatedAt()})
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(events, format, path); err != nil {
			return err
		}
		r.logger.Info("exported credential events", "path", path, "count", len(events))
		return r.writePlain("✓ Exported %d events to %s\n", len(events), path)
	}

	if len(events) == 0 {
		return r.writePlain("No credential events recorded\n")
	}

	data, err := formatter.Export(events, format)
	if err != nil {
		return err
	}
	if format == formatter.FormatText {
		r.writePlainHeader("Credential events")
	}
	return r.writePlain("%s", data)
}

// openRecorder opens the event store when database.path is set. A store that cannot be opened is logged and
// skipped; events are observational.
func (r *Runner) openRecorder(config *shared.Config) (*repositories.AuthEventRepository, func()) {
	if config.Database.Path == "" {
		return nil, func() {}
	}

	db, err := shared.OpenStore(config.Database)
	if err != nil {
		r.logger.Warn("auth events will not be recorded", "error", err)
		return nil, func() {}
	}
	return repositories.NewAuthEventRepository(db), func() { closeDB(r, db) }
}

// recordEvent stores a single event outside a session.
func (r *Runner) recordEvent(config *shared.Config, kind models.AuthEventKind, detail string) {
	repo, closeStore := r.openRecorder(config)
	defer closeStore()
	if repo == nil {
		return
	}
	if err := repo.Create(models.NewAuthEvent(kind, detail)); err != nil {
		r.logger.Warn("failed to record auth event", "kind", kind, "error", err)
	}
}

func closeDB(r *Runner, db *sql.DB) {
	if err := db.Close(); err != nil {
		r.logger.Warn("failed to close database", "error", err)
	}
}
