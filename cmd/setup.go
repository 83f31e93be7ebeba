package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mirei/internal/models"
	"github.com/desertthunder/mirei/internal/shared"
	"github.com/desertthunder/mirei/internal/ui"
	"github.com/desertthunder/mirei/internal/ytmusic"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const tuiLogPath = "./tmp/mirei-setup.log"

// SetupOAuth runs the device authorization grant and writes the credential file.
//
// Any failure ends the run; nothing is retried.
func (r *Runner) SetupOAuth(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	yt := config.Credentials.YouTube
	if err := yt.Validate(); err != nil {
		return err
	}

	if _, err := os.Stat(yt.OAuthPath); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%w: %s (use --force to replace it)", shared.ErrCredentialsExist, yt.OAuthPath)
	}

	flow := ytmusic.NewDeviceFlow(r.oauthConfig(config), r.httpClient)

	r.logger.Info("requesting device code")
	auth, err := flow.Start(ctx)
	if err != nil {
		return err
	}

	var token *oauth2.Token
	if cmd.Bool("plain") {
		token, err = r.waitPlain(ctx, flow, auth, cmd.Bool("open"))
	} else {
		token, err = r.waitInteractive(ctx, flow, auth)
	}
	if err != nil {
		return err
	}

	if err := ytmusic.SaveToken(yt.OAuthPath, token); err != nil {
		return err
	}
	r.logger.Info("credential file written", "path", yt.OAuthPath)

	r.recordEvent(config, models.EventBootstrap, "credential file written to "+yt.OAuthPath)

	r.writePlain("✓ YouTube Music authorization complete\n")
	r.writePlain("Credentials saved to: %s\n", yt.OAuthPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'mirei auth status' to verify the credentials\n")
	r.writePlain("2. Run 'mirei serve' to start the API\n")
	return nil
}

func (r *Runner) waitPlain(ctx context.Context, flow *ytmusic.DeviceFlow, auth *oauth2.DeviceAuthResponse, open bool) (*oauth2.Token, error) {
	url := auth.VerificationURI
	if auth.VerificationURIComplete != "" {
		url = auth.VerificationURIComplete
	}

	r.writePlainHeader("YouTube Music authorization")
	r.writePlain("1. Visit %s\n", url)
	r.writePlain("2. Enter the code: %s\n", auth.UserCode)
	if !auth.Expiry.IsZero() {
		r.writePlain("The code expires at %s\n", auth.Expiry.Local().Format("15:04"))
	}

	if open {
		if err := r.openBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	r.writePlain("Waiting for approval...\n")
	return flow.Wait(ctx, auth)
}

func (r *Runner) waitInteractive(ctx context.Context, flow *ytmusic.DeviceFlow, auth *oauth2.DeviceAuthResponse) (*oauth2.Token, error) {
	var token *oauth2.Token
	err := r.withFileLogger(tuiLogPath, func() error {
		wait := func(ctx context.Context) (*oauth2.Token, error) { return flow.Wait(ctx, auth) }
		model := ui.NewDeviceModel(ctx, auth, wait, r.openBrowser)

		if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("error running setup view: %w", err)
		}

		var err error
		token, err = model.Result()
		return err
	})
	return token, err
}

// withFileLogger redirects logs to the file at path while fn runs, so they do not interfere with TUI rendering.
// The previous logger is restored and the file closed before it returns.
func (r *Runner) withFileLogger(path string, fn func() error) error {
	fileLogger, closer, err := shared.NewFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}

	prev := r.logger
	r.logger = fileLogger
	defer func() {
		r.logger = prev
		if err := closer.Close(); err != nil {
			prev.Warn("failed to close log file", "path", path, "err", err)
		}
	}()

	return fn()
}

// SetupConfig writes config.toml from the embedded example.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Set credentials.youtube.client_id and client_secret, then run 'mirei setup oauth'\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenStore(config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		return r.writePlain("✓ Rolled back latest migration on %s\n", config.Database.Path)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", config.Database.Path)
}
