package main

import (
	"context"
	"time"

	"github.com/desertthunder/mirei/internal/server"
	"github.com/desertthunder/mirei/internal/services"
	"github.com/urfave/cli/v3"
)

// defaultStartupTimeout bounds the startup credential check when ytmusic.init_timeout is unset.
const defaultStartupTimeout = 15 * time.Second

// Serve runs the HTTP API until ctx is cancelled.
//
// Client initialization is attempted once at startup. A failure is logged and retried by the first request that needs
// the client.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	serverConfig := config.Server
	if host := cmd.String("host"); host != "" {
		serverConfig.Host = host
	}
	if cmd.IsSet("port") {
		serverConfig.Port = cmd.Int("port")
	}

	recorder, closeStore := r.openRecorder(config)
	defer closeStore()

	opts := services.SessionOpts{Logger: r.logger, Timeout: config.YTMusic.InitTimeout}
	if recorder != nil {
		opts.Recorder = recorder
	}
	session := services.NewSession(services.ClientFactory(config, r.oauthConfig(config), r.httpClient), opts)

	startup := config.YTMusic.InitTimeout
	if startup <= 0 {
		startup = defaultStartupTimeout
	}
	startCtx, cancel := context.WithTimeout(ctx, startup)
	_, err = session.Library(startCtx)
	cancel()
	if err != nil {
		r.logger.Warn("YouTube Music client unavailable, requests will retry", "error", err)
	}

	srv := server.NewServer(serverConfig, server.NewHandler(session, r.logger), r.logger)
	r.logger.Info("starting server", "addr", srv.Addr())

	if err := srv.Run(ctx); err != nil {
		return err
	}
	r.logger.Info("server stopped")
	return nil
}
