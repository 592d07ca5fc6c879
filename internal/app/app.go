package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmelnik/roomcast/internal/config"
	"github.com/dmelnik/roomcast/internal/core"
	transporthttp "github.com/dmelnik/roomcast/internal/transport/http"
	"github.com/dmelnik/roomcast/internal/welcome"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	registry        *core.Registry
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	var provider core.WelcomeProvider
	if cfg.WelcomeURL != "" {
		provider = &welcome.Remote{
			Name:    cfg.WelcomePersona,
			URL:     cfg.WelcomeURL,
			Timeout: cfg.WelcomeTimeout,
		}
	} else {
		provider = &welcome.Static{Name: cfg.WelcomePersona}
	}

	registry := core.NewRegistry(core.Options{
		DefaultRoom: cfg.DefaultRoom,
		LogonGrace:  cfg.LogonGrace,
		SendBuffer:  cfg.SendBuffer,
		Welcome:     provider,
	}, logger)

	server := transporthttp.NewServer(registry, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		registry:        registry,
		log:             logger,
	}
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup tells every remaining session the server is going away and
// tears the registry down.
func (a *App) cleanup() {
	a.registry.Close()
	a.log.Info().Msg("registry closed")
}
