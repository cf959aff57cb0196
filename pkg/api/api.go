// Package api provides the HTTP server of the rulebook viewer's web front end.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/ksysoev/rulebook/pkg/webapp"
)

const (
	defaultTimeout       = 5 * time.Second
	defaultActionTimeout = 3 * time.Second
)

// API is the HTTP server that hosts one viewer application per browser session.
type API struct {
	sessions *sessionStore
	views    ViewRenderer
	config   Config
}

// Config holds the configuration for the API server.
type Config struct {
	Listen        string        `mapstructure:"listen"`
	APIKeys       []string      `mapstructure:"api_keys"` //nolint:gosec // This is a config struct, not a secret value
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	MaxSessions   int           `mapstructure:"max_sessions"`
	ActionTimeout time.Duration `mapstructure:"action_timeout"`
}

// ViewRenderer defines the interface for rendering HTML views.
type ViewRenderer interface {
	RenderApp(w io.Writer, snap *webapp.Snapshot, partial bool) error
	RenderNotFound(w io.Writer) error
	Assets() fs.FS
}

// New creates a new API instance with the provided configuration, backend, and view renderer.
// It validates the configuration and returns an error if the listen address is not specified.
func New(cfg Config, backend webapp.Backend, views ViewRenderer) (*API, error) {
	if cfg.Listen == "" {
		return nil, fmt.Errorf("listen address must be specified")
	}

	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = defaultActionTimeout
	}

	api := &API{
		config:   cfg,
		sessions: newSessionStore(backend, cfg.SessionTTL, cfg.MaxSessions),
		views:    views,
	}

	return api, nil
}

// Run starts the API server with the provided configuration.
// It listens on the address specified in the configuration and handles graceful shutdown.
// Sessions still open when ctx is done are closed.
func (a *API) Run(ctx context.Context) error {
	s := &http.Server{
		Addr:              a.config.Listen,
		ReadHeaderTimeout: defaultTimeout,
		WriteTimeout:      defaultTimeout + a.config.ActionTimeout,
		Handler:           a.newMux(),
	}

	go a.sessions.run(ctx)

	go func() {
		<-ctx.Done()

		err := s.Close()

		slog.WarnContext(ctx, "shutting down API server", "error", err)
	}()

	slog.InfoContext(ctx, "API server listening", "listen", a.config.Listen)

	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
