package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ksysoev/rulebook/pkg/api"
	"github.com/ksysoev/rulebook/pkg/repo/backend"
	"github.com/ksysoev/rulebook/pkg/views"
)

// RunCommand initializes the logger, loads configuration, creates the backend client and
// the API service, and starts the API service. It returns an error if any step fails.
func RunCommand(ctx context.Context, flags *cmdFlags) error {
	if err := initLogger(flags); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := backend.New(cfg.Backend)

	slog.InfoContext(ctx, "Using rulebook backend", "base_url", cfg.Backend.BaseURL)

	apiSvc, err := api.New(cfg.API, client, views.New())
	if err != nil {
		return fmt.Errorf("failed to create API service: %w", err)
	}

	err = apiSvc.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to run API service: %w", err)
	}

	return nil
}
