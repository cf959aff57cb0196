package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

const healthCheckTimeout = 5 * time.Second

type healthFlags struct {
	URL     string
	Timeout time.Duration
}

// newHealthCmd creates a cobra command that probes the /livez endpoint of a running rulebook server.
func newHealthCmd() *cobra.Command {
	var hf healthFlags

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the health of a running rulebook server",
		Long:  "Query the /livez endpoint of a running rulebook server and exit non-zero unless it answers 200.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHealthCheck(cmd.Context(), cmd.OutOrStdout(), &hf)
		},
	}

	cmd.Flags().StringVar(&hf.URL, "url", "http://localhost:8080", "base URL of the rulebook server")
	cmd.Flags().DurationVar(&hf.Timeout, "timeout", healthCheckTimeout, "how long to wait for an answer")

	return cmd
}

// runHealthCheck writes "ok" to w when the server at hf.URL answers /livez with HTTP 200.
func runHealthCheck(ctx context.Context, w io.Writer, hf *healthFlags) error {
	timeout := hf.Timeout
	if timeout <= 0 {
		timeout = healthCheckTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hf.URL+"/livez", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req) //nolint:gosec // URL comes from a CLI flag
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	_, err = fmt.Fprintln(w, "ok")

	return err
}
