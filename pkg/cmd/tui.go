package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ksysoev/rulebook/pkg/repo/backend"
	"github.com/ksysoev/rulebook/pkg/tui"
	"github.com/ksysoev/rulebook/pkg/webapp"
	"github.com/spf13/cobra"
)

type tuiFlags struct {
	LogFile string
	Options webapp.Options
}

// newTUICmd creates a cobra command that runs the rulebook viewer in the terminal.
func newTUICmd(flags *cmdFlags) *cobra.Command {
	var tf tuiFlags

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the rulebook in the terminal",
		Long: "Run the rulebook viewer as a terminal UI against the configured backend. " +
			"Logs go to --log-file, or nowhere when it is empty, so they do not corrupt the screen.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), flags, &tf)
		},
	}

	cmd.Flags().StringVar(&tf.LogFile, "log-file", "", "file to append logs to")
	cmd.Flags().StringVar(&tf.Options.Query, "query", "", "search for this once the rulebook has loaded")
	cmd.Flags().BoolVar(&tf.Options.NoContent, "no-content", false, "do not show document URLs")
	cmd.Flags().BoolVar(&tf.Options.AddEmptyDoc, "add-empty-doc", false, "add an empty content doc")

	return cmd
}

func runTUI(ctx context.Context, flags *cmdFlags, tf *tuiFlags) error {
	logOut, closeLog, err := openLogFile(tf.LogFile)
	if err != nil {
		return err
	}

	defer closeLog()

	if err := initLoggerTo(logOut, flags); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	return tui.Run(ctx, backend.New(cfg.Backend), tf.Options)
}

// openLogFile opens path for appending, or returns io.Discard when path is empty.
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}
