package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// initLogger installs the default logger writing to stderr, as configured by flags.
func initLogger(flags *cmdFlags) error {
	return initLoggerTo(os.Stderr, flags)
}

// initLoggerTo installs the default logger writing to w.
func initLoggerTo(w io.Writer, flags *cmdFlags) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(flags.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", flags.LogLevel, err)
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if flags.TextFormat {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	if flags.version != "" {
		logger = logger.With("app", flags.appName, "ver", flags.version)
	}

	slog.SetDefault(logger)

	return nil
}
