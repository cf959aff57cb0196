package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ksysoev/rulebook/pkg/cmd"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const appName = "rulebook"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	command := cmd.InitCommand(cmd.BuildInfo{
		Version: version,
		AppName: appName,
	})

	if err := command.ExecuteContext(ctx); err != nil {
		slog.Error("failed to execute command", "error", err)
		cancel()
		os.Exit(1)
	}
}
