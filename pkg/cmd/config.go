package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ksysoev/rulebook/pkg/api"
	"github.com/ksysoev/rulebook/pkg/repo/backend"
	"github.com/spf13/viper"
)

const (
	defaultListen     = ":8080"
	defaultBackendURL = "http://localhost:5020"
)

type appConfig struct {
	API     api.Config     `mapstructure:"api"`
	Backend backend.Config `mapstructure:"backend"`
}

// loadConfig loads the application configuration from the specified file path and environment variables.
// Environment variables override the file, with "." replaced by "_" (API_LISTEN, BACKEND_BASE_URL).
func loadConfig(flags *cmdFlags) (*appConfig, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())

	v.SetDefault("api.listen", defaultListen)
	v.SetDefault("backend.base_url", defaultBackendURL)

	if flags.ConfigPath != "" {
		v.SetConfigFile(flags.ConfigPath)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg appConfig

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend.base_url must be specified")
	}

	slog.Debug("Config loaded", slog.String("listen", cfg.API.Listen), slog.String("backend", cfg.Backend.BaseURL))

	return &cfg, nil
}
