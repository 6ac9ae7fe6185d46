package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/miirko99/translation-api/internal/cli"
	"github.com/miirko99/translation-api/internal/config"
	"github.com/miirko99/translation-api/internal/logging"
)

// loadRuntime loads the env file, configuration and logger shared by every
// command. A non-zero code means the command should exit with it.
func loadRuntime(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, int) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, zerolog.Nop(), 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return nil, zerolog.Nop(), 1
	}

	return cfg, logger, 0
}
