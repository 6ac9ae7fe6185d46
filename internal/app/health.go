package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/miirko99/translation-api/internal/cli"
	"github.com/miirko99/translation-api/internal/db"
	"github.com/miirko99/translation-api/internal/upstream"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Second, "Health check timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, logger, code := loadRuntime(envLoader)
	if code != 0 {
		return code
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := upstream.NewClient(cfg.TranslationAPIURL, cfg.UpstreamTimeout)
	languages, err := client.ListLanguages(ctx)
	if err != nil {
		logger.Error().Err(err).Str("upstream", client.BaseURL()).Msg("health check failed")
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		return 1
	}
	fmt.Printf("ok: upstream reachable (%d languages)\n", len(languages))

	if cfg.LedgerEnabled() {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Error().Err(err).Msg("health check failed")
			fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
			return 1
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error().Err(err).Msg("health check failed")
			fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
			return 1
		}
		fmt.Println("ok: database ping successful")
	}

	logger.Info().
		Dur("timeout", *timeout).
		Str("upstream", client.BaseURL()).
		Msg("health check passed")
	return 0
}
