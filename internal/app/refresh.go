package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/miirko99/translation-api/internal/cli"
	"github.com/miirko99/translation-api/internal/db"
	"github.com/miirko99/translation-api/internal/logging"
	"github.com/miirko99/translation-api/internal/upstream"
	"github.com/miirko99/translation-api/internal/whitelist"
)

func runRefresh(args []string) int {
	fs := flag.NewFlagSet("refresh", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	list := fs.Bool("list", false, "Print every supported language and domain")
	record := fs.Bool("record", true, "Record the attempt in the database when DATABASE_URL is set")

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

	var recorder whitelist.Recorder
	if *record && cfg.LedgerEnabled() {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Error().Err(err).Msg("refresh command failed to connect to database")
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			return 1
		}
		defer pool.Close()
		recorder = db.NewRefreshLedger(pool)
	}

	client := upstream.NewClient(cfg.TranslationAPIURL, cfg.UpstreamTimeout)
	store := whitelist.NewStore(client, recorder, logging.Component(logger, "whitelist"))
	result := store.Refresh(ctx, whitelist.TriggerManual)

	fmt.Println(formatRefreshResult(result))
	if *list {
		snap := store.Snapshot()
		fmt.Printf("languages: %s\n", strings.Join(snap.Languages(), ", "))
		fmt.Printf("domains: %s\n", strings.Join(snap.Domains(), ", "))
	}

	if !result.Languages.Updated || !result.Domains.Updated {
		return 1
	}
	return 0
}

func formatRefreshResult(result whitelist.RefreshResult) string {
	return fmt.Sprintf(
		"refresh trigger=%s languages=%s domains=%s",
		result.Trigger,
		formatListResult(result.Languages),
		formatListResult(result.Domains),
	)
}

func formatListResult(result whitelist.ListResult) string {
	if result.Updated {
		return fmt.Sprintf("ok(%d)", result.Count)
	}
	if result.Err != nil {
		return fmt.Sprintf("failed(%v)", result.Err)
	}
	return "skipped"
}
