package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/miirko99/translation-api/internal/cli"
	"github.com/miirko99/translation-api/internal/db"
)

func runHistory(args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Command timeout")
	limit := fs.Int("limit", 20, "Maximum refresh runs to show")
	list := fs.String("list", "", "Only show one list: languages or domains")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *limit <= 0 {
		fmt.Fprintln(os.Stderr, "--limit must be > 0")
		return 2
	}
	switch strings.ToLower(strings.TrimSpace(*list)) {
	case "", "languages", "domains":
	default:
		fmt.Fprintln(os.Stderr, "--list must be languages or domains")
		return 2
	}

	cfg, logger, code := loadRuntime(envLoader)
	if code != 0 {
		return code
	}
	if !cfg.LedgerEnabled() {
		fmt.Fprintln(os.Stderr, "history requires DATABASE_URL")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("history command failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	rows, err := db.NewRefreshLedger(pool).ListRecent(ctx, *list, *limit)
	if err != nil {
		logger.Error().Err(err).Msg("history query failed")
		fmt.Fprintf(os.Stderr, "History failed: %v\n", err)
		return 1
	}

	writeHistory(os.Stdout, rows)
	return 0
}

func writeHistory(out io.Writer, rows []db.RefreshRun) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tTRIGGER\tLIST\tSTATUS\tITEMS\tDURATION\tERROR")
	for _, row := range rows {
		errText := ""
		if row.ErrorMessage != nil {
			errText = *row.ErrorMessage
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			row.StartedAt.UTC().Format(time.RFC3339),
			row.Trigger,
			row.ListKind,
			row.Status,
			row.ItemCount,
			row.FinishedAt.Sub(row.StartedAt).Round(time.Millisecond),
			errText,
		)
	}
	_ = tw.Flush()
}
