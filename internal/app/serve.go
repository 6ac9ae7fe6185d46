package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miirko99/translation-api/internal/cli"
	"github.com/miirko99/translation-api/internal/db"
	"github.com/miirko99/translation-api/internal/gateway"
	"github.com/miirko99/translation-api/internal/httpapi"
	"github.com/miirko99/translation-api/internal/logging"
	"github.com/miirko99/translation-api/internal/upstream"
	"github.com/miirko99/translation-api/internal/whitelist"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	host := fs.String("host", "0.0.0.0", "Host interface to bind")
	port := fs.Int("port", 8080, "HTTP port")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *port <= 0 || *port > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
		return 2
	}

	cfg, logger, code := loadRuntime(envLoader)
	if code != 0 {
		return code
	}

	var recorder whitelist.Recorder
	if cfg.LedgerEnabled() {
		dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := db.NewPool(dbCtx, cfg)
		dbCancel()
		if err != nil {
			logger.Error().Err(err).Msg("serve failed to connect to database")
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			return 1
		}
		defer pool.Close()
		recorder = db.NewRefreshLedger(pool)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	client := upstream.NewClient(cfg.TranslationAPIURL, cfg.UpstreamTimeout)
	store := whitelist.NewStore(client, recorder, logging.Component(logger, "whitelist"))

	// Requests arriving while both sets are empty are rejected (fail closed).
	startupCtx, startupCancel := context.WithTimeout(ctx, 2*cfg.UpstreamTimeout)
	result := store.Refresh(startupCtx, whitelist.TriggerStartup)
	startupCancel()
	if !result.Languages.Updated || !result.Domains.Updated {
		logger.Warn().
			Bool("languages_updated", result.Languages.Updated).
			Bool("domains_updated", result.Domains.Updated).
			Msg("startup whitelist refresh incomplete; unsupported requests will be rejected until the next refresh")
	}

	go store.Run(ctx, cfg.WhitelistRefreshInterval)

	svc := gateway.NewService(store, client, logging.Component(logger, "gateway"), cfg.UpstreamTimeout)
	srv := httpapi.NewServer(svc, store, logger, httpapi.Options{
		Host:            *host,
		Port:            *port,
		ReadTimeout:     *readTimeout,
		WriteTimeout:    *writeTimeout,
		ShutdownTimeout: *shutdownTimeout,
	})

	logger.Info().
		Str("upstream", client.BaseURL()).
		Dur("refresh_interval", cfg.WhitelistRefreshInterval).
		Bool("ledger", recorder != nil).
		Msg("starting translation gateway")

	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Str("host", *host).Int("port", *port).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}

	return 0
}
