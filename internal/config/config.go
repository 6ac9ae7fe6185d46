package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	TranslationAPIURL        string        `envconfig:"TRANSLATION_API_URL" required:"true"`
	UpstreamTimeout          time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`
	WhitelistRefreshInterval time.Duration `envconfig:"WHITELIST_REFRESH_INTERVAL" default:"24h"`

	// DatabaseURL is optional; when empty the refresh ledger is disabled.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"4"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	base := strings.TrimSpace(c.TranslationAPIURL)
	if base == "" {
		return fmt.Errorf("TRANSLATION_API_URL is required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("TRANSLATION_API_URL is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("TRANSLATION_API_URL must use http or https, got %q", parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return fmt.Errorf("TRANSLATION_API_URL must include a host")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be > 0")
	}
	if c.WhitelistRefreshInterval <= 0 {
		return fmt.Errorf("WHITELIST_REFRESH_INTERVAL must be > 0")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}

// LedgerEnabled reports whether refresh attempts should be written to the database.
func (c *Config) LedgerEnabled() bool {
	return c != nil && strings.TrimSpace(c.DatabaseURL) != ""
}
