package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the review service.
// Environment variables are parsed from the RUMBLE_ prefix,
// e.g. RUMBLE_HTTP_PORT, RUMBLE_POSTGRES_DSN.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store driver: postgres, sqlite, or auto (postgres when a DSN is set,
	// sqlite otherwise)
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/rumble.db"`

	// External catalog (OMDB-compatible API)
	CatalogBaseURL        string `envconfig:"CATALOG_BASE_URL" default:"https://www.omdbapi.com"`
	CatalogAPIKey         string `envconfig:"CATALOG_API_KEY" default:""`
	CatalogTimeoutSeconds int    `envconfig:"CATALOG_TIMEOUT_SECONDS" default:"10"`

	// Suggestion bound for search-as-you-type
	SuggestLimit int `envconfig:"SUGGEST_LIMIT" default:"5"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"15"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults derives DBDriver when set to "auto" and validates the result.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	allowed := map[string]bool{"postgres": true, "sqlite": true}
	if !allowed[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("DB_DRIVER is postgres but POSTGRES_DSN is empty")
	}
	if c.CatalogAPIKey == "" {
		return fmt.Errorf("CATALOG_API_KEY is required")
	}
	if c.SuggestLimit <= 0 {
		return fmt.Errorf("SUGGEST_LIMIT must be positive, got %d", c.SuggestLimit)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("RUMBLE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Str("catalog_base_url", cfg.CatalogBaseURL).
		Int("suggest_limit", cfg.SuggestLimit).
		Str("postgres_dsn_present", func() string {
			if cfg.PostgresDSN != "" {
				return "true"
			}
			return "false"
		}()).
		Msg("Configuration loaded")

	return &cfg, nil
}
