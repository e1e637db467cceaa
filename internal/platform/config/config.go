// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and passed to components through
their constructors. No package keeps it in a global.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// InsecureSessionSecret is used when SESSION_SECRET is unset. Startup logs a
// warning whenever it is in effect.
const InsecureSessionSecret = "registration-form-secret"

// # Configuration Schema

// Config holds all runtime configuration for the Roster API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"5000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StorageDriver selects the record store: "postgres" or "memory".
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// Relational Database (PostgreSQL), required by the postgres driver.
	DatabaseURL string `env:"DATABASE_URL"`

	// RedisURL switches session storage to Redis when set.
	RedisURL string `env:"REDIS_URL"`

	// Session signing and lifecycle
	SessionSecret        string        `env:"SESSION_SECRET"         envDefault:"registration-form-secret"`
	SessionPruneInterval time.Duration `env:"SESSION_PRUNE_INTERVAL" envDefault:"1h"`

	// AdminSeedPassword is hashed into the bootstrap admin account.
	AdminSeedPassword string `env:"ADMIN_SEED_PASSWORD" envDefault:"password"`

	// IP geolocation provider
	GeoIPBaseURL       string        `env:"GEOIP_BASE_URL"        envDefault:"https://ipapi.co"`
	GeoIPTimeout       time.Duration `env:"GEOIP_TIMEOUT"         envDefault:"3s"`
	GeoIPRatePerMinute int           `env:"GEOIP_RATE_PER_MINUTE" envDefault:"45"`

	// AllowedOrigins is a comma-separated list of admin panel origins (production only).
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates
// cross-field constraints.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the constraints that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.SessionPruneInterval <= 0 {
		return errors.New("config: SESSION_PRUNE_INTERVAL must be positive")
	}

	if c.GeoIPRatePerMinute <= 0 {
		return errors.New("config: GEOIP_RATE_PER_MINUTE must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
// It also controls the Secure flag of the session cookie.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesInsecureSessionSecret reports whether the built-in signing secret is active.
func (c *Config) UsesInsecureSessionSecret() bool {
	return c.SessionSecret == "" || c.SessionSecret == InsecureSessionSecret
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
