// Copyright (c) 2026 Canopy Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	MongoURI       string `env:"CANOPY_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase  string `env:"CANOPY_MONGO_DB" envDefault:"canopy"`
	SessionSecret  string `env:"CANOPY_SESSION_SECRET,required"`
	APITokenSecret string `env:"CANOPY_API_TOKEN_SECRET"`
	ServerHost     string `env:"CANOPY_SERVER_HOST" envDefault:"localhost"`
	ServerPort     int    `env:"CANOPY_SERVER_PORT" envDefault:"8080"`
	Env            string `env:"CANOPY_ENV" envDefault:"development"`
	LogLevel       string `env:"CANOPY_LOG_LEVEL" envDefault:"info"`
	UploadsDir     string `env:"CANOPY_UPLOADS_DIR" envDefault:"./uploads"`

	// RedisURL selects the Redis-backed session store when set. Sessions fall
	// back to the in-memory store otherwise.
	RedisURL string `env:"CANOPY_REDIS_URL"`

	// PurgeRetentionDays is how long soft-deleted documents are kept before
	// the scheduler removes them permanently.
	PurgeRetentionDays int `env:"CANOPY_PURGE_RETENTION_DAYS" envDefault:"30"`

	// Seeding configuration
	DoSeed         bool   `env:"CANOPY_DO_SEED" envDefault:"false"`
	SeedAdminEmail string `env:"CANOPY_SEED_ADMIN_EMAIL" envDefault:"admin@example.com"`
	SeedAdminPass  string `env:"CANOPY_SEED_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisSessions returns true if the Redis session store is configured.
func (c Config) UseRedisSessions() bool {
	return c.RedisURL != ""
}

// APISecret returns the signing secret for public API bearer tokens.
// Falls back to the session secret when no dedicated secret is configured.
func (c Config) APISecret() string {
	if c.APITokenSecret != "" {
		return c.APITokenSecret
	}
	return c.SessionSecret
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CANOPY_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("CANOPY_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CANOPY_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.PurgeRetentionDays < 1 {
		cfg.PurgeRetentionDays = 30
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
