// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load(logger)
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (auth, CORS, rate limiting) via constructors.
  - Zero Hidden State: Request-handling code never reads ambient environment variables.

Startup is deliberately fail-fast: a production deployment with a missing or
placeholder admin secret refuses to boot rather than running insecurely.
*/
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Insecure Placeholders

// placeholderSecrets are values that must never survive into production.
// They cover common defaults, example values, and the Croatian word for
// "password" that shows up in local setups.
var placeholderSecrets = []string{
	"",
	"admin",
	"password",
	"lozinka",
	"secret",
	"changeme",
	"change-me",
	"your-secret-here",
	"dev-secret",
}

// Development-only fallbacks, used (with a warning) when the real secrets
// are unset outside production.
const (
	devAdminPassword = "dev-lozinka"
	devJWTSecret     = "dev-jwt-secret-do-not-deploy"
)

// # Configuration Schema

// Config holds all runtime configuration for the Kavomjer API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Flat-file catalog storage
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	// Admin credential. Exactly one mode is active:
	//   - AdminPasswordHash set: bcrypt comparison (preferred).
	//   - otherwise: constant-time comparison against AdminPassword, the
	//     legacy plain-text mode inherited from the original deployment.
	AdminPassword     string `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	// Session token signing secret (HS256)
	JWTSecret string `env:"JWT_SECRET"`

	// Cross-Origin Resource Sharing. Comma-separated origin list, consulted
	// only in production; empty means every cross-origin browser request is
	// denied.
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`

	// Optional shared rate-limit counter store. When unset, counters are
	// process-local and reset on restart.
	RedisURL string `env:"REDIS_URL"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and enforces the
// startup security gate.
//
// A .env file is honored when present so local development does not need
// exported shell variables. Missing .env is not an error.
func Load(logger *slog.Logger) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validateSecrets(logger); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateSecrets is the fail-fast safety gate.
//
// Production refuses to start with unset or placeholder secrets. Development
// falls back to fixed defaults and warns loudly.
func (c *Config) validateSecrets(logger *slog.Logger) error {
	if c.IsProduction() {
		var problems []string

		if c.AdminPasswordHash == "" && isPlaceholder(c.AdminPassword) {
			problems = append(problems, "ADMIN_PASSWORD is unset or a known placeholder (set ADMIN_PASSWORD or ADMIN_PASSWORD_HASH)")
		}
		if isPlaceholder(c.JWTSecret) {
			problems = append(problems, "JWT_SECRET is unset or a known placeholder")
		}

		if len(problems) > 0 {
			return errors.New("config: refusing to start in production: " + strings.Join(problems, "; "))
		}
		return nil
	}

	// Non-production: substitute fallbacks, never silently.
	if c.AdminPasswordHash == "" && c.AdminPassword == "" {
		c.AdminPassword = devAdminPassword
		logger.Warn("ADMIN_PASSWORD not set, using development fallback",
			slog.String("environment", c.Environment))
	}
	if c.JWTSecret == "" {
		c.JWTSecret = devJWTSecret
		logger.Warn("JWT_SECRET not set, using development fallback",
			slog.String("environment", c.Environment))
	}

	return nil
}

// isPlaceholder reports whether a secret value is unset or on the deny-list.
func isPlaceholder(secret string) bool {
	lowered := strings.ToLower(strings.TrimSpace(secret))
	for _, placeholder := range placeholderSecrets {
		if lowered == placeholder {
			return true
		}
	}
	return false
}

// # Derived Settings

// Origins returns the CORS allow-list for the current environment.
//
// Deterministic for a given configuration, so callers may compute it once
// and reuse it for every request.
func (c *Config) Origins(devDefaults []string) []string {
	if !c.IsProduction() {
		return devDefaults
	}

	if strings.TrimSpace(c.AllowedOrigins) == "" {
		return nil
	}

	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// UploadDir returns the directory holding uploaded coffee images,
// nested under [Config.DataDir] so one volume mount covers both.
func (c *Config) UploadDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
