// Package config handles configuration for the auth server: defaults, a JSON
// overlay, environment variables (optionally from a .env file), and
// command-line flags, applied in that order.
package config

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the auth server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - MetricsAddr: bind address for /metrics and /healthz. Empty disables it.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). No default.
//   - BcryptCost: password hashing work factor.
//   - StoreTimeout: upper bound for every account store call.
//   - RotateRefreshTokens: mint a new refresh token on every refresh.
type Config struct {
	EndpointAddrGRPC    string
	MetricsAddr         string
	DatabaseDSN         string
	SecretKey           string
	BcryptCost          int
	StoreTimeout        time.Duration
	RotateRefreshTokens bool
}

// LoadDefaults populates Config with development defaults. SecretKey is left
// empty on purpose: it must come from JSON, JWT_SECRET, or -s.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.MetricsAddr = ":9090"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.BcryptCost = bcrypt.DefaultCost
	c.StoreTimeout = 5 * time.Second
	c.RotateRefreshTokens = false
}

// Validate reports settings the server cannot start with. A missing secret is
// left to auth.NewCodec, which owns that error.
func (c *Config) Validate() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("store timeout must be positive, got %s", c.StoreTimeout)
	}
	if c.EndpointAddrGRPC == "" {
		return fmt.Errorf("gRPC address is empty")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
