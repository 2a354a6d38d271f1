package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvSecretKey           = "JWT_SECRET"
	EnvDatabaseDSN         = "DATABASE_DSN"
	EnvGRPCAddr            = "GRPC_ADDR"
	EnvMetricsAddr         = "METRICS_ADDR"
	EnvBcryptCost          = "BCRYPT_COST"
	EnvStoreTimeout        = "STORE_TIMEOUT"
	EnvRotateRefreshTokens = "ROTATE_REFRESH_TOKENS"
)

// parseEnv loads the given dotenv files (missing files are skipped; variables
// already set in the process win) and overlays the environment onto config.
func parseEnv(config *Config, dotenvFiles ...string) error {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	if v, ok := os.LookupEnv(EnvSecretKey); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvGRPCAddr); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := os.LookupEnv(EnvMetricsAddr); ok {
		config.MetricsAddr = v
	}
	if v, ok := os.LookupEnv(EnvBcryptCost); ok {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBcryptCost, err)
		}
		config.BcryptCost = cost
	}
	if v, ok := os.LookupEnv(EnvStoreTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStoreTimeout, err)
		}
		config.StoreTimeout = d
	}
	if v, ok := os.LookupEnv(EnvRotateRefreshTokens); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRotateRefreshTokens, err)
		}
		config.RotateRefreshTokens = b
	}
	return nil
}
