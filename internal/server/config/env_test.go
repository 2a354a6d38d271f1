package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv(EnvSecretKey, "env-secret")
	t.Setenv(EnvDatabaseDSN, "postgres://env")
	t.Setenv(EnvGRPCAddr, ":6000")
	t.Setenv(EnvMetricsAddr, ":6001")
	t.Setenv(EnvBcryptCost, "11")
	t.Setenv(EnvStoreTimeout, "9s")
	t.Setenv(EnvRotateRefreshTokens, "true")

	cfg := &Config{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, &Config{
		EndpointAddrGRPC:    ":6000",
		MetricsAddr:         ":6001",
		DatabaseDSN:         "postgres://env",
		SecretKey:           "env-secret",
		BcryptCost:          11,
		StoreTimeout:        9 * time.Second,
		RotateRefreshTokens: true,
	}, cfg)
}

func TestParseEnv_InvalidValues(t *testing.T) {
	for _, key := range []string{EnvBcryptCost, EnvStoreTimeout, EnvRotateRefreshTokens} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "not-a-value")
			err := parseEnv(&Config{})
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestParseEnv_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=dotenv-secret\n"), 0o600))

	// godotenv.Load sets process env; make sure it is cleared afterwards.
	t.Setenv(EnvSecretKey, "")
	require.NoError(t, os.Unsetenv(EnvSecretKey))

	cfg := &Config{}
	require.NoError(t, parseEnv(cfg, path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "dotenv-secret", cfg.SecretKey)
}
