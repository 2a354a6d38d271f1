package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-m", ":9100", "-d", "db", "-s", "secret",
				"-k", "12", "-w", "3s", "-R",
			},
			expected: &Config{
				EndpointAddrGRPC:    "127.0.0.1:9090",
				MetricsAddr:         ":9100",
				DatabaseDSN:         "db",
				SecretKey:           "secret",
				BcryptCost:          12,
				StoreTimeout:        3 * time.Second,
				RotateRefreshTokens: true,
			},
		},
		{
			name: "config flag and unknown flags are ignored",
			args: []string{"cmd", "-c", "file.json", "-x", "1", "-s", "k"},
			expected: &Config{
				SecretKey: "k",
			},
		},
		{
			name:    "bad duration",
			args:    []string{"cmd", "-w", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			err := parseFlags(config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
