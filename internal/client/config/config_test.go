package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(EnvServerAddr, "")
	t.Setenv(EnvRequestTimeout, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr)
}

func TestLoad_EnvOverridesJSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"server_endpoint_addr": "json:1",
		"request_timeout":      "3s",
	})
	t.Setenv(EnvServerAddr, "env:2")
	t.Setenv(EnvRequestTimeout, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env:2", cfg.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestLoad_BadEnvTimeout(t *testing.T) {
	t.Setenv(EnvRequestTimeout, "soon")

	_, err := Load("")
	assert.ErrorContains(t, err, EnvRequestTimeout)
}
