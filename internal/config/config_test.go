package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.HTTPPort)
	assert.Equal(t, 50051, cfg.Server.GRPCPort)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Control.Interval)
	assert.Equal(t, "localhost:5000", cfg.Server.HTTPAddr())
	assert.False(t, cfg.Logging.Development)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 0.0.0.0
  http_port: 5601
  grpc_port: 0
control:
  interval: 250ms
layout:
  path: layouts/boat.yaml
logging:
  development: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5601", cfg.Server.HTTPAddr())
	assert.Equal(t, 0, cfg.Server.GRPCPort)
	assert.Equal(t, 250*time.Millisecond, cfg.Control.Interval)
	assert.Equal(t, "layouts/boat.yaml", cfg.Layout.Path)
	assert.True(t, cfg.Logging.Development)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SWB_SERVER_HTTP_PORT", "6000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Server.HTTPPort)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("control:\n  interval: 0s\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
