package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "stm.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: door.yaml
store:
  backend: redis
  redis:
    addr: localhost:6379
    prefix: "door:"
    ttl: 1h
http:
  port: "9090"
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "door.yaml", cfg.Model)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "door:", cfg.Store.Redis.Prefix)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "stdio", cfg.MCP.Transport, "unset keys keep their defaults")
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stm.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"store": {"backend": "file", "dir": "models"}}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "models", cfg.Store.Dir)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown backend", "store:\n  backend: etcd\n"},
		{"redis without addr", "store:\n  backend: redis\n"},
		{"unknown transport", "mcp:\n  transport: websocket\n"},
		{"malformed", "store: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "stm.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}
