package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Search.DefaultTopK)
	assert.Equal(t, 50, cfg.Search.MaxTopK)
	assert.Equal(t, 384, cfg.Embeddings.Dimensions)
	assert.Equal(t, time.Hour, cfg.Caches.IntentTTL)
	assert.Equal(t, 5*time.Minute, cfg.Caches.ResultTTL)
	assert.Equal(t, 24*time.Hour, cfg.Caches.ExplanationTTL)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
search:
  default_top_k: 7
  max_top_k: 30
`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Search.DefaultTopK)
	assert.Equal(t, 30, cfg.Search.MaxTopK)
	// Untouched sections keep their defaults.
	assert.Equal(t, 384, cfg.Embeddings.Dimensions)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o644))

	t.Setenv("BOOKREC_PORT", "9001")
	t.Setenv("BOOKREC_EMBEDDINGS_API_KEY", "hf_secret")
	t.Setenv("BOOKREC_GRAPH_URI", "bolt://graph:7687")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "hf_secret", cfg.Embeddings.APIKey)
	assert.Equal(t, "bolt://graph:7687", cfg.Graph.URI)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"zero default topK", func(c *Config) { c.Search.DefaultTopK = 0 }},
		{"max below default", func(c *Config) { c.Search.MaxTopK = 1 }},
		{"zero dimensions", func(c *Config) { c.Embeddings.Dimensions = 0 }},
		{"zero result TTL", func(c *Config) { c.Caches.ResultTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
