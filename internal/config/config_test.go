package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/querycache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stress.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
memory_limit_bytes = 1048576

[cache]
mode = "demand"
max_results = 16

[workload]
databases = 2
workers = 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, querycache.Properties{Mode: querycache.ModeDemand, MaxResults: 16}, cfg.Cache)
	assert.Equal(t, int64(1<<20), cfg.MemoryLimitBytes)
	assert.Equal(t, 2, cfg.Workload.Databases)
	assert.Equal(t, 3, cfg.Workload.Workers)
	assert.Equal(t, Default().Workload.Operations, cfg.Workload.Operations, "unset keys keep defaults")

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
[cache]
mode = "on"
max_entries = 3
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown configuration keys")
}

func TestLoad_InvalidMode(t *testing.T) {
	path := writeConfig(t, `
[cache]
mode = "sometimes"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cache mode")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	tests := map[string]func(*Config){
		"negative max results": func(c *Config) { c.Cache.MaxResults = -1 },
		"negative memory":      func(c *Config) { c.MemoryLimitBytes = -1 },
		"no databases":         func(c *Config) { c.Workload.Databases = 0 },
		"no workers":           func(c *Config) { c.Workload.Workers = 0 },
		"no data sources":      func(c *Config) { c.Workload.DataSources = 0 },
		"no queries":           func(c *Config) { c.Workload.DistinctQueries = 0 },
		"percent overflow":     func(c *Config) { c.Workload.StorePercent = 90; c.Workload.InvalidatePercent = 20 },
		"bad log level":        func(c *Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
