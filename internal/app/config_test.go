package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	valid := DefaultConfig()
	valid.GraphPath = "graph.hcl"
	cfg, err := NewConfig(valid)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)

	cases := map[string]struct {
		mutate func(c *Config)
		want   string
	}{
		"missing graph":     {func(c *Config) { c.GraphPath = "" }, "GraphPath is a required"},
		"bad batch size":    {func(c *Config) { c.BatchSize = 0 }, "batch size must be positive"},
		"unknown store":     {func(c *Config) { c.Store = "redis" }, `invalid store "redis"`},
		"sqlite needs path": {func(c *Config) { c.Store = StoreSQLite }, "needs a store path"},
		"bad precision":     {func(c *Config) { c.StorePrecision = "int8" }, `invalid store precision "int8"`},
		"bad log format":    {func(c *Config) { c.LogFormat = "xml" }, "invalid log-format"},
		"bad log level":     {func(c *Config) { c.LogLevel = "trace" }, "invalid log-level"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			_, err := NewConfig(c)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectorgrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
graph: graphs/
indexes: [products, events]
store: sqlite
store_path: results.db
store_precision: float16
`), 0o600))

	cfg := DefaultConfig()
	require.NoError(t, LoadConfigFile(path, &cfg))
	assert.Equal(t, "graphs/", cfg.GraphPath)
	assert.Equal(t, []string{"products", "events"}, cfg.Indexes)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "float16", cfg.StorePrecision)
	// Keys missing from the file keep their defaults.
	assert.Equal(t, 256, cfg.BatchSize)
	assert.Equal(t, "-", cfg.RecordsPath)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorContains(t, LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg), "failed to open config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 4\n"), 0o600))
	assert.ErrorContains(t, LoadConfigFile(path, &cfg), "field workers not found")
}
