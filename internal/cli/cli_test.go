package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/vectorgrid/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, exit, err := Parse([]string{"graph.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	want := app.DefaultConfig()
	want.GraphPath = "graph.hcl"
	assert.Equal(t, &want, cfg)
}

func TestParse_Flags(t *testing.T) {
	cfg, _, err := Parse([]string{
		"-g", "graphs/",
		"-records", "in.jsonl",
		"-index", "products, events,",
		"-store", "sqlite",
		"-store-path", "results.db",
		"-store-precision", "float16",
		"-log-format", "JSON",
		"-metrics-port", "9090",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "graphs/", cfg.GraphPath)
	assert.Equal(t, "in.jsonl", cfg.RecordsPath)
	assert.Equal(t, []string{"products", "events"}, cfg.Indexes)
	assert.Equal(t, app.StoreSQLite, cfg.Store)
	assert.Equal(t, "float16", cfg.StorePrecision)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 9090, cfg.MetricsPort)
}

func TestParse_FlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectorgrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graph: from-file/\nbatch_size: 10\nlog_level: warn\n"), 0o600))

	cfg, _, err := Parse([]string{"-config", path, "-log-level", "debug"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "from-file/", cfg.GraphPath)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_HelpAndMissingPath(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)

	out.Reset()
	_, exit, err = Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_ErrorsExitWithCode2(t *testing.T) {
	cases := map[string][]string{
		"unknown flag":      {"--no-such-flag"},
		"bad log level":     {"-log-level", "trace", "graph.hcl"},
		"bad store":         {"-store", "redis", "graph.hcl"},
		"missing config":    {"-config", "does-not-exist.yaml", "graph.hcl"},
		"sqlite needs path": {"-store", "sqlite", "graph.hcl"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(args, &bytes.Buffer{})
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "got %v", err)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
