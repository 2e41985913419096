// Package testutil provides an integration test harness that runs the full
// application against HCL graph files written to a temporary directory.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/vectorgrid/internal/app"
	"github.com/specialistvlad/vectorgrid/internal/hcl"
	"github.com/specialistvlad/vectorgrid/internal/registry"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Line is one decoded output line.
type Line struct {
	Index  string    `json:"index"`
	ID     string    `json:"id"`
	Vector []float64 `json:"vector"`
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Lines     []Line
	LogOutput string
	Err       error
	App       *app.App
	// Dir is the temporary root the files were written to.
	Dir string
}

// Vector returns the vector printed for index and record id.
func (r *HarnessResult) Vector(index, id string) ([]float64, bool) {
	for _, l := range r.Lines {
		if l.Index == index && l.ID == id {
			return l.Vector, true
		}
	}
	return nil, false
}

// Options tunes one harness run.
type Options struct {
	// Configure adjusts the app configuration after the defaults are set.
	Configure func(dir string, cfg *app.Config)
	Modules   []registry.Module
}

// RunIntegrationTest writes files (relative path -> content) below a
// temporary root, points the app at its "graph" directory and evaluates the
// JSON-lines records.
func RunIntegrationTest(t *testing.T, files map[string]string, records string, opts Options) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "graph"), 0o755))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(Unindent(content)), 0o644))
	}

	cfg := app.DefaultConfig()
	cfg.GraphPath = filepath.Join(dir, "graph")
	cfg.LogLevel = "debug"
	if opts.Configure != nil {
		opts.Configure(dir, &cfg)
	}
	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	testApp := app.NewApp(strings.NewReader(Unindent(records)), out, logs, validated, hcl.NewLoader(), opts.Modules...)
	runErr := testApp.Run(context.Background())

	if os.Getenv("VECTORGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	result := &HarnessResult{LogOutput: logs.String(), Err: runErr, App: testApp, Dir: dir}
	for _, raw := range strings.Split(out.String(), "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		var l Line
		require.NoError(t, json.Unmarshal([]byte(raw), &l))
		result.Lines = append(result.Lines, l)
	}
	return result
}
