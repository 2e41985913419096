package app

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/vectorgrid/internal/hcl"
	"github.com/specialistvlad/vectorgrid/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance reading records from in. It
// returns the app, its vector output and its log output.
func SetupAppTest(t *testing.T, cfg *Config, in io.Reader, modules ...registry.Module) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(in, out, logs, cfg, hcl.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("VECTORGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, out, logs
}
