package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_Evaluates(t *testing.T) {
	t.Parallel()

	graph := `
schema "event" {
  field "score" { type = number }
}
embedding "number" "score" {
  field = "score"
  min   = 0
  max   = 10
}
index "events" {
  schema = "event"
  space "score" {}
}
`
	path := filepath.Join(t.TempDir(), "graph.hcl")
	require.NoError(t, os.WriteFile(path, []byte(graph), 0o600))

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	in := strings.NewReader(`{"id": "e1", "score": 0}` + "\n")

	err := run(context.Background(), in, out, errOut, []string{"-log-level", "error", path})

	require.NoError(t, err, errOut.String())
	require.JSONEq(t, `{"index": "events", "id": "e1", "vector": [1, 0, 0]}`, out.String())
}

func TestRun_InvalidGraph(t *testing.T) {
	t.Parallel()

	// A syntax error fails the load phase.
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`schema "s" {`), 0o600))

	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}, []string{path})

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	errOut := &bytes.Buffer{}
	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, errOut, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, errOut.String(), "Usage:", "Expected help text to be printed")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
