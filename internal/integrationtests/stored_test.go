package integrationtests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/vectorgrid/internal/app"
	"github.com/specialistvlad/vectorgrid/internal/builder"
	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/hcl"
	"github.com/specialistvlad/vectorgrid/internal/sqlitestore"
	"github.com/specialistvlad/vectorgrid/internal/testutil"
	"github.com/specialistvlad/vectorgrid/internal/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileGraph = `
	schema "user" {
	  field "name" { type = string }
	}
	embedding "custom" "profile" {
	  length = 2
	}
	index "profiles" {
	  schema = "user"
	  space "profile" {}
	}
`

// profileNodeID builds the graph outside the app to learn the identity the
// stored vectors are addressed by.
func profileNodeID(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	model, err := hcl.NewLoader().LoadSource(ctx, "profile.hcl", []byte(testutil.Unindent(profileGraph)))
	require.NoError(t, err)
	g, err := builder.Build(ctx, model)
	require.NoError(t, err)
	idx, ok := g.Index("profiles")
	require.True(t, ok)
	return idx.Node.Parents()[0].Parents()[0].ID()
}

func seedStore(t *testing.T, path string, values map[string]vector.Vector) {
	t.Helper()
	ctx := context.Background()
	s, err := sqlitestore.Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	nodeID := profileNodeID(t)
	for id, v := range values {
		require.NoError(t, s.Store(ctx, nodeID, id, v))
	}
}

func TestStored_CustomEmbeddingLoadsFromSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	seedStore(t, dbPath, map[string]vector.Vector{
		"u1": vector.New(3, 4),
		"u2": vector.New(0, 5),
	})
	useStore := testutil.Options{Configure: func(_ string, cfg *app.Config) {
		cfg.Store = app.StoreSQLite
		cfg.StorePath = dbPath
	}}

	result := testutil.RunIntegrationTest(t, map[string]string{"graph/main.hcl": profileGraph}, `
		{"id": "u1", "name": "ada"}
		{"id": "u2", "name": "bob"}
	`, useStore)

	require.NoError(t, result.Err)
	v, ok := result.Vector("profiles", "u1")
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, v, 1e-9)
	v, _ = result.Vector("profiles", "u2")
	assert.InDeltaSlice(t, []float64{0, 1}, v, 1e-9)
}

func TestStored_MissingRecordFails(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	seedStore(t, dbPath, map[string]vector.Vector{"u1": vector.New(1, 0)})

	result := testutil.RunIntegrationTest(t, map[string]string{"graph/main.hcl": profileGraph}, `{"id": "u9"}`, testutil.Options{
		Configure: func(_ string, cfg *app.Config) {
			cfg.Store = app.StoreSQLite
			cfg.StorePath = dbPath
		},
	})

	require.ErrorIs(t, result.Err, dagerr.ErrMissingStoredResult)
	assert.Contains(t, result.Err.Error(), "no stored result for record u9")
}

func TestStored_WrongDimensionFails(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	seedStore(t, dbPath, map[string]vector.Vector{"u1": vector.New(1, 0, 0)})

	result := testutil.RunIntegrationTest(t, map[string]string{"graph/main.hcl": profileGraph}, `{"id": "u1"}`, testutil.Options{
		Configure: func(_ string, cfg *app.Config) {
			cfg.Store = app.StoreSQLite
			cfg.StorePath = dbPath
		},
	})

	require.ErrorIs(t, result.Err, dagerr.ErrDimensionMismatch)
}
