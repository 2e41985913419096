package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/inmemorystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}

func TestObserveEvaluation(t *testing.T) {
	m := New()
	m.ObserveEvaluation([]string{"products"}, 3, 10*time.Millisecond, nil)
	m.ObserveEvaluation([]string{"products"}, 2, time.Millisecond, dagerr.New(dagerr.ParentCount, "n", "empty"))
	m.ObserveEvaluation([]string{"products"}, 2, time.Millisecond, errors.New("disk on fire"))
	m.ObserveEvaluation([]string{"products", "prices"}, 4, time.Millisecond, nil)
	m.ObserveEvaluation([]string{"products", "prices"}, 4, time.Millisecond, dagerr.Dimension("n", 3, 2))

	body := scrape(t, m)
	assert.Contains(t, body, `vectorgrid_records_evaluated_total{index="products"} 7`)
	assert.Contains(t, body, `vectorgrid_records_evaluated_total{index="prices"} 4`)
	assert.Contains(t, body, `vectorgrid_evaluation_errors_total{kind="parent_count"} 1`)
	assert.Contains(t, body, `vectorgrid_evaluation_errors_total{kind="dimension_mismatch"} 1`)
	assert.Contains(t, body, `vectorgrid_evaluation_errors_total{kind="other"} 1`)
	assert.Contains(t, body, `vectorgrid_evaluation_duration_seconds_count{index="products"} 5`)
	assert.Contains(t, body, `vectorgrid_evaluation_duration_seconds_count{index="prices"} 2`)
}

func TestInstrumentStore(t *testing.T) {
	m := New()
	s := m.InstrumentStore(inmemorystore.New())
	ctx := context.Background()

	require.NoError(t, s.Store(ctx, "n", "r", 1.0))
	_, found, err := s.Load(ctx, "n", "r")
	require.NoError(t, err)
	assert.True(t, found)
	_, found, err = s.Load(ctx, "n", "missing")
	require.NoError(t, err)
	assert.False(t, found)

	body := scrape(t, m)
	assert.Contains(t, body, `vectorgrid_store_operations_total{op="store",outcome="ok"} 1`)
	assert.Contains(t, body, `vectorgrid_store_operations_total{op="load",outcome="ok"} 1`)
	assert.Contains(t, body, `vectorgrid_store_operations_total{op="load",outcome="miss"} 1`)
}

func TestNodesCompiled(t *testing.T) {
	m := New()
	m.NodesCompiled.Add(4)
	assert.Contains(t, scrape(t, m), "vectorgrid_nodes_compiled_total 4")
}
