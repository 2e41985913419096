package online

import (
	"context"
	"testing"

	"github.com/specialistvlad/vectorgrid/internal/aggregation"
	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/embedding"
	"github.com/specialistvlad/vectorgrid/internal/execctx"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/schema"
	"github.com/specialistvlad/vectorgrid/internal/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds shared -> (left, right) -> aggregation -> index with the
// shared node persisting its results.
func diamond(t *testing.T, store *countingStore) (*fakeNode, *IndexNode, *SchemaDag) {
	t.Helper()
	sharedDef := newAggDef("shared", 3, aggregation.NewSum(nil))
	shared := newFake(t, sharedDef, store, vector.New(1, 0, 0), vector.New(0, 1, 0))

	leftDef, err := node.NewCustom("left", sharedDef, 3, embedding.Identity{}, nil)
	require.NoError(t, err)
	left, err := NewCustom(leftDef, []Node{shared}, store)
	require.NoError(t, err)
	rightDef, err := node.NewCustom("right", sharedDef, 3, embedding.Scale{Factor: 2}, nil)
	require.NoError(t, err)
	right, err := NewCustom(rightDef, []Node{shared}, store)
	require.NoError(t, err)

	aggDef, err := node.NewAggregation(node.Weighted{Node: leftDef, Weight: 1}, node.Weighted{Node: rightDef, Weight: 1})
	require.NoError(t, err)
	agg, err := NewAggregation(aggDef, []Node{left, right}, store)
	require.NoError(t, err)

	idxDef, err := node.NewIndex("products", aggDef)
	require.NoError(t, err)
	idx, err := NewIndex(idxDef, []Node{agg}, store)
	require.NoError(t, err)

	return shared, idx, NewSchemaDag(testSchema(t), []Node{shared, left, right, agg, idx})
}

func TestCall_SharedNodeRunsOncePerCall(t *testing.T) {
	store := newCountingStore()
	shared, idx, _ := diamond(t, store)
	s := testSchema(t)
	recs := records(t, s, 1.0, 2.0)

	results, err := Evaluate(context.Background(), idx, recs, execctx.New())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int32(1), shared.calls.Load())
	for _, rec := range recs {
		assert.Equal(t, 1, store.count("shared", rec.ID()))
		assert.Equal(t, 1, store.count(idx.Definition().ID(), rec.ID()))
	}

	// Aggregations are transient.
	agg := idx.Parents()[0]
	assert.Equal(t, 0, store.count(agg.Definition().ID(), "r0"))

	// A second call evaluates again.
	_, err = Evaluate(context.Background(), idx, recs, execctx.New())
	require.NoError(t, err)
	assert.Equal(t, int32(2), shared.calls.Load())
	assert.Equal(t, 2, store.count("shared", "r0"))
}

func TestCall_ResultsAlignedWithInput(t *testing.T) {
	_, idx, _ := diamond(t, newCountingStore())
	s := testSchema(t)

	results, err := Evaluate(context.Background(), idx, records(t, s, 1.0, 2.0, 3.0, 4.0), execctx.New())
	require.NoError(t, err)
	// The fake parent alternates between two vectors.
	for i, r := range results {
		v := r.Main.Value.(vector.Vector)
		if i%2 == 0 {
			assert.True(t, v.EqualApprox(vector.New(1, 0, 0), 1e-12), "record %d: %s", i, v)
		} else {
			assert.True(t, v.EqualApprox(vector.New(0, 1, 0), 1e-12), "record %d: %s", i, v)
		}
	}
}

func TestCall_ErrorsAreNotPersisted(t *testing.T) {
	store := newCountingStore()
	parentDef := newAggDef("p", 3, nil)
	def, err := node.NewCustom("c", parentDef, 3, nil, nil)
	require.NoError(t, err)
	n, err := NewCustom(def, []Node{newFake(t, parentDef, nil, vector.New(1, 0, 0), vector.New(1, 0))}, store)
	require.NoError(t, err)

	s := testSchema(t)
	_, err = Evaluate(context.Background(), n, records(t, s, 1.0, 2.0), execctx.New())
	require.ErrorIs(t, err, dagerr.ErrValidation)
	assert.Equal(t, 0, store.count(def.ID(), "r0"))
}

func TestCall_ContextCanceledWhileWaiting(t *testing.T) {
	s := testSchema(t)
	call := NewCall(records(t, s, 1.0), execctx.New())
	n := newFake(t, newAggDef("p", 1, nil), nil, 1.0)

	_, err := call.EvaluateNext(context.Background(), n)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Completed entries are served even from a canceled context.
	for range 200 {
		r, err := call.EvaluateNext(ctx, n)
		require.NoError(t, err)
		assert.Equal(t, 1.0, r[0].Main.Value)
	}
	assert.Equal(t, int32(1), n.calls.Load())
}

func TestCall_WaiterHonoursContext(t *testing.T) {
	s := testSchema(t)
	call := NewCall(records(t, s, 1.0), execctx.New())
	n := newFake(t, newAggDef("p", 1, nil), nil, 1.0)

	// An in-flight entry that never completes.
	call.mu.Lock()
	call.entries[n.Definition().ID()] = &callEntry{done: make(chan struct{})}
	call.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := call.EvaluateNext(ctx, n)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), n.calls.Load())
}

func TestSchemaDag_Evaluate(t *testing.T) {
	store := newCountingStore()
	shared, idx, d := diamond(t, store)
	s := testSchema(t)

	require.Len(t, d.TopLevel(), 1)
	assert.Same(t, idx, d.TopLevel()[0])
	got, ok := d.Node("shared")
	require.True(t, ok)
	assert.Same(t, shared, got)

	out, err := d.Evaluate(context.Background(), records(t, s, 1.0, 2.0), execctx.New())
	require.NoError(t, err)
	require.Contains(t, out, idx.Definition().ID())
	assert.Len(t, out[idx.Definition().ID()], 2)
	assert.Equal(t, int32(1), shared.calls.Load())

	other, err := schema.New("other", "")
	require.NoError(t, err)
	rec, err := other.Parse(map[string]any{"id": "x"})
	require.NoError(t, err)
	_, err = d.Evaluate(context.Background(), []schema.ParsedSchema{rec}, execctx.New())
	assert.ErrorIs(t, err, dagerr.ErrValidation)
}
