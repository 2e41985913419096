package online

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/specialistvlad/vectorgrid/internal/aggregation"
	"github.com/specialistvlad/vectorgrid/internal/inmemorystore"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
	"github.com/specialistvlad/vectorgrid/internal/schema"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// lengthDef is a definition with a declared length and no aggregation.
type lengthDef struct {
	id      string
	length  int
	persist node.Persistence
}

func (d *lengthDef) ID() string                    { return d.id }
func (d *lengthDef) Parents() []node.Node          { return nil }
func (d *lengthDef) Persistence() node.Persistence { return d.persist }
func (d *lengthDef) Length() int                   { return d.length }

// aggDef additionally carries an aggregation policy.
type aggDef struct {
	lengthDef
	agg aggregation.Aggregation
}

func (d *aggDef) Aggregation() aggregation.Aggregation { return d.agg }

func newAggDef(id string, length int, agg aggregation.Aggregation) *aggDef {
	return &aggDef{lengthDef: lengthDef{id: id, length: length, persist: node.PersistFinalResult}, agg: agg}
}

// fakeNode returns preset values, one per record, and counts evaluations.
type fakeNode struct {
	Base
	values []any
	calls  atomic.Int32
}

func newFake(t *testing.T, def node.Node, store resultstore.Manager, values ...any) *fakeNode {
	t.Helper()
	b, err := NewBase(def, nil, store, ExactlyZero)
	require.NoError(t, err)
	return &fakeNode{Base: b, values: values}
}

func (n *fakeNode) EvaluateSelf(_ context.Context, call *Call) ([]EvaluationResult, error) {
	n.calls.Add(1)
	results := make([]EvaluationResult, len(call.Records()))
	for i := range results {
		results[i] = n.result(n.values[i%len(n.values)])
	}
	return results, nil
}

// countingStore counts Store calls per key.
type countingStore struct {
	inner  *inmemorystore.Store
	mu     sync.Mutex
	stores map[resultstore.Key]int
}

func newCountingStore() *countingStore {
	return &countingStore{inner: inmemorystore.New(), stores: make(map[resultstore.Key]int)}
}

func (s *countingStore) Store(ctx context.Context, nodeID, recordID string, value any) error {
	s.mu.Lock()
	s.stores[resultstore.Key{NodeID: nodeID, RecordID: recordID}]++
	s.mu.Unlock()
	return s.inner.Store(ctx, nodeID, recordID, value)
}

func (s *countingStore) Load(ctx context.Context, nodeID, recordID string) (any, bool, error) {
	return s.inner.Load(ctx, nodeID, recordID)
}

func (s *countingStore) count(nodeID, recordID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stores[resultstore.Key{NodeID: nodeID, RecordID: recordID}]
}

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New("product", "",
		schema.Field{Name: "price", Type: cty.Number},
		schema.Field{Name: "category", Type: cty.String},
		schema.Field{Name: "features", Type: cty.List(cty.Number)},
	)
	require.NoError(t, err)
	return s
}

// records parses n records with ids r0..r(n-1) and the given prices.
func records(t *testing.T, s *schema.Schema, prices ...any) []schema.ParsedSchema {
	t.Helper()
	out := make([]schema.ParsedSchema, len(prices))
	for i, p := range prices {
		raw := map[string]any{"id": fmt.Sprintf("r%d", i)}
		if p != nil {
			raw["price"] = p
		}
		rec, err := s.Parse(raw)
		require.NoError(t, err)
		out[i] = rec
	}
	return out
}

func values(results []EvaluationResult) []any {
	out := make([]any, len(results))
	for i, r := range results {
		out[i] = r.Main.Value
	}
	return out
}
