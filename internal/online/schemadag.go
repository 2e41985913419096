package online

import (
	"context"
	"sync"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/execctx"
	"github.com/specialistvlad/vectorgrid/internal/schema"
	"golang.org/x/sync/errgroup"
)

// SchemaDag is the compiled graph of one schema.
type SchemaDag struct {
	schema *schema.Schema
	nodes  []Node
	byID   map[string]Node
	tops   []Node
}

// NewSchemaDag pairs a schema with its compiled nodes. Nodes that are not a
// parent of any other node in the list are the top-level nodes.
func NewSchemaDag(s *schema.Schema, nodes []Node) *SchemaDag {
	d := &SchemaDag{
		schema: s,
		nodes:  append([]Node(nil), nodes...),
		byID:   make(map[string]Node, len(nodes)),
	}
	isParent := make(map[string]bool)
	for _, n := range nodes {
		d.byID[n.Definition().ID()] = n
		for _, p := range n.Parents() {
			isParent[p.Definition().ID()] = true
		}
	}
	for _, n := range nodes {
		if !isParent[n.Definition().ID()] {
			d.tops = append(d.tops, n)
		}
	}
	return d
}

// Schema returns the schema the graph is bound to.
func (d *SchemaDag) Schema() *schema.Schema { return d.schema }

// Nodes returns the compiled nodes in compilation order.
func (d *SchemaDag) Nodes() []Node { return append([]Node(nil), d.nodes...) }

// TopLevel returns the nodes no other node of the graph depends on.
func (d *SchemaDag) TopLevel() []Node { return append([]Node(nil), d.tops...) }

// Node looks up a compiled node by definition identity.
func (d *SchemaDag) Node(id string) (Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// Evaluate runs every top-level node over records within one call. Shared
// sub-graphs run once. The result map is keyed by top-level node identity.
func (d *SchemaDag) Evaluate(ctx context.Context, records []schema.ParsedSchema, ec execctx.Context) (map[string][]EvaluationResult, error) {
	for _, rec := range records {
		if rec.Schema().Name() != d.schema.Name() {
			return nil, dagerr.New(dagerr.Validation, "",
				"record %s belongs to schema '%s', graph is bound to '%s'", rec.ID(), rec.Schema().Name(), d.schema.Name())
		}
	}
	call := NewCall(records, ec)
	var mu sync.Mutex
	out := make(map[string][]EvaluationResult, len(d.tops))
	g, gctx := errgroup.WithContext(ctx)
	for _, n := range d.tops {
		g.Go(func() error {
			r, err := call.EvaluateNext(gctx, n)
			if err != nil {
				return err
			}
			mu.Lock()
			out[n.Definition().ID()] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
