package builder

import (
	"context"
	"fmt"

	"github.com/specialistvlad/vectorgrid/internal/config"
	"github.com/specialistvlad/vectorgrid/internal/ctxlog"
	"github.com/specialistvlad/vectorgrid/internal/dag"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/schema"
)

// Graph is the primary artifact of the builder.
type Graph struct {
	// Schemas provides lookup of every declared schema by name.
	Schemas map[string]*schema.Schema
	// Indexes keeps declaration order.
	Indexes []*Index
}

// Index is one built index and the schema graph that computes it.
type Index struct {
	Name string
	Node *node.Index
	Dag  *node.SchemaDag
}

// Index returns the index with the given name.
func (g *Graph) Index(name string) (*Index, bool) {
	for _, idx := range g.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return nil, false
}

// builder holds the state of one Build call.
type builder struct {
	model      *config.Model
	topology   *dag.Graph
	schemas    map[string]*schema.Schema
	embeddings map[memoKey]node.Node
}

type memoKey struct {
	schema    string
	embedding string
}

// Build constructs every index of model.
func Build(ctx context.Context, model *config.Model) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")

	b := &builder{
		model:      model,
		topology:   dag.New(),
		schemas:    make(map[string]*schema.Schema, len(model.Schemas)),
		embeddings: make(map[memoKey]node.Node),
	}

	// First pass: schemas.
	for _, s := range model.Schemas {
		fields := make([]schema.Field, 0, len(s.Fields))
		for _, f := range s.Fields {
			fields = append(fields, schema.Field{Name: f.Name, Type: f.Type})
		}
		built, err := schema.New(s.Name, s.IDField, fields...)
		if err != nil {
			return nil, fmt.Errorf("schema '%s': %w", s.Name, err)
		}
		b.schemas[s.Name] = built
	}
	logger.Debug("Build: Schemas created.", "count", len(b.schemas))

	// Second pass: embedding topology.
	if err := b.link(); err != nil {
		return nil, err
	}
	order, err := b.topology.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("error validating embedding graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.", "order", order)

	// Third pass: indexes.
	g := &Graph{Schemas: b.schemas}
	for _, idx := range model.Indexes {
		built, err := b.buildIndex(idx)
		if err != nil {
			return nil, err
		}
		g.Indexes = append(g.Indexes, built)
		logger.Debug("Build: Index assembled.", "index", idx.Name, "nodes", len(built.Dag.Nodes()))
	}

	logger.Info("Build: Graph construction successful.", "schemas", len(g.Schemas), "indexes", len(g.Indexes))
	return g, nil
}

// link registers every embedding and its source reference.
func (b *builder) link() error {
	for _, e := range b.model.Embeddings {
		b.topology.AddNode(e.Name)
	}
	for _, e := range b.model.Embeddings {
		if e.Source == "" {
			continue
		}
		if _, ok := b.model.Embedding(e.Source); !ok {
			return fmt.Errorf("embedding '%s': unknown source embedding %q", e.Name, e.Source)
		}
		if err := b.topology.AddEdge(e.Source, e.Name); err != nil {
			return fmt.Errorf("embedding '%s': %w", e.Name, err)
		}
	}
	return nil
}

func (b *builder) buildIndex(idx *config.Index) (*Index, error) {
	s, ok := b.schemas[idx.Schema]
	if !ok {
		return nil, fmt.Errorf("index '%s': unknown schema %q", idx.Name, idx.Schema)
	}
	if len(idx.Spaces) == 0 {
		return nil, fmt.Errorf("index '%s': at least one space is required", idx.Name)
	}

	weighted := make([]node.Weighted, 0, len(idx.Spaces))
	for _, space := range idx.Spaces {
		n, err := b.embedding(s, space.Embedding)
		if err != nil {
			return nil, fmt.Errorf("index '%s': %w", idx.Name, err)
		}
		weighted = append(weighted, node.Weighted{Node: n, Weight: space.Weight})
	}
	agg, err := node.NewAggregation(weighted...)
	if err != nil {
		return nil, fmt.Errorf("index '%s': %w", idx.Name, err)
	}
	n, err := node.NewIndex(idx.Name, agg)
	if err != nil {
		return nil, fmt.Errorf("index '%s': %w", idx.Name, err)
	}
	return &Index{Name: idx.Name, Node: n, Dag: node.NewSchemaDag(s, n)}, nil
}
