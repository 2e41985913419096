// Package compiler lowers a definition graph into an executable graph of
// online nodes.
//
// Compilation is depth-first: a node's parents are compiled before the node
// itself, and only parents that belong to the compiler's node set are
// followed, so a sub-graph can be compiled on its own. Compiled nodes are
// memoized by definition identity, which makes every consumer of a shared
// sub-graph use the same online node instance.
package compiler

import (
	"context"
	"sync"

	"github.com/specialistvlad/vectorgrid/internal/ctxlog"
	"github.com/specialistvlad/vectorgrid/internal/metrics"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/online"
	"github.com/specialistvlad/vectorgrid/internal/registry"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
)

// Compiler compiles definitions from a fixed node set. One compilation runs
// at a time per Compiler.
type Compiler struct {
	mu       sync.Mutex
	registry *registry.Registry
	metrics  *metrics.Metrics
	nodes    map[string]node.Node
	memo     map[string]online.Node
	keepMemo bool
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithRegistry sets the factory registry. The default is registry.Default().
func WithRegistry(r *registry.Registry) Option {
	return func(c *Compiler) { c.registry = r }
}

// WithMetrics counts instantiated nodes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Compiler) { c.metrics = m }
}

// WithoutStoredResults drops the memo after every CompileSchemaDag, bounding
// memory when one compiler serves many schemas. Nodes compiled before and
// after the reset are distinct instances.
func WithoutStoredResults() Option {
	return func(c *Compiler) { c.keepMemo = false }
}

// New creates a compiler for nodes. Parents outside nodes are not compiled.
func New(nodes []node.Node, opts ...Option) *Compiler {
	c := &Compiler{
		nodes:    make(map[string]node.Node, len(nodes)),
		memo:     make(map[string]online.Node),
		keepMemo: true,
	}
	for _, n := range nodes {
		c.nodes[n.ID()] = n
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = registry.Default()
	}
	return c
}

// CompileNode compiles def and the part of its ancestry inside the node set.
func (c *Compiler) CompileNode(ctx context.Context, def node.Node, store resultstore.Manager) (online.Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compile(ctx, def, store)
}

// CompileSchemaDag compiles every node of dag.
func (c *Compiler) CompileSchemaDag(ctx context.Context, dag *node.SchemaDag, store resultstore.Manager) (*online.SchemaDag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compiler: compiling schema graph.", "schema", dag.Schema().Name(), "definitions", len(dag.Nodes()))

	if err := c.registry.Validate(ctx, dag.Nodes()); err != nil {
		return nil, err
	}
	defs := dag.Nodes()
	compiled := make([]online.Node, 0, len(defs))
	for _, def := range defs {
		n, err := c.compile(ctx, def, store)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, n)
	}
	if !c.keepMemo {
		c.memo = make(map[string]online.Node)
	}
	logger.Debug("Compiler: schema graph compiled.", "schema", dag.Schema().Name(), "nodes", len(compiled))
	return online.NewSchemaDag(dag.Schema(), compiled), nil
}

func (c *Compiler) compile(ctx context.Context, def node.Node, store resultstore.Manager) (online.Node, error) {
	if n, ok := c.memo[def.ID()]; ok {
		return n, nil
	}
	var parents []online.Node
	for _, p := range def.Parents() {
		if _, ok := c.nodes[p.ID()]; !ok {
			continue
		}
		pn, err := c.compile(ctx, p, store)
		if err != nil {
			return nil, err
		}
		parents = append(parents, pn)
	}
	n, err := c.registry.Init(def, parents, store)
	if err != nil {
		return nil, err
	}
	c.memo[def.ID()] = n
	if c.metrics != nil {
		c.metrics.NodesCompiled.Inc()
	}
	ctxlog.FromContext(ctx).Debug("Compiler: node compiled.", "node", def.ID(), "parents", len(parents))
	return n, nil
}
