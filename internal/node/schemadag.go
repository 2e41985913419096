package node

import "github.com/specialistvlad/vectorgrid/internal/schema"

// SchemaDag is the definition graph of one schema: every node reachable
// from a set of roots, parents before children, each identity once.
type SchemaDag struct {
	schema *schema.Schema
	nodes  []Node
}

// NewSchemaDag collects the nodes reachable from roots.
func NewSchemaDag(s *schema.Schema, roots ...Node) *SchemaDag {
	d := &SchemaDag{schema: s}
	seen := make(map[string]bool)
	var visit func(n Node)
	visit = func(n Node) {
		if seen[n.ID()] {
			return
		}
		seen[n.ID()] = true
		for _, p := range n.Parents() {
			visit(p)
		}
		d.nodes = append(d.nodes, n)
	}
	for _, r := range roots {
		visit(r)
	}
	return d
}

// Schema returns the schema the graph is bound to.
func (d *SchemaDag) Schema() *schema.Schema { return d.schema }

// Nodes returns the nodes, parents first.
func (d *SchemaDag) Nodes() []Node { return append([]Node(nil), d.nodes...) }
