package online

import (
	"context"
	"strings"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
	"github.com/specialistvlad/vectorgrid/internal/schema"
	"github.com/specialistvlad/vectorgrid/internal/vector"
)

// IndexNode produces the indexed vector of each record. Exactly one parent
// must contribute a non-empty vector per record.
type IndexNode struct {
	Base
	def *node.Index
}

// NewIndex compiles an index definition.
func NewIndex(def *node.Index, parents []Node, store resultstore.Manager) (*IndexNode, error) {
	b, err := NewBase(def, parents, store, AtLeastOne)
	if err != nil {
		return nil, err
	}
	return &IndexNode{Base: b, def: def}, nil
}

// EvaluateSelf implements Node.
func (n *IndexNode) EvaluateSelf(ctx context.Context, call *Call) ([]EvaluationResult, error) {
	length := n.def.Length()
	return evaluateDefault(ctx, call, n.Base, func(_ int, rec schema.ParsedSchema, parents []SingleResult) (any, error) {
		var (
			found   []vector.Vector
			invalid []string
		)
		for _, p := range parents {
			v, ok := asVector(p.Value)
			if !ok {
				invalid = append(invalid, kindName(p.Value))
				continue
			}
			if !v.IsEmpty() {
				found = append(found, v)
			}
		}
		switch {
		case len(invalid) > 0:
			return nil, dagerr.New(dagerr.Validation, n.ID(),
				"record %s: index parents must produce vectors, got %s", rec.ID(), strings.Join(invalid, ", "))
		case len(found) == 0:
			return nil, dagerr.New(dagerr.ParentCount, n.ID(), "record %s: no parent produced a vector", rec.ID())
		case len(found) > 1:
			return nil, dagerr.New(dagerr.Validation, n.ID(),
				"record %s: %d parents produced a vector, expected exactly one", rec.ID(), len(found))
		}
		if found[0].Dimension() != length {
			return nil, dagerr.Dimension(n.ID(), length, found[0].Dimension())
		}
		return found[0], nil
	})
}
