package online

import (
	"context"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
	"github.com/specialistvlad/vectorgrid/internal/schema"
	"github.com/specialistvlad/vectorgrid/internal/vector"
)

// CustomNode transforms its parent's vector, or, without a parent, loads the
// value stored for each record.
type CustomNode struct {
	Base
	def *node.Custom
}

// NewCustom compiles a custom definition.
func NewCustom(def *node.Custom, parents []Node, store resultstore.Manager) (*CustomNode, error) {
	b, err := NewBase(def, parents, store, FewerThanTwo)
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 && store == nil {
		return nil, dagerr.New(dagerr.Initialization, def.ID(), "a custom node without parent needs a result store")
	}
	return &CustomNode{Base: b, def: def}, nil
}

// EvaluateSelf implements Node.
func (n *CustomNode) EvaluateSelf(ctx context.Context, call *Call) ([]EvaluationResult, error) {
	if len(n.parents) == 0 {
		return n.load(ctx, call)
	}
	length := n.def.Length()
	transform := n.def.Transform()
	return evaluateDefault(ctx, call, n.Base, func(_ int, rec schema.ParsedSchema, parents []SingleResult) (any, error) {
		v, ok := asVector(parents[0].Value)
		if !ok {
			return nil, dagerr.New(dagerr.Validation, n.ID(),
				"record %s: expects a vector, got %s", rec.ID(), kindName(parents[0].Value))
		}
		if v.Dimension() != length {
			return nil, dagerr.New(dagerr.Validation, n.ID(),
				"record %s: expects a vector of length %d, got %d", rec.ID(), length, v.Dimension())
		}
		out, err := transform.Transform(v)
		if err != nil {
			return nil, dagerr.Wrap(dagerr.Validation, n.ID(), err, "record %s: transform %s", rec.ID(), transform)
		}
		return out, nil
	})
}

func (n *CustomNode) load(ctx context.Context, call *Call) ([]EvaluationResult, error) {
	records := call.Records()
	results := make([]EvaluationResult, len(records))
	for i, rec := range records {
		v, found, err := n.store.Load(ctx, n.ID(), rec.ID())
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, dagerr.New(dagerr.MissingStoredResult, n.ID(), "no stored result for record %s", rec.ID())
		}
		if vec, ok := v.(vector.Vector); ok && !vec.IsEmpty() && vec.Dimension() != n.def.Length() {
			return nil, dagerr.Dimension(n.ID(), n.def.Length(), vec.Dimension())
		}
		results[i] = n.result(v)
	}
	return results, nil
}
