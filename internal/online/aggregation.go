package online

import (
	"context"
	"sort"
	"strings"

	"github.com/specialistvlad/vectorgrid/internal/aggregation"
	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
	"github.com/specialistvlad/vectorgrid/internal/schema"
	"github.com/specialistvlad/vectorgrid/internal/vector"
)

// AggregationNode combines the weighted vectors of its parents.
type AggregationNode struct {
	Base
	def *node.Aggregation
}

// NewAggregation compiles an aggregation definition.
func NewAggregation(def *node.Aggregation, parents []Node, store resultstore.Manager) (*AggregationNode, error) {
	b, err := NewBase(def, parents, store, AtLeastOne)
	if err != nil {
		return nil, err
	}
	return &AggregationNode{Base: b, def: def}, nil
}

// EvaluateSelf implements Node.
func (n *AggregationNode) EvaluateSelf(ctx context.Context, call *Call) ([]EvaluationResult, error) {
	agg, aggErr := n.aggregation()
	length := n.def.Length()
	return evaluateDefault(ctx, call, n.Base, func(_ int, rec schema.ParsedSchema, parents []SingleResult) (any, error) {
		var invalid []string
		for _, p := range parents {
			if _, ok := asVector(p.Value); !ok {
				invalid = append(invalid, kindName(p.Value))
			}
		}
		if len(invalid) > 0 {
			return nil, dagerr.New(dagerr.Validation, n.ID(),
				"record %s: can only aggregate vectors, got %s", rec.ID(), strings.Join(invalid, ", "))
		}

		weighted := make([]vector.Vector, 0, len(parents))
		for _, p := range parents {
			v, _ := asVector(p.Value)
			if v.IsEmpty() {
				continue
			}
			if v.Dimension() != length {
				return nil, dagerr.Dimension(n.ID(), length, v.Dimension())
			}
			w, _ := n.def.Weight(p.NodeID)
			weighted = append(weighted, v.Scale(w))
		}
		if len(weighted) == 0 {
			return nil, dagerr.New(dagerr.ParentCount, n.ID(),
				"record %s: must have at least one parent with valid input", rec.ID())
		}
		if aggErr != nil {
			return nil, aggErr
		}
		out, err := agg.Aggregate(weighted, call.Context())
		if err != nil {
			if dagerr.KindOf(err) != "" {
				return nil, err
			}
			return nil, dagerr.Wrap(dagerr.Validation, n.ID(), err, "record %s: aggregation failed", rec.ID())
		}
		return out, nil
	})
}

// aggregation returns the single policy the parents agree on.
func (n *AggregationNode) aggregation() (aggregation.Aggregation, error) {
	var policies []aggregation.Aggregation
	for _, p := range n.parents {
		if ha, ok := p.Definition().(node.HasAggregation); ok {
			policies = append(policies, ha.Aggregation())
		}
	}
	if len(policies) == 0 {
		return nil, dagerr.New(dagerr.Validation, n.ID(), "no aggregation set")
	}
	first := policies[0]
	distinct := map[string]struct{}{first.String(): {}}
	mixed := false
	for _, p := range policies[1:] {
		distinct[p.String()] = struct{}{}
		if p.Normalization() != first.Normalization() {
			mixed = true
		}
	}
	if mixed {
		kinds := make([]string, 0, len(distinct))
		for k := range distinct {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		return nil, dagerr.New(dagerr.Validation, n.ID(),
			"parents disagree on normalization: %s", strings.Join(kinds, ", "))
	}
	return first, nil
}
