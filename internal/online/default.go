package online

import (
	"context"
	"fmt"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/schema"
	"github.com/specialistvlad/vectorgrid/internal/vector"
	"golang.org/x/sync/errgroup"
)

// recordEvaluator computes a node's value for record i from the values its
// parents produced for the same record, in parent order.
type recordEvaluator func(i int, record schema.ParsedSchema, parents []SingleResult) (any, error)

// EvaluateParents evaluates parents concurrently through call. The result
// for parents[i] is at index i.
func EvaluateParents(ctx context.Context, call *Call, parents []Node) ([][]EvaluationResult, error) {
	out := make([][]EvaluationResult, len(parents))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range parents {
		g.Go(func() error {
			r, err := call.EvaluateNext(gctx, p)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// evaluateDefault is the orchestration shared by non-leaf kinds.
func evaluateDefault(ctx context.Context, call *Call, b Base, eval recordEvaluator) ([]EvaluationResult, error) {
	parentResults, err := EvaluateParents(ctx, call, b.parents)
	if err != nil {
		return nil, err
	}
	records := call.Records()
	results := make([]EvaluationResult, len(records))
	row := make([]SingleResult, len(b.parents))
	for i, rec := range records {
		for j := range b.parents {
			row[j] = parentResults[j][i].Main
		}
		v, err := eval(i, rec, row)
		if err != nil {
			return nil, err
		}
		results[i] = b.result(v)
	}
	return results, nil
}

// broadcast gives every record of the call the same value.
func broadcast(call *Call, b Base, v any) []EvaluationResult {
	results := make([]EvaluationResult, len(call.Records()))
	for i := range results {
		results[i] = b.result(v)
	}
	return results
}

func (b Base) result(v any) EvaluationResult {
	return EvaluationResult{Main: SingleResult{NodeID: b.ID(), Value: v}}
}

func asVector(v any) (vector.Vector, bool) {
	vec, ok := v.(vector.Vector)
	return vec, ok
}

// kindName describes a value in error messages.
func kindName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

func errResultCount(n Node, want, got int) error {
	return dagerr.New(dagerr.Validation, n.Definition().ID(),
		"produced %d results for %d records", got, want)
}
