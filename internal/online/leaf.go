package online

import (
	"context"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/namedfn"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
	"github.com/specialistvlad/vectorgrid/internal/schema"
)

// FieldNode reads one field of every record.
type FieldNode struct {
	Base
	def *node.Field
}

// NewField compiles a field definition.
func NewField(def *node.Field, parents []Node, store resultstore.Manager) (*FieldNode, error) {
	if err := rejectParents(def, parents); err != nil {
		return nil, err
	}
	b, err := NewBase(def, parents, store, ExactlyZero)
	if err != nil {
		return nil, err
	}
	return &FieldNode{Base: b, def: def}, nil
}

// EvaluateSelf implements Node.
func (n *FieldNode) EvaluateSelf(_ context.Context, call *Call) ([]EvaluationResult, error) {
	records := call.Records()
	results := make([]EvaluationResult, len(records))
	for i, rec := range records {
		if rec.Schema().Name() != n.def.Schema().Name() {
			return nil, dagerr.New(dagerr.Validation, n.ID(),
				"record %s of schema '%s' cannot feed a field of schema '%s'",
				rec.ID(), rec.Schema().Name(), n.def.Schema().Name())
		}
		raw, _ := rec.Value(n.def.Name())
		v, err := schema.GoValue(raw)
		if err != nil {
			return nil, dagerr.Wrap(dagerr.Validation, n.ID(), err, "record %s, field '%s'", rec.ID(), n.def.Name())
		}
		results[i] = n.result(v)
	}
	return results, nil
}

// ConstantNode broadcasts a fixed value.
type ConstantNode struct {
	Base
	def *node.Constant
}

// NewConstant compiles a constant definition.
func NewConstant(def *node.Constant, parents []Node, store resultstore.Manager) (*ConstantNode, error) {
	if err := rejectParents(def, parents); err != nil {
		return nil, err
	}
	b, err := NewBase(def, parents, store, ExactlyZero)
	if err != nil {
		return nil, err
	}
	return &ConstantNode{Base: b, def: def}, nil
}

// EvaluateSelf implements Node.
func (n *ConstantNode) EvaluateSelf(_ context.Context, call *Call) ([]EvaluationResult, error) {
	return broadcast(call, n.Base, n.def.Value()), nil
}

// NamedFunctionNode broadcasts the value of a context-aware function,
// invoked once per call.
type NamedFunctionNode struct {
	Base
	def   *node.NamedFunction
	funcs *namedfn.Registry
}

// NewNamedFunction compiles a named function definition against funcs.
func NewNamedFunction(def *node.NamedFunction, parents []Node, store resultstore.Manager, funcs *namedfn.Registry) (*NamedFunctionNode, error) {
	if err := rejectParents(def, parents); err != nil {
		return nil, err
	}
	if !funcs.Has(def.Name()) {
		return nil, dagerr.New(dagerr.Validation, def.ID(), "named function %q is not registered", def.Name())
	}
	b, err := NewBase(def, parents, store, ExactlyZero)
	if err != nil {
		return nil, err
	}
	return &NamedFunctionNode{Base: b, def: def, funcs: funcs}, nil
}

// EvaluateSelf implements Node.
func (n *NamedFunctionNode) EvaluateSelf(_ context.Context, call *Call) ([]EvaluationResult, error) {
	v, err := n.funcs.Evaluate(n.def.Name(), call.Context())
	if err != nil {
		return nil, dagerr.Wrap(dagerr.Validation, n.ID(), err, "evaluate %q", n.def.Name())
	}
	return broadcast(call, n.Base, v), nil
}
