// Package online is the evaluation engine: executable counterparts of the
// definition nodes, bound to their compiled parents and a result store.
//
// # Evaluation model
//
// A consumer evaluates a node through Evaluate, which opens a Call for one
// batch of records. Nodes pull their parents' results through the Call, so
// every node runs at most once per Call even when several children share it.
// The first time a node is evaluated within a Call its results are handed to
// the result store, if the node's persistence intent asks for that.
//
// Results are always positionally aligned with the input batch.
package online

import (
	"context"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
)

// SingleResult is the value one node produced for one record.
type SingleResult struct {
	NodeID string
	Value  any
}

// EvaluationResult wraps the main result of a node for one record.
type EvaluationResult struct {
	Main SingleResult
}

// Node is an executable node.
type Node interface {
	Definition() node.Node
	// Parents returns the compiled parents, in definition order.
	Parents() []Node
	ResultStore() resultstore.Manager
	// EvaluateSelf computes one result per record of the call, in input
	// order. Callers go through Call.EvaluateNext, which memoizes and
	// persists; EvaluateSelf does neither.
	EvaluateSelf(ctx context.Context, call *Call) ([]EvaluationResult, error)
}

// ParentValidation is the parent cardinality a node kind accepts.
type ParentValidation int

const (
	ExactlyZero ParentValidation = iota
	AtLeastOne
	FewerThanTwo
	ExactlyOne
)

func (p ParentValidation) String() string {
	switch p {
	case ExactlyZero:
		return "exactly zero"
	case AtLeastOne:
		return "at least one"
	case FewerThanTwo:
		return "fewer than two"
	case ExactlyOne:
		return "exactly one"
	default:
		return "unknown"
	}
}

// Allows reports whether n parents satisfy the policy.
func (p ParentValidation) Allows(n int) bool {
	switch p {
	case ExactlyZero:
		return n == 0
	case AtLeastOne:
		return n >= 1
	case FewerThanTwo:
		return n < 2
	case ExactlyOne:
		return n == 1
	default:
		return false
	}
}

// Base implements the accessors of Node. Node kinds embed it.
type Base struct {
	def     node.Node
	parents []Node
	store   resultstore.Manager
}

// NewBase checks the parent count against policy and the parents against the
// definition: every compiled parent must compile one of def's parents.
func NewBase(def node.Node, parents []Node, store resultstore.Manager, policy ParentValidation) (Base, error) {
	if !policy.Allows(len(parents)) {
		return Base{}, dagerr.New(dagerr.ParentCount, def.ID(),
			"expects %s parents, got %d", policy, len(parents))
	}
	declared := make(map[string]bool)
	for _, p := range def.Parents() {
		declared[p.ID()] = true
	}
	for _, p := range parents {
		if !declared[p.Definition().ID()] {
			return Base{}, dagerr.New(dagerr.Initialization, def.ID(),
				"parent %s is not a parent of the definition", p.Definition().ID())
		}
	}
	return Base{def: def, parents: append([]Node(nil), parents...), store: store}, nil
}

func (b Base) Definition() node.Node { return b.def }

func (b Base) Parents() []Node { return append([]Node(nil), b.parents...) }

func (b Base) ResultStore() resultstore.Manager { return b.store }

// ID is a shorthand for Definition().ID().
func (b Base) ID() string { return b.def.ID() }

// rejectParents is the factory check of leaf kinds.
func rejectParents(def node.Node, parents []Node) error {
	if len(parents) > 0 {
		return dagerr.New(dagerr.Initialization, def.ID(),
			"%T cannot have parents, got %d", def, len(parents))
	}
	return nil
}
