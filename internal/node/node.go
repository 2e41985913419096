// Package node holds the immutable definition graph: what each vertex
// computes and which vertices feed it, without any evaluation behavior.
//
// Definition nodes are built once from a graph definition and never change.
// Their identity is derived from their kind, their static attributes and the
// identities of their parents, so building the same structure twice yields
// nodes with equal IDs. The compiler relies on this to share one executable
// node between every consumer of a sub-graph.
package node

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/specialistvlad/vectorgrid/internal/aggregation"
)

// Persistence is a node's declared intent to have its results saved by the
// result store.
type Persistence int

const (
	// PersistNone means results are transient.
	PersistNone Persistence = iota
	// PersistFinalResult means the node's per-record result is stored.
	PersistFinalResult
	// PersistVector means the node's per-record vector is stored as the
	// indexed vector of the record.
	PersistVector
)

// String implements fmt.Stringer.
func (p Persistence) String() string {
	switch p {
	case PersistFinalResult:
		return "final_result"
	case PersistVector:
		return "vector"
	default:
		return "none"
	}
}

// Node is one vertex of the definition graph.
type Node interface {
	// ID is the stable, content-derived identity of the node.
	ID() string
	// Parents returns the parents in declaration order.
	Parents() []Node
	Persistence() Persistence
}

// HasLength is implemented by nodes with a declared output vector length.
type HasLength interface {
	Length() int
}

// HasAggregation is implemented by nodes that tell an aggregation node how
// their vectors are to be combined.
type HasAggregation interface {
	Aggregation() aggregation.Aggregation
}

// Weighted pairs a parent with its weight in an aggregation.
type Weighted struct {
	Node   Node
	Weight float64
}

// base carries the identity and parents every kind shares.
type base struct {
	id      string
	parents []Node
}

func (b *base) ID() string { return b.id }

func (b *base) Parents() []Node { return slices.Clone(b.parents) }

// identity hashes a node's kind, attributes and parent identities.
func identity(kind string, attrs []string, parents []Node) string {
	d := xxhash.New()
	write := func(s string) {
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
		_, _ = d.Write(n[:])
		_, _ = d.WriteString(s)
	}
	write(kind)
	for _, a := range attrs {
		write(a)
	}
	for _, p := range parents {
		write(p.ID())
	}
	return fmt.Sprintf("%s-%016x", kind, d.Sum64())
}

// formatFloat renders a float attribute so that equal floats hash equally.
func formatFloat(f float64) string {
	return fmt.Sprintf("%016x", math.Float64bits(f))
}

// LengthOf returns the declared length of n, if it has one.
func LengthOf(n Node) (int, bool) {
	hl, ok := n.(HasLength)
	if !ok {
		return 0, false
	}
	return hl.Length(), true
}
