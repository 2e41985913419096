// Package embedding holds the strategies that turn typed input values into
// fixed-length vectors.
//
// A strategy owns its configuration, has no side effects and is deterministic
// for a given input and execution context. Node kinds wrap a strategy; a new
// feature type is added by implementing Embedding and wiring it into a node.
package embedding

import (
	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/execctx"
	"github.com/specialistvlad/vectorgrid/internal/vector"
)

// Embedding maps an input of type T to a vector of Length components.
type Embedding[T any] interface {
	Embed(input T, ec execctx.Context) (vector.Vector, error)
	// InverseEmbed maps a vector back to an input. Strategies that cannot do
	// this embed Unsupported and fail with a dagerr.NotSupported error.
	InverseEmbed(v vector.Vector, ec execctx.Context) (T, error)
	Length() int
}

// Unsupported provides an InverseEmbed that always fails.
type Unsupported[T any] struct{}

// InverseEmbed implements Embedding.
func (Unsupported[T]) InverseEmbed(vector.Vector, execctx.Context) (T, error) {
	var zero T
	return zero, dagerr.New(dagerr.NotSupported, "", "inverse embedding is not supported")
}
