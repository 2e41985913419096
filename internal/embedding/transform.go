package embedding

import (
	"fmt"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/vector"
)

// Transform is the strategy of a custom node: it maps an already computed
// vector to the node's output.
type Transform interface {
	Transform(v vector.Vector) (vector.Vector, error)
	String() string
}

// Identity returns its input.
type Identity struct{}

func (Identity) Transform(v vector.Vector) (vector.Vector, error) { return v, nil }
func (Identity) String() string                                   { return "identity" }

// Normalize scales its input to unit length.
type Normalize struct{}

func (Normalize) Transform(v vector.Vector) (vector.Vector, error) { return v.Normalize(), nil }
func (Normalize) String() string                                   { return "normalize" }

// Scale multiplies its input by Factor.
type Scale struct {
	Factor float64
}

func (s Scale) Transform(v vector.Vector) (vector.Vector, error) { return v.Scale(s.Factor), nil }
func (s Scale) String() string                                   { return fmt.Sprintf("scale(%v)", s.Factor) }

// TransformByName resolves a transform from configuration. factor is only
// used by "scale".
func TransformByName(name string, factor float64) (Transform, error) {
	switch name {
	case "", "identity":
		return Identity{}, nil
	case "normalize":
		return Normalize{}, nil
	case "scale":
		return Scale{Factor: factor}, nil
	default:
		return nil, dagerr.New(dagerr.Validation, "", "unknown transform %q", name)
	}
}
