package embedding

import (
	"fmt"
	"math"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/execctx"
	"github.com/specialistvlad/vectorgrid/internal/vector"
)

// NumberLength is the fixed output length of the Number embedding.
const NumberLength = 3

// Mode selects how a number is placed inside its range.
type Mode string

const (
	// Linear spreads the range evenly.
	Linear Mode = "linear"
	// Logarithmic gives small values more resolution than large ones.
	Logarithmic Mode = "logarithmic"
)

// OutOfRange selects what happens to inputs outside [min, max].
type OutOfRange string

const (
	// Clamp clips the input into the range before embedding it.
	Clamp OutOfRange = "clamp"
	// Penalize emits the penalty vector [0, 0, negativeFilter].
	Penalize OutOfRange = "penalize"
)

// Number embeds a scalar as a point on the first quadrant of the unit circle:
// min maps to [1, 0, 0] and max to [0, 1, 0]. The third component is reserved
// for the penalty applied to out-of-range inputs.
type Number struct {
	min            float64
	max            float64
	mode           Mode
	outOfRange     OutOfRange
	negativeFilter float64
}

var _ Embedding[float64] = (*Number)(nil)

// NewNumber validates the configuration and creates a Number embedding.
func NewNumber(min, max float64, mode Mode, outOfRange OutOfRange, negativeFilter float64) (*Number, error) {
	if math.IsNaN(min) || math.IsNaN(max) || min >= max {
		return nil, dagerr.New(dagerr.Validation, "", "number embedding needs min < max, got [%v, %v]", min, max)
	}
	switch mode {
	case Linear, Logarithmic:
	case "":
		mode = Linear
	default:
		return nil, dagerr.New(dagerr.Validation, "", "unknown number embedding mode %q", mode)
	}
	switch outOfRange {
	case Clamp, Penalize:
	case "":
		outOfRange = Clamp
	default:
		return nil, dagerr.New(dagerr.Validation, "", "unknown out-of-range policy %q", outOfRange)
	}
	return &Number{min: min, max: max, mode: mode, outOfRange: outOfRange, negativeFilter: negativeFilter}, nil
}

// Length implements Embedding.
func (n *Number) Length() int {
	return NumberLength
}

// Embed implements Embedding.
func (n *Number) Embed(x float64, _ execctx.Context) (vector.Vector, error) {
	if math.IsNaN(x) || (n.outOfRange == Penalize && (x < n.min || x > n.max)) {
		return vector.New(0, 0, n.negativeFilter), nil
	}
	x = math.Min(math.Max(x, n.min), n.max)
	angle := n.position(x) * math.Pi / 2
	return vector.New(math.Cos(angle), math.Sin(angle), 0), nil
}

// InverseEmbed implements Embedding. The penalty vector carries no position
// and cannot be inverted.
func (n *Number) InverseEmbed(v vector.Vector, _ execctx.Context) (float64, error) {
	if v.Dimension() != NumberLength {
		return 0, dagerr.Dimension("", NumberLength, v.Dimension())
	}
	if v.At(0) == 0 && v.At(1) == 0 {
		return 0, dagerr.New(dagerr.Validation, "", "cannot invert a penalty vector")
	}
	p := math.Atan2(v.At(1), v.At(0)) / (math.Pi / 2)
	p = math.Min(math.Max(p, 0), 1)
	if n.mode == Logarithmic {
		return n.min + math.Expm1(p*math.Log1p(n.max-n.min)), nil
	}
	return n.min + p*(n.max-n.min), nil
}

// position maps x in [min, max] to [0, 1].
func (n *Number) position(x float64) float64 {
	if n.mode == Logarithmic {
		return math.Log1p(x-n.min) / math.Log1p(n.max-n.min)
	}
	return (x - n.min) / (n.max - n.min)
}

// String describes the configuration; it takes part in node identities.
func (n *Number) String() string {
	return fmt.Sprintf("Number(min=%v, max=%v, mode=%s, out_of_range=%s, negative_filter=%v)",
		n.min, n.max, n.mode, n.outOfRange, n.negativeFilter)
}
