// Package aggregation defines how the weighted vectors of an aggregation node
// are combined into one vector and normalized.
package aggregation

import (
	"fmt"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/execctx"
	"github.com/specialistvlad/vectorgrid/internal/vector"
)

// Normalization is applied to the combined vector. Implementations are
// comparable values, so two policies agree when their normalizations are ==.
type Normalization interface {
	Normalize(v vector.Vector) vector.Vector
	String() string
}

// L2Norm scales to unit euclidean length.
type L2Norm struct{}

func (L2Norm) Normalize(v vector.Vector) vector.Vector { return v.Normalize() }
func (L2Norm) String() string                          { return "l2" }

// NoNorm leaves the vector unchanged.
type NoNorm struct{}

func (NoNorm) Normalize(v vector.Vector) vector.Vector { return v }
func (NoNorm) String() string                          { return "none" }

// ConstantNorm divides by a fixed length.
type ConstantNorm struct {
	Length float64
}

func (c ConstantNorm) Normalize(v vector.Vector) vector.Vector { return v.DivideBy(c.Length) }
func (c ConstantNorm) String() string                          { return fmt.Sprintf("constant(%v)", c.Length) }

// NormalizationByName resolves a normalization from configuration. length is
// only used by "constant".
func NormalizationByName(name string, length float64) (Normalization, error) {
	switch name {
	case "", "l2":
		return L2Norm{}, nil
	case "none":
		return NoNorm{}, nil
	case "constant":
		if length <= 0 {
			return nil, dagerr.New(dagerr.Validation, "", "constant normalization needs a positive length, got %v", length)
		}
		return ConstantNorm{Length: length}, nil
	default:
		return nil, dagerr.New(dagerr.Validation, "", "unknown normalization %q", name)
	}
}

// Aggregation combines already weighted vectors of equal dimension.
type Aggregation interface {
	Normalization() Normalization
	Aggregate(vs []vector.Vector, ec execctx.Context) (vector.Vector, error)
	String() string
}

// Sum adds the vectors and normalizes the result.
type Sum struct {
	Norm Normalization
}

// NewSum creates a Sum policy. A nil normalization means L2Norm.
func NewSum(norm Normalization) Sum {
	if norm == nil {
		norm = L2Norm{}
	}
	return Sum{Norm: norm}
}

// Normalization implements Aggregation.
func (s Sum) Normalization() Normalization { return s.Norm }

// Aggregate implements Aggregation.
func (s Sum) Aggregate(vs []vector.Vector, _ execctx.Context) (vector.Vector, error) {
	total, err := vector.Sum(vs)
	if err != nil {
		return vector.Vector{}, err
	}
	return s.Norm.Normalize(total), nil
}

func (s Sum) String() string { return fmt.Sprintf("sum(%s)", s.Norm) }

// Mean averages the vectors and normalizes the result.
type Mean struct {
	Norm Normalization
}

// NewMean creates a Mean policy. A nil normalization means L2Norm.
func NewMean(norm Normalization) Mean {
	if norm == nil {
		norm = L2Norm{}
	}
	return Mean{Norm: norm}
}

// Normalization implements Aggregation.
func (m Mean) Normalization() Normalization { return m.Norm }

// Aggregate implements Aggregation.
func (m Mean) Aggregate(vs []vector.Vector, _ execctx.Context) (vector.Vector, error) {
	total, err := vector.Sum(vs)
	if err != nil {
		return vector.Vector{}, err
	}
	return m.Norm.Normalize(total.DivideBy(float64(len(vs)))), nil
}

func (m Mean) String() string { return fmt.Sprintf("mean(%s)", m.Norm) }

// ByName resolves an aggregation policy from configuration.
func ByName(name string, norm Normalization) (Aggregation, error) {
	switch name {
	case "", "sum":
		return NewSum(norm), nil
	case "mean":
		return NewMean(norm), nil
	default:
		return nil, dagerr.New(dagerr.Validation, "", "unknown aggregation %q", name)
	}
}
