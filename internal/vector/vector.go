// Package vector provides the fixed-length float vector produced by embedding
// nodes and combined by aggregation nodes.
package vector

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Vector is an ordered sequence of float components. A zero-length vector is
// the sentinel for "no contribution"; see IsEmpty.
//
// Vectors are treated as values: every operation returns a fresh Vector and
// never mutates its receiver.
type Vector struct {
	values []float64
}

// New creates a vector holding a copy of values.
func New(values ...float64) Vector {
	cp := make([]float64, len(values))
	copy(cp, values)
	return Vector{values: cp}
}

// Zeros creates a vector of the given dimension filled with zeros.
func Zeros(dimension int) Vector {
	return Vector{values: make([]float64, dimension)}
}

// Empty returns the empty sentinel vector.
func Empty() Vector {
	return Vector{}
}

// Dimension is the number of components.
func (v Vector) Dimension() int {
	return len(v.values)
}

// IsEmpty reports whether the vector carries no components.
func (v Vector) IsEmpty() bool {
	return len(v.values) == 0
}

// Values returns a copy of the components.
func (v Vector) Values() []float64 {
	cp := make([]float64, len(v.values))
	copy(cp, v.values)
	return cp
}

// At returns the i-th component.
func (v Vector) At(i int) float64 {
	return v.values[i]
}

// Scale multiplies every component by w.
func (v Vector) Scale(w float64) Vector {
	out := v.Values()
	floats.Scale(w, out)
	return Vector{values: out}
}

// Add returns the component-wise sum of v and o.
func (v Vector) Add(o Vector) (Vector, error) {
	if v.Dimension() != o.Dimension() {
		return Vector{}, fmt.Errorf("cannot add vectors of dimension %d and %d", v.Dimension(), o.Dimension())
	}
	out := v.Values()
	floats.Add(out, o.values)
	return Vector{values: out}, nil
}

// Norm is the euclidean (L2) norm.
func (v Vector) Norm() float64 {
	if v.IsEmpty() {
		return 0
	}
	return floats.Norm(v.values, 2)
}

// Normalize scales v to unit L2 norm. A zero vector is returned unchanged.
func (v Vector) Normalize() Vector {
	return v.DivideBy(v.Norm())
}

// DivideBy divides every component by d. Division by zero returns v unchanged.
func (v Vector) DivideBy(d float64) Vector {
	if d == 0 {
		return v
	}
	return v.Scale(1 / d)
}

// Equal reports whether both vectors have the same components.
func (v Vector) Equal(o Vector) bool {
	return floats.Equal(v.values, o.values)
}

// EqualApprox reports whether both vectors match within tol per component.
func (v Vector) EqualApprox(o Vector, tol float64) bool {
	return floats.EqualApprox(v.values, o.values, tol)
}

// Sum adds all vectors together. All vectors must share one dimension.
func Sum(vs []Vector) (Vector, error) {
	if len(vs) == 0 {
		return Vector{}, fmt.Errorf("cannot sum an empty list of vectors")
	}
	acc := vs[0]
	for _, v := range vs[1:] {
		var err error
		if acc, err = acc.Add(v); err != nil {
			return Vector{}, err
		}
	}
	return acc, nil
}

// String implements fmt.Stringer.
func (v Vector) String() string {
	return fmt.Sprintf("Vector%v", v.values)
}
