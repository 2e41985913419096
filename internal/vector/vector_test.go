package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CopiesInput(t *testing.T) {
	in := []float64{1, 2, 3}
	v := New(in...)
	in[0] = 100

	assert.Equal(t, 1.0, v.At(0))
	assert.Equal(t, 3, v.Dimension())
	assert.False(t, v.IsEmpty())
}

func TestEmpty(t *testing.T) {
	assert.True(t, Empty().IsEmpty())
	assert.True(t, New().IsEmpty())
	assert.Equal(t, 0, Empty().Dimension())
	assert.Equal(t, 0.0, Empty().Norm())
}

func TestScale_DoesNotMutateReceiver(t *testing.T) {
	v := New(1, -2)
	scaled := v.Scale(2)

	assert.Equal(t, []float64{2, -4}, scaled.Values())
	assert.Equal(t, []float64{1, -2}, v.Values())
}

func TestAdd(t *testing.T) {
	sum, err := New(1, 2).Add(New(3, 4))
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6}, sum.Values())

	_, err = New(1, 2).Add(New(1))
	assert.ErrorContains(t, err, "dimension 2 and 1")
}

func TestNormalize(t *testing.T) {
	n := New(3, 4).Normalize()
	assert.InDelta(t, 0.6, n.At(0), 1e-12)
	assert.InDelta(t, 0.8, n.At(1), 1e-12)
	assert.InDelta(t, 1.0, n.Norm(), 1e-12)

	zero := Zeros(3).Normalize()
	assert.Equal(t, []float64{0, 0, 0}, zero.Values())
}

func TestSum(t *testing.T) {
	s, err := Sum([]Vector{New(1, 0), New(0, 1), New(1, 1)})
	require.NoError(t, err)
	assert.True(t, s.Equal(New(2, 2)))

	_, err = Sum(nil)
	assert.Error(t, err)

	_, err = Sum([]Vector{New(1), New(1, 2)})
	assert.Error(t, err)
}

func TestEqualApprox(t *testing.T) {
	a := New(math.Sqrt2/2, math.Sqrt2/2)
	b := New(0.70710678, 0.70710678)
	assert.True(t, a.EqualApprox(b, 1e-6))
	assert.False(t, a.Equal(b))
}
