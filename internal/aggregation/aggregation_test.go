package aggregation

import (
	"testing"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/execctx"
	"github.com/specialistvlad/vectorgrid/internal/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum_L2(t *testing.T) {
	agg := NewSum(nil)
	out, err := agg.Aggregate([]vector.Vector{vector.New(3, 0), vector.New(0, 4)}, execctx.New())
	require.NoError(t, err)
	assert.True(t, out.EqualApprox(vector.New(0.6, 0.8), 1e-12))
	assert.Equal(t, "sum(l2)", agg.String())
}

func TestSum_NoNorm(t *testing.T) {
	agg := NewSum(NoNorm{})
	out, err := agg.Aggregate([]vector.Vector{vector.New(1, 2), vector.New(3, 4)}, execctx.New())
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6}, out.Values())
}

func TestSum_DimensionMismatch(t *testing.T) {
	_, err := NewSum(nil).Aggregate([]vector.Vector{vector.New(1, 2), vector.New(3)}, execctx.New())
	assert.Error(t, err)
}

func TestMean_Constant(t *testing.T) {
	agg := NewMean(ConstantNorm{Length: 2})
	out, err := agg.Aggregate([]vector.Vector{vector.New(2, 4), vector.New(6, 8)}, execctx.New())
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, out.Values())
}

func TestNormalizationEquality(t *testing.T) {
	assert.True(t, NewSum(nil).Normalization() == NewMean(L2Norm{}).Normalization())
	assert.False(t, NewSum(NoNorm{}).Normalization() == NewSum(L2Norm{}).Normalization())
	assert.True(t, Normalization(ConstantNorm{Length: 2}) == Normalization(ConstantNorm{Length: 2}))
}

func TestByName(t *testing.T) {
	norm, err := NormalizationByName("constant", 4)
	require.NoError(t, err)
	assert.Equal(t, ConstantNorm{Length: 4}, norm)

	_, err = NormalizationByName("constant", 0)
	assert.ErrorIs(t, err, dagerr.ErrValidation)
	_, err = NormalizationByName("l1", 0)
	assert.ErrorIs(t, err, dagerr.ErrValidation)

	agg, err := ByName("mean", NoNorm{})
	require.NoError(t, err)
	assert.Equal(t, "mean(none)", agg.String())

	agg, err = ByName("", nil)
	require.NoError(t, err)
	assert.Equal(t, "sum(l2)", agg.String())

	_, err = ByName("max", nil)
	assert.ErrorIs(t, err, dagerr.ErrValidation)
}
