package node

import (
	"testing"

	"github.com/specialistvlad/vectorgrid/internal/aggregation"
	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/embedding"
	"github.com/specialistvlad/vectorgrid/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New("product", "",
		schema.Field{Name: "price", Type: cty.Number},
		schema.Field{Name: "rating", Type: cty.Number},
	)
	require.NoError(t, err)
	return s
}

func priceEmbedding(t *testing.T, s *schema.Schema, field string) *NumberEmbedding {
	t.Helper()
	f, err := NewField(s, field)
	require.NoError(t, err)
	emb, err := embedding.NewNumber(0, 100, embedding.Linear, embedding.Clamp, 0)
	require.NoError(t, err)
	n, err := NewNumberEmbedding(f, emb, nil)
	require.NoError(t, err)
	return n
}

func TestIdentity_StableAcrossBuilds(t *testing.T) {
	s := testSchema(t)
	a := priceEmbedding(t, s, "price")
	b := priceEmbedding(t, s, "price")
	c := priceEmbedding(t, s, "rating")

	assert.NotSame(t, a, b)
	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Contains(t, a.ID(), "number_embedding-")
}

func TestIdentity_AttributesMatter(t *testing.T) {
	assert.Equal(t, NewConstant(1.0).ID(), NewConstant(1.0).ID())
	assert.NotEqual(t, NewConstant(1.0).ID(), NewConstant("1").ID())
	assert.NotEqual(t, NewNamedFunction("now").ID(), NewNamedFunction("now_ms").ID())

	s := testSchema(t)
	p := priceEmbedding(t, s, "price")
	a1, err := NewAggregation(Weighted{Node: p, Weight: 1})
	require.NoError(t, err)
	a2, err := NewAggregation(Weighted{Node: p, Weight: 0.5})
	require.NoError(t, err)
	assert.NotEqual(t, a1.ID(), a2.ID())
}

func TestNumberEmbedding(t *testing.T) {
	s := testSchema(t)
	n := priceEmbedding(t, s, "price")
	assert.Equal(t, embedding.NumberLength, n.Length())
	assert.Equal(t, PersistFinalResult, n.Persistence())
	assert.Equal(t, aggregation.NewSum(nil), n.Aggregation())
	require.Len(t, n.Parents(), 1)

	emb, err := embedding.NewNumber(0, 1, "", "", 0)
	require.NoError(t, err)
	_, err = NewNumberEmbedding(nil, emb, nil)
	assert.ErrorIs(t, err, dagerr.ErrParentCount)
}

func TestIndex(t *testing.T) {
	_, err := NewIndex("empty")
	assert.ErrorIs(t, err, dagerr.ErrParentCount)

	s := testSchema(t)
	p := priceEmbedding(t, s, "price")
	idx, err := NewIndex("products", p)
	require.NoError(t, err)
	assert.Equal(t, p.Length(), idx.Length())
	assert.Equal(t, PersistVector, idx.Persistence())

	_, err = NewIndex("constant", NewConstant(1.0))
	assert.ErrorIs(t, err, dagerr.ErrValidation)
}

func TestAggregation_Construction(t *testing.T) {
	_, err := NewAggregation()
	assert.ErrorIs(t, err, dagerr.ErrParentCount)

	s := testSchema(t)
	price := priceEmbedding(t, s, "price")
	rating := priceEmbedding(t, s, "rating")

	agg, err := NewAggregation(Weighted{Node: price, Weight: 1}, Weighted{Node: rating, Weight: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, agg.Length())
	assert.Equal(t, PersistNone, agg.Persistence())
	w, ok := agg.Weight(rating.ID())
	require.True(t, ok)
	assert.Equal(t, 2.0, w)

	_, err = NewAggregation(Weighted{Node: price, Weight: 1}, Weighted{Node: price, Weight: 1})
	assert.ErrorIs(t, err, dagerr.ErrValidation)

	custom, err := NewCustom("wide", nil, 5, nil, nil)
	require.NoError(t, err)
	_, err = NewAggregation(Weighted{Node: price, Weight: 1}, Weighted{Node: custom, Weight: 1})
	require.ErrorIs(t, err, dagerr.ErrValidation)
	assert.ErrorContains(t, err, "same length, got [3 5]")
}

func TestCustom(t *testing.T) {
	_, err := NewCustom("bad", nil, 0, nil, nil)
	assert.ErrorIs(t, err, dagerr.ErrValidation)

	loaded, err := NewCustom("a", nil, 3, nil, nil)
	require.NoError(t, err)
	other, err := NewCustom("b", nil, 3, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, loaded.Parents())
	assert.NotEqual(t, loaded.ID(), other.ID())
	assert.Equal(t, embedding.Identity{}, loaded.Transform())

	s := testSchema(t)
	p := priceEmbedding(t, s, "price")
	c1, err := NewCustom("x", p, 3, embedding.Normalize{}, nil)
	require.NoError(t, err)
	c2, err := NewCustom("y", p, 3, embedding.Normalize{}, nil)
	require.NoError(t, err)
	assert.Equal(t, c1.ID(), c2.ID(), "names do not change the identity of derived nodes")
}

func TestSchemaDag_ParentsFirstAndDeduplicated(t *testing.T) {
	s := testSchema(t)
	shared := priceEmbedding(t, s, "price")
	left, err := NewCustom("left", shared, 3, embedding.Normalize{}, nil)
	require.NoError(t, err)
	right, err := NewCustom("right", shared, 3, embedding.Scale{Factor: 2}, nil)
	require.NoError(t, err)
	agg, err := NewAggregation(Weighted{Node: left, Weight: 1}, Weighted{Node: right, Weight: 1})
	require.NoError(t, err)
	idx, err := NewIndex("products", agg)
	require.NoError(t, err)

	d := NewSchemaDag(s, idx, agg)
	nodes := d.Nodes()
	require.Len(t, nodes, 6)
	assert.Same(t, s, d.Schema())

	pos := make(map[string]int)
	for i, n := range nodes {
		pos[n.ID()] = i
	}
	for _, n := range nodes {
		for _, p := range n.Parents() {
			assert.Less(t, pos[p.ID()], pos[n.ID()])
		}
	}
	assert.Equal(t, idx.ID(), nodes[len(nodes)-1].ID())
}
