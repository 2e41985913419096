package node

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/vectorgrid/internal/aggregation"
	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/embedding"
	"github.com/specialistvlad/vectorgrid/internal/schema"
)

// Field reads one field of a parsed record.
type Field struct {
	base
	schema *schema.Schema
	field  schema.Field
}

// NewField creates a node reading field name of s.
func NewField(s *schema.Schema, name string) (*Field, error) {
	f, ok := s.Field(name)
	if !ok {
		return nil, dagerr.New(dagerr.Validation, "", "schema '%s' has no field '%s'", s.Name(), name)
	}
	n := &Field{schema: s, field: f}
	n.id = identity("field", []string{s.Name(), f.Name, f.Type.FriendlyName()}, nil)
	return n, nil
}

func (n *Field) Persistence() Persistence { return PersistNone }

// Schema returns the schema the field belongs to.
func (n *Field) Schema() *schema.Schema { return n.schema }

// Name returns the field name.
func (n *Field) Name() string { return n.field.Name }

// Constant yields the same value for every record.
type Constant struct {
	base
	value any
}

// NewConstant creates a constant node.
func NewConstant(value any) *Constant {
	n := &Constant{value: value}
	n.id = identity("constant", []string{fmt.Sprintf("%T", value), fmt.Sprintf("%v", value)}, nil)
	return n
}

func (n *Constant) Persistence() Persistence { return PersistNone }

// Value returns the constant value.
func (n *Constant) Value() any { return n.value }

// NamedFunction yields the value of a registered context-aware function.
type NamedFunction struct {
	base
	name string
}

// NewNamedFunction creates a node invoking the function registered as name.
func NewNamedFunction(name string) *NamedFunction {
	n := &NamedFunction{name: name}
	n.id = identity("named_function", []string{name}, nil)
	return n
}

func (n *NamedFunction) Persistence() Persistence { return PersistNone }

// Name returns the function name.
func (n *NamedFunction) Name() string { return n.name }

// NumberEmbedding embeds the scalar produced by its single parent.
type NumberEmbedding struct {
	base
	embedding   *embedding.Number
	aggregation aggregation.Aggregation
}

// NewNumberEmbedding creates a number embedding node. A nil aggregation means
// sum with L2 normalization.
func NewNumberEmbedding(parent Node, emb *embedding.Number, agg aggregation.Aggregation) (*NumberEmbedding, error) {
	if parent == nil {
		return nil, dagerr.New(dagerr.ParentCount, "", "number embedding needs exactly one parent")
	}
	if agg == nil {
		agg = aggregation.NewSum(nil)
	}
	n := &NumberEmbedding{base: base{parents: []Node{parent}}, embedding: emb, aggregation: agg}
	n.id = identity("number_embedding", []string{emb.String(), agg.String()}, n.parents)
	return n, nil
}

func (n *NumberEmbedding) Persistence() Persistence { return PersistFinalResult }

func (n *NumberEmbedding) Length() int { return n.embedding.Length() }

func (n *NumberEmbedding) Aggregation() aggregation.Aggregation { return n.aggregation }

// Embedding returns the wrapped strategy.
func (n *NumberEmbedding) Embedding() *embedding.Number { return n.embedding }

// CategoricalEmbedding one-hot encodes the string produced by its parent.
type CategoricalEmbedding struct {
	base
	embedding   *embedding.Categorical
	aggregation aggregation.Aggregation
}

// NewCategoricalEmbedding creates a categorical embedding node. A nil
// aggregation means sum with L2 normalization.
func NewCategoricalEmbedding(parent Node, emb *embedding.Categorical, agg aggregation.Aggregation) (*CategoricalEmbedding, error) {
	if parent == nil {
		return nil, dagerr.New(dagerr.ParentCount, "", "categorical embedding needs exactly one parent")
	}
	if agg == nil {
		agg = aggregation.NewSum(nil)
	}
	n := &CategoricalEmbedding{base: base{parents: []Node{parent}}, embedding: emb, aggregation: agg}
	n.id = identity("categorical_embedding", []string{emb.String(), agg.String()}, n.parents)
	return n, nil
}

func (n *CategoricalEmbedding) Persistence() Persistence { return PersistFinalResult }

func (n *CategoricalEmbedding) Length() int { return n.embedding.Length() }

func (n *CategoricalEmbedding) Aggregation() aggregation.Aggregation { return n.aggregation }

// Embedding returns the wrapped strategy.
func (n *CategoricalEmbedding) Embedding() *embedding.Categorical { return n.embedding }

// Custom applies a transform to a vector of a declared length. Without a
// parent its values are loaded from the result store instead.
type Custom struct {
	base
	name        string
	length      int
	transform   embedding.Transform
	aggregation aggregation.Aggregation
}

// NewCustom creates a custom node. parent may be nil. name only takes part in
// the identity of parentless nodes, whose stored values it addresses.
func NewCustom(name string, parent Node, length int, transform embedding.Transform, agg aggregation.Aggregation) (*Custom, error) {
	if length <= 0 {
		return nil, dagerr.New(dagerr.Validation, "", "custom node '%s' needs a positive length, got %d", name, length)
	}
	if transform == nil {
		transform = embedding.Identity{}
	}
	if agg == nil {
		agg = aggregation.NewSum(nil)
	}
	n := &Custom{name: name, length: length, transform: transform, aggregation: agg}
	attrs := []string{fmt.Sprint(length), transform.String(), agg.String()}
	if parent != nil {
		n.parents = []Node{parent}
	} else {
		attrs = append(attrs, name)
	}
	n.id = identity("custom", attrs, n.parents)
	return n, nil
}

func (n *Custom) Persistence() Persistence { return PersistFinalResult }

func (n *Custom) Length() int { return n.length }

func (n *Custom) Aggregation() aggregation.Aggregation { return n.aggregation }

// Transform returns the transform applied to the parent vector.
func (n *Custom) Transform() embedding.Transform { return n.transform }

// Name returns the configured name.
func (n *Custom) Name() string { return n.name }

// Aggregation combines weighted parent vectors of one shared length.
type Aggregation struct {
	base
	weights map[string]float64
	length  int
}

// NewAggregation creates an aggregation node. Every parent must declare the
// same length and appear once.
func NewAggregation(weighted ...Weighted) (*Aggregation, error) {
	if len(weighted) == 0 {
		return nil, dagerr.New(dagerr.ParentCount, "", "aggregation needs at least one parent")
	}
	n := &Aggregation{weights: make(map[string]float64, len(weighted))}
	attrs := make([]string, 0, len(weighted))
	lengths := make(map[int]struct{})
	for _, w := range weighted {
		l, ok := LengthOf(w.Node)
		if !ok {
			return nil, dagerr.New(dagerr.Validation, "", "aggregation parent %s has no declared length", w.Node.ID())
		}
		if _, dup := n.weights[w.Node.ID()]; dup {
			return nil, dagerr.New(dagerr.Validation, "", "aggregation parent %s appears twice", w.Node.ID())
		}
		lengths[l] = struct{}{}
		n.weights[w.Node.ID()] = w.Weight
		n.parents = append(n.parents, w.Node)
		attrs = append(attrs, formatFloat(w.Weight))
	}
	if len(lengths) > 1 {
		ls := make([]int, 0, len(lengths))
		for l := range lengths {
			ls = append(ls, l)
		}
		sort.Ints(ls)
		return nil, dagerr.New(dagerr.Validation, "", "aggregation parents must have the same length, got %v", ls)
	}
	n.length, _ = LengthOf(weighted[0].Node)
	n.id = identity("aggregation", attrs, n.parents)
	return n, nil
}

func (n *Aggregation) Persistence() Persistence { return PersistNone }

func (n *Aggregation) Length() int { return n.length }

// Weight returns the weight of the parent with the given identity.
func (n *Aggregation) Weight(parentID string) (float64, bool) {
	w, ok := n.weights[parentID]
	return w, ok
}

// Index is the terminal node whose vector is the indexed representation of
// a record.
type Index struct {
	base
	name   string
	length int
}

// NewIndex creates an index node. Its length is the first parent's length.
func NewIndex(name string, parents ...Node) (*Index, error) {
	if len(parents) == 0 {
		return nil, dagerr.New(dagerr.ParentCount, "", "index '%s' needs at least one parent", name)
	}
	length, ok := LengthOf(parents[0])
	if !ok {
		return nil, dagerr.New(dagerr.Validation, "", "index '%s': parent %s has no declared length", name, parents[0].ID())
	}
	n := &Index{base: base{parents: append([]Node(nil), parents...)}, name: name, length: length}
	n.id = identity("index", []string{name}, n.parents)
	return n, nil
}

func (n *Index) Persistence() Persistence { return PersistVector }

func (n *Index) Length() int { return n.length }

// Name returns the index name.
func (n *Index) Name() string { return n.name }
