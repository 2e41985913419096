package config

import "github.com/zclconf/go-cty/cty"

// Embedding kinds understood by the builder.
const (
	KindNumber      = "number"
	KindCategorical = "categorical"
	KindCustom      = "custom"
)

// Model is the unified, format-agnostic representation of a graph
// definition. Slices keep declaration order.
type Model struct {
	Schemas    []*Schema
	Embeddings []*Embedding
	Indexes    []*Index
}

// Schema is the format-agnostic representation of a `schema` block.
type Schema struct {
	Name    string
	IDField string
	Fields  []*Field
}

// Field is a single typed schema field.
type Field struct {
	Name string
	Type cty.Type
}

// Embedding is the format-agnostic representation of an `embedding` block.
// Only the settings block matching Kind is set.
type Embedding struct {
	Kind string
	Name string
	// Field names the schema field the embedding reads.
	Field string
	// Source names another embedding whose vector is the input.
	Source string
	// Aggregation and Normalization name the policy used when the
	// embedding is combined inside an index.
	Aggregation   string
	Normalization string
	// NormLength is only used by the "constant" normalization.
	NormLength float64

	Number      *NumberSettings
	Categorical *CategoricalSettings
	Custom      *CustomSettings
}

// NumberSettings configures a number embedding.
type NumberSettings struct {
	Min            float64
	Max            float64
	Mode           string
	OutOfRange     string
	NegativeFilter float64
}

// CategoricalSettings configures a categorical embedding.
type CategoricalSettings struct {
	Categories              []string
	NegativeFilter          float64
	UncategorizedAsCategory bool
}

// CustomSettings configures a custom embedding.
type CustomSettings struct {
	Length    int
	Transform string
	Factor    float64
}

// Index is the format-agnostic representation of an `index` block.
type Index struct {
	Name   string
	Schema string
	Spaces []*Space
}

// Space references an embedding inside an index with its weight.
type Space struct {
	Embedding string
	Weight    float64
}

// Schema returns the schema with the given name.
func (m *Model) Schema(name string) (*Schema, bool) {
	for _, s := range m.Schemas {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Embedding returns the embedding with the given name.
func (m *Model) Embedding(name string) (*Embedding, bool) {
	for _, e := range m.Embeddings {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}
