package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks of a graph definition file.
type fileRoot struct {
	Schemas    []*schemaBlock    `hcl:"schema,block"`
	Embeddings []*embeddingBlock `hcl:"embedding,block"`
	Indexes    []*indexBlock     `hcl:"index,block"`
}

type schemaBlock struct {
	Name    string        `hcl:"name,label"`
	IDField string        `hcl:"id_field,optional"`
	Fields  []*fieldBlock `hcl:"field,block"`
}

type fieldBlock struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}

// embeddingBlock holds the attributes shared by every kind. Kind-specific
// attributes stay in Remain and are decoded by the translator.
type embeddingBlock struct {
	Kind          string   `hcl:"kind,label"`
	Name          string   `hcl:"name,label"`
	Field         string   `hcl:"field,optional"`
	Source        string   `hcl:"source,optional"`
	Aggregation   string   `hcl:"aggregation,optional"`
	Normalization string   `hcl:"normalization,optional"`
	NormLength    float64  `hcl:"norm_length,optional"`
	Remain        hcl.Body `hcl:",remain"`
}

type numberBody struct {
	Min            float64 `hcl:"min"`
	Max            float64 `hcl:"max"`
	Mode           string  `hcl:"mode,optional"`
	OutOfRange     string  `hcl:"out_of_range,optional"`
	NegativeFilter float64 `hcl:"negative_filter,optional"`
}

type categoricalBody struct {
	Categories              []string `hcl:"categories"`
	NegativeFilter          float64  `hcl:"negative_filter,optional"`
	UncategorizedAsCategory *bool    `hcl:"uncategorized_as_category,optional"`
}

type customBody struct {
	Length    int      `hcl:"length"`
	Transform string   `hcl:"transform,optional"`
	Factor    *float64 `hcl:"factor,optional"`
}

type indexBlock struct {
	Name   string        `hcl:"name,label"`
	Schema string        `hcl:"schema"`
	Spaces []*spaceBlock `hcl:"space,block"`
}

type spaceBlock struct {
	Embedding string   `hcl:"embedding,label"`
	Weight    *float64 `hcl:"weight,optional"`
}
