// This file translates the decoded HCL blocks into the format-agnostic
// configuration model.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/vectorgrid/internal/config"
)

func translateSchema(ctx context.Context, b *schemaBlock) (*config.Schema, error) {
	s := &config.Schema{Name: b.Name, IDField: b.IDField}
	for _, f := range b.Fields {
		t, err := typeExprToCtyType(ctx, f.Type)
		if err != nil {
			return nil, fmt.Errorf("in schema '%s', field '%s': %w", b.Name, f.Name, err)
		}
		s.Fields = append(s.Fields, &config.Field{Name: f.Name, Type: t})
	}
	return s, nil
}

func translateEmbedding(b *embeddingBlock) (*config.Embedding, error) {
	e := &config.Embedding{
		Kind:          b.Kind,
		Name:          b.Name,
		Field:         b.Field,
		Source:        b.Source,
		Aggregation:   b.Aggregation,
		Normalization: b.Normalization,
		NormLength:    b.NormLength,
	}

	switch b.Kind {
	case config.KindNumber:
		var body numberBody
		if diags := gohcl.DecodeBody(b.Remain, nil, &body); diags.HasErrors() {
			return nil, fmt.Errorf("in embedding '%s': %w", b.Name, diags)
		}
		e.Number = &config.NumberSettings{
			Min:            body.Min,
			Max:            body.Max,
			Mode:           body.Mode,
			OutOfRange:     body.OutOfRange,
			NegativeFilter: body.NegativeFilter,
		}
	case config.KindCategorical:
		var body categoricalBody
		if diags := gohcl.DecodeBody(b.Remain, nil, &body); diags.HasErrors() {
			return nil, fmt.Errorf("in embedding '%s': %w", b.Name, diags)
		}
		uncategorized := true
		if body.UncategorizedAsCategory != nil {
			uncategorized = *body.UncategorizedAsCategory
		}
		e.Categorical = &config.CategoricalSettings{
			Categories:              body.Categories,
			NegativeFilter:          body.NegativeFilter,
			UncategorizedAsCategory: uncategorized,
		}
	case config.KindCustom:
		var body customBody
		if diags := gohcl.DecodeBody(b.Remain, nil, &body); diags.HasErrors() {
			return nil, fmt.Errorf("in embedding '%s': %w", b.Name, diags)
		}
		factor := 1.0
		if body.Factor != nil {
			factor = *body.Factor
		}
		e.Custom = &config.CustomSettings{Length: body.Length, Transform: body.Transform, Factor: factor}
	default:
		return nil, fmt.Errorf("embedding '%s': unknown kind %q", b.Name, b.Kind)
	}
	return e, nil
}

func translateIndex(b *indexBlock) *config.Index {
	idx := &config.Index{Name: b.Name, Schema: b.Schema}
	for _, s := range b.Spaces {
		weight := 1.0
		if s.Weight != nil {
			weight = *s.Weight
		}
		idx.Spaces = append(idx.Spaces, &config.Space{Embedding: s.Embedding, Weight: weight})
	}
	return idx
}
