package builder

import (
	"fmt"

	"github.com/specialistvlad/vectorgrid/internal/aggregation"
	"github.com/specialistvlad/vectorgrid/internal/config"
	"github.com/specialistvlad/vectorgrid/internal/embedding"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// embedding builds the named embedding against s, sources first. The
// topology is acyclic at this point, so the recursion terminates.
func (b *builder) embedding(s *schema.Schema, name string) (node.Node, error) {
	key := memoKey{schema: s.Name(), embedding: name}
	if n, ok := b.embeddings[key]; ok {
		return n, nil
	}
	e, ok := b.model.Embedding(name)
	if !ok {
		return nil, fmt.Errorf("unknown embedding %q", name)
	}

	var source node.Node
	deps, err := b.topology.Dependencies(name)
	if err != nil {
		return nil, err
	}
	for _, dep := range deps {
		if source, err = b.embedding(s, dep); err != nil {
			return nil, err
		}
	}

	n, err := b.newEmbedding(s, e, source)
	if err != nil {
		return nil, fmt.Errorf("embedding '%s': %w", name, err)
	}
	b.embeddings[key] = n
	return n, nil
}

func (b *builder) newEmbedding(s *schema.Schema, e *config.Embedding, source node.Node) (node.Node, error) {
	agg, err := policy(e)
	if err != nil {
		return nil, err
	}

	switch e.Kind {
	case config.KindNumber:
		field, err := b.field(s, e, cty.Number)
		if err != nil {
			return nil, err
		}
		cfg := e.Number
		emb, err := embedding.NewNumber(cfg.Min, cfg.Max, embedding.Mode(cfg.Mode), embedding.OutOfRange(cfg.OutOfRange), cfg.NegativeFilter)
		if err != nil {
			return nil, err
		}
		return node.NewNumberEmbedding(field, emb, agg)

	case config.KindCategorical:
		field, err := b.field(s, e, cty.String)
		if err != nil {
			return nil, err
		}
		cfg := e.Categorical
		emb, err := embedding.NewCategorical(cfg.Categories, cfg.NegativeFilter, cfg.UncategorizedAsCategory)
		if err != nil {
			return nil, err
		}
		return node.NewCategoricalEmbedding(field, emb, agg)

	case config.KindCustom:
		cfg := e.Custom
		transform, err := embedding.TransformByName(cfg.Transform, cfg.Factor)
		if err != nil {
			return nil, err
		}
		var parent node.Node
		switch {
		case e.Field != "" && source != nil:
			return nil, fmt.Errorf("'field' and 'source' are mutually exclusive")
		case e.Field != "":
			if parent, err = b.field(s, e, cty.List(cty.Number)); err != nil {
				return nil, err
			}
		case source != nil:
			if l, ok := node.LengthOf(source); ok && l != cfg.Length {
				return nil, fmt.Errorf("source '%s' has length %d, want %d", e.Source, l, cfg.Length)
			}
			parent = source
		}
		return node.NewCustom(e.Name, parent, cfg.Length, transform, agg)

	default:
		return nil, fmt.Errorf("unknown kind %q", e.Kind)
	}
}

// field resolves the field an embedding reads and checks its type.
func (b *builder) field(s *schema.Schema, e *config.Embedding, want cty.Type) (*node.Field, error) {
	if e.Source != "" {
		return nil, fmt.Errorf("%s embeddings read a field, 'source' is not supported", e.Kind)
	}
	if e.Field == "" {
		return nil, fmt.Errorf("%s embeddings need a 'field'", e.Kind)
	}
	f, ok := s.Field(e.Field)
	if !ok {
		return nil, fmt.Errorf("schema '%s' has no field %q", s.Name(), e.Field)
	}
	if !f.Type.Equals(want) {
		return nil, fmt.Errorf("field '%s' is %s, %s embeddings need %s", f.Name, f.Type.FriendlyName(), e.Kind, want.FriendlyName())
	}
	return node.NewField(s, e.Field)
}

func policy(e *config.Embedding) (aggregation.Aggregation, error) {
	norm, err := aggregation.NormalizationByName(e.Normalization, e.NormLength)
	if err != nil {
		return nil, err
	}
	return aggregation.ByName(e.Aggregation, norm)
}
