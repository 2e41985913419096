package online

import (
	"context"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
	"github.com/specialistvlad/vectorgrid/internal/schema"
	"github.com/specialistvlad/vectorgrid/internal/vector"
)

// NumberEmbeddingNode embeds the number produced by its parent. A record
// without a value yields an empty vector.
type NumberEmbeddingNode struct {
	Base
	def *node.NumberEmbedding
}

// NewNumberEmbedding compiles a number embedding definition.
func NewNumberEmbedding(def *node.NumberEmbedding, parents []Node, store resultstore.Manager) (*NumberEmbeddingNode, error) {
	b, err := NewBase(def, parents, store, ExactlyOne)
	if err != nil {
		return nil, err
	}
	return &NumberEmbeddingNode{Base: b, def: def}, nil
}

// EvaluateSelf implements Node.
func (n *NumberEmbeddingNode) EvaluateSelf(ctx context.Context, call *Call) ([]EvaluationResult, error) {
	emb := n.def.Embedding()
	return evaluateDefault(ctx, call, n.Base, func(_ int, rec schema.ParsedSchema, parents []SingleResult) (any, error) {
		var x float64
		switch v := parents[0].Value.(type) {
		case nil:
			return vector.Empty(), nil
		case float64:
			x = v
		case int:
			x = float64(v)
		default:
			return nil, dagerr.New(dagerr.Validation, n.ID(),
				"record %s: expects a number, got %s", rec.ID(), kindName(v))
		}
		return emb.Embed(x, call.Context())
	})
}

// CategoricalEmbeddingNode one-hot encodes the string produced by its parent.
// A record without a value yields an empty vector.
type CategoricalEmbeddingNode struct {
	Base
	def *node.CategoricalEmbedding
}

// NewCategoricalEmbedding compiles a categorical embedding definition.
func NewCategoricalEmbedding(def *node.CategoricalEmbedding, parents []Node, store resultstore.Manager) (*CategoricalEmbeddingNode, error) {
	b, err := NewBase(def, parents, store, ExactlyOne)
	if err != nil {
		return nil, err
	}
	return &CategoricalEmbeddingNode{Base: b, def: def}, nil
}

// EvaluateSelf implements Node.
func (n *CategoricalEmbeddingNode) EvaluateSelf(ctx context.Context, call *Call) ([]EvaluationResult, error) {
	emb := n.def.Embedding()
	return evaluateDefault(ctx, call, n.Base, func(_ int, rec schema.ParsedSchema, parents []SingleResult) (any, error) {
		switch v := parents[0].Value.(type) {
		case nil:
			return vector.Empty(), nil
		case string:
			return emb.Embed(v, call.Context())
		default:
			return nil, dagerr.New(dagerr.Validation, n.ID(),
				"record %s: expects a string, got %s", rec.ID(), kindName(v))
		}
	})
}
