package embedding

import (
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/execctx"
	"github.com/specialistvlad/vectorgrid/internal/vector"
)

// categoryHit is the value written into the bin of a matching category.
const categoryHit = 1

// Categorical one-hot encodes a string over a fixed list of categories. The
// last bin is reserved for "other".
type Categorical struct {
	Unsupported[string]
	categories              []string
	negativeFilter          float64
	uncategorizedAsCategory bool
}

var _ Embedding[string] = (*Categorical)(nil)

// NewCategorical creates a Categorical embedding. Categories must be unique.
func NewCategorical(categories []string, negativeFilter float64, uncategorizedAsCategory bool) (*Categorical, error) {
	if len(categories) == 0 {
		return nil, dagerr.New(dagerr.Validation, "", "categorical embedding needs at least one category")
	}
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if _, dup := seen[c]; dup {
			return nil, dagerr.New(dagerr.Validation, "", "duplicate category %q", c)
		}
		seen[c] = struct{}{}
	}
	return &Categorical{
		categories:              slices.Clone(categories),
		negativeFilter:          negativeFilter,
		uncategorizedAsCategory: uncategorizedAsCategory,
	}, nil
}

// Length implements Embedding.
func (c *Categorical) Length() int {
	return len(c.categories) + 1
}

// Embed implements Embedding. Bins that are not hit carry the negative filter
// while indexing and zero at query time.
func (c *Categorical) Embed(text string, ec execctx.Context) (vector.Vector, error) {
	fill := c.negativeFilter
	if ec.IsQuery() {
		fill = 0
	}
	values := make([]float64, c.Length())
	for i := range values {
		values[i] = fill
	}
	if idx, ok := c.index(text, ec.IsQuery()); ok {
		values[idx] = categoryHit
	}
	return vector.New(values...), nil
}

func (c *Categorical) index(text string, isQuery bool) (int, bool) {
	if i := slices.Index(c.categories, text); i >= 0 {
		return i, true
	}
	if c.uncategorizedAsCategory || isQuery {
		return len(c.categories), true
	}
	return 0, false
}

// String describes the configuration; it takes part in node identities.
func (c *Categorical) String() string {
	return fmt.Sprintf("Categorical(categories=[%s], negative_filter=%v, uncategorized_as_category=%t)",
		strings.Join(c.categories, ","), c.negativeFilter, c.uncategorizedAsCategory)
}
