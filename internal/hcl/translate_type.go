// This file parses HCL type expressions (e.g. `string`, `list(number)`)
// into cty types for schema fields.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/vectorgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToCtyType converts an HCL type expression into its cty.Type
// equivalent. Whether the type is usable as a field type is decided by the
// schema package.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		if v.Name != "list" {
			return cty.NilType, fmt.Errorf("unknown type constructor %q", v.Name)
		}
		if len(v.Args) != 1 {
			return cty.NilType, fmt.Errorf("list type requires exactly one argument, got %d", len(v.Args))
		}
		elem, err := typeExprToCtyType(ctx, v.Args[0])
		if err != nil {
			return cty.NilType, err
		}
		logger.Debug("Parsed list element type.", "type", elem.FriendlyName())
		return cty.List(elem), nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return cty.NilType, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		switch name := v.Traversal.RootName(); name {
		case "string":
			return cty.String, nil
		case "number":
			return cty.Number, nil
		case "bool":
			return cty.Bool, nil
		default:
			return cty.NilType, fmt.Errorf("unknown primitive type %q", name)
		}

	default:
		return cty.NilType, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}
