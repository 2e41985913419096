package registry

import (
	"context"
	"reflect"
	"sort"
	"strings"

	"github.com/specialistvlad/vectorgrid/internal/ctxlog"
	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/node"
)

// Validate checks that every definition in nodes, and every ancestor of
// them, has a registered factory. It reports all missing types at once.
func (r *Registry) Validate(ctx context.Context, nodes []node.Node) error {
	logger := ctxlog.FromContext(ctx)
	missing := make(map[reflect.Type]struct{})
	seen := make(map[string]bool)
	var visit func(n node.Node)
	visit = func(n node.Node) {
		if seen[n.ID()] {
			return
		}
		seen[n.ID()] = true
		if !r.Has(n) {
			missing[reflect.TypeOf(n)] = struct{}{}
		}
		for _, p := range n.Parents() {
			visit(p)
		}
	}
	for _, n := range nodes {
		visit(n)
	}
	logger.Debug("Registry validated definition graph.", "definitions", len(seen), "unregistered_types", len(missing))

	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for t := range missing {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return dagerr.New(dagerr.Validation, "", "registry validation failed:\n- %s", strings.Join(names, "\n- "))
}
