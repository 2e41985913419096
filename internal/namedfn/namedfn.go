// Package namedfn holds zero-argument functions whose value depends only on
// the execution context, such as the current time.
package namedfn

import (
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/execctx"
)

// Func computes a value from the execution context.
type Func func(ec execctx.Context) (any, error)

// Built-in function names.
const (
	Now       = "now"
	NowMillis = "now_ms"
)

// Registry maps function names to functions. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Default creates a registry holding the built-in functions.
func Default() *Registry {
	r := New()
	r.Register(Now, func(ec execctx.Context) (any, error) {
		return float64(ec.Now().Unix()), nil
	})
	r.Register(NowMillis, func(ec execctx.Context) (any, error) {
		return float64(ec.Now().UnixMilli()), nil
	})
	return r
}

// Register adds a function. Registering a name twice is a programming error.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.funcs[name]; exists {
		panic(fmt.Sprintf("named function '%s' already registered", name))
	}
	r.funcs[name] = fn
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.funcs[name]
	return ok
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate invokes the named function.
func (r *Registry) Evaluate(name string, ec execctx.Context) (any, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, dagerr.New(dagerr.Validation, "", "named function %q is not registered", name)
	}
	return fn(ec)
}
