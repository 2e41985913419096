package registry

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/specialistvlad/vectorgrid/internal/dagerr"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/online"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
)

// Module is the interface that every bundle of node kinds implements to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Factory builds the online node for one definition.
type Factory func(def node.Node, parents []online.Node, store resultstore.Manager) (online.Node, error)

// Registry holds the factories of one application instance. It is populated
// at startup and read-only afterwards.
type Registry struct {
	factories map[reflect.Type]Factory
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{factories: make(map[reflect.Type]Factory)}
}

// Register adds the factory for definitions of type defType.
func (r *Registry) Register(defType reflect.Type, f Factory) {
	if _, exists := r.factories[defType]; exists {
		panic(fmt.Sprintf("factory for definition type '%s' already registered", defType))
	}
	slog.Debug("Registering online node factory.", "definition", defType.String())
	r.factories[defType] = f
}

// Register is the typed form of Registry.Register.
func Register[D node.Node](r *Registry, f func(def D, parents []online.Node, store resultstore.Manager) (online.Node, error)) {
	r.Register(reflect.TypeFor[D](), func(def node.Node, parents []online.Node, store resultstore.Manager) (online.Node, error) {
		return f(def.(D), parents, store)
	})
}

// Has reports whether definitions of def's type can be compiled.
func (r *Registry) Has(def node.Node) bool {
	_, ok := r.factories[reflect.TypeOf(def)]
	return ok
}

// Init builds the online node for def.
func (r *Registry) Init(def node.Node, parents []online.Node, store resultstore.Manager) (online.Node, error) {
	f, ok := r.factories[reflect.TypeOf(def)]
	if !ok {
		return nil, dagerr.New(dagerr.Validation, def.ID(), "no online node registered for %T", def)
	}
	return f(def, parents, store)
}
