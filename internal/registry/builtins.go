package registry

import (
	"github.com/specialistvlad/vectorgrid/internal/namedfn"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/online"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
)

// Builtins registers every node kind shipped with the engine.
type Builtins struct {
	// Functions backs named function nodes. Nil means namedfn.Default().
	Functions *namedfn.Registry
}

// Register implements Module.
func (b Builtins) Register(r *Registry) {
	funcs := b.Functions
	if funcs == nil {
		funcs = namedfn.Default()
	}
	Register(r, func(def *node.Field, parents []online.Node, store resultstore.Manager) (online.Node, error) {
		return online.NewField(def, parents, store)
	})
	Register(r, func(def *node.Constant, parents []online.Node, store resultstore.Manager) (online.Node, error) {
		return online.NewConstant(def, parents, store)
	})
	Register(r, func(def *node.NamedFunction, parents []online.Node, store resultstore.Manager) (online.Node, error) {
		return online.NewNamedFunction(def, parents, store, funcs)
	})
	Register(r, func(def *node.NumberEmbedding, parents []online.Node, store resultstore.Manager) (online.Node, error) {
		return online.NewNumberEmbedding(def, parents, store)
	})
	Register(r, func(def *node.CategoricalEmbedding, parents []online.Node, store resultstore.Manager) (online.Node, error) {
		return online.NewCategoricalEmbedding(def, parents, store)
	})
	Register(r, func(def *node.Custom, parents []online.Node, store resultstore.Manager) (online.Node, error) {
		return online.NewCustom(def, parents, store)
	})
	Register(r, func(def *node.Aggregation, parents []online.Node, store resultstore.Manager) (online.Node, error) {
		return online.NewAggregation(def, parents, store)
	})
	Register(r, func(def *node.Index, parents []online.Node, store resultstore.Manager) (online.Node, error) {
		return online.NewIndex(def, parents, store)
	})
}

// Default creates a Registry holding the built-in node kinds.
func Default(modules ...Module) *Registry {
	r := New()
	Builtins{}.Register(r)
	for _, m := range modules {
		m.Register(r)
	}
	return r
}
