// Package config defines the format-agnostic model of a graph definition
// (schemas, embeddings and indexes) and the Loader interface that produces
// it.
//
// The `config.Model` is the single input of the `builder` package. Concrete
// loaders, such as the HCL one, live in separate packages.
package config
