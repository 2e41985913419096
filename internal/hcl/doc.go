// Package hcl provides the HCL implementation of the config.Loader
// interface. It parses graph definition files, decodes the `schema`,
// `embedding` and `index` blocks with gohcl and translates them into the
// format-agnostic config.Model.
package hcl
