// Package schema describes record types and the parsed records the engine
// consumes. Field values are cty values so the same type system serves the
// HCL graph definitions and the records flowing through the graph.
package schema

import (
	"fmt"
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// Field is one typed field of a schema.
type Field struct {
	Name string
	Type cty.Type
}

// Schema is the description of one record type.
type Schema struct {
	name    string
	idField string
	fields  []Field
	index   map[string]int
}

// DefaultIDField is the record key used when a schema does not name one.
const DefaultIDField = "id"

// supportedTypes lists the field types an embedding node can consume.
var supportedTypes = []cty.Type{cty.Number, cty.String, cty.Bool, cty.List(cty.Number)}

// New creates a schema. Field names must be unique and must not collide with
// the id field.
func New(name, idField string, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("schema name cannot be empty")
	}
	if idField == "" {
		idField = DefaultIDField
	}
	s := &Schema{
		name:    name,
		idField: idField,
		fields:  slices.Clone(fields),
		index:   make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == idField {
			return nil, fmt.Errorf("schema '%s': field '%s' collides with the id field", name, f.Name)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("schema '%s': duplicate field '%s'", name, f.Name)
		}
		if !slices.ContainsFunc(supportedTypes, f.Type.Equals) {
			return nil, fmt.Errorf("schema '%s', field '%s': unsupported type %s", name, f.Name, f.Type.FriendlyName())
		}
		s.index[f.Name] = i
	}
	return s, nil
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// IDField returns the key holding the record identity in raw records.
func (s *Schema) IDField() string { return s.idField }

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field { return slices.Clone(s.fields) }

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}
