package schema

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/specialistvlad/vectorgrid/internal/vector"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ParsedSchema is one record of a schema with its field values resolved into
// typed values, in schema field order. It is never mutated after parsing.
type ParsedSchema struct {
	schema *Schema
	id     string
	values []cty.Value
}

// NewParsed builds a record from already typed values. Fields missing from
// values are null.
func NewParsed(s *Schema, id string, values map[string]cty.Value) (ParsedSchema, error) {
	if id == "" {
		return ParsedSchema{}, fmt.Errorf("schema '%s': record id cannot be empty", s.name)
	}
	p := ParsedSchema{schema: s, id: id, values: make([]cty.Value, len(s.fields))}
	for i, f := range s.fields {
		p.values[i] = cty.NullVal(f.Type)
	}
	for name, v := range values {
		i, ok := s.index[name]
		if !ok {
			return ParsedSchema{}, fmt.Errorf("schema '%s' has no field '%s'", s.name, name)
		}
		converted, err := convert.Convert(v, s.fields[i].Type)
		if err != nil {
			return ParsedSchema{}, fmt.Errorf("schema '%s', field '%s': %w", s.name, name, err)
		}
		p.values[i] = converted
	}
	return p, nil
}

// Parse turns a decoded JSON object into a record. Unknown keys are ignored.
// A record without an id gets a random one.
func (s *Schema) Parse(raw map[string]any) (ParsedSchema, error) {
	id, err := s.recordID(raw[s.idField])
	if err != nil {
		return ParsedSchema{}, err
	}
	values := make(map[string]cty.Value, len(s.fields))
	for _, f := range s.fields {
		rv, ok := raw[f.Name]
		if !ok {
			continue
		}
		v, err := fromGo(rv)
		if err != nil {
			return ParsedSchema{}, fmt.Errorf("schema '%s', field '%s': %w", s.name, f.Name, err)
		}
		values[f.Name] = v
	}
	return NewParsed(s, id, values)
}

func (s *Schema) recordID(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return uuid.NewString(), nil
	case string:
		if v == "" {
			return uuid.NewString(), nil
		}
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	default:
		return "", fmt.Errorf("schema '%s': id field '%s' must be a string or number, got %T", s.name, s.idField, raw)
	}
}

// ID returns the record identity.
func (p ParsedSchema) ID() string { return p.id }

// Schema returns the schema the record belongs to.
func (p ParsedSchema) Schema() *Schema { return p.schema }

// Value returns the typed value of a field; unset fields are null.
func (p ParsedSchema) Value(name string) (cty.Value, bool) {
	i, ok := p.schema.index[name]
	if !ok {
		return cty.NilVal, false
	}
	return p.values[i], true
}

// fromGo converts a JSON-decoded value into a cty value.
func fromGo(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case []any:
		if len(t) == 0 {
			return cty.ListValEmpty(cty.Number), nil
		}
		elems := make([]cty.Value, len(t))
		for i, e := range t {
			ev, err := fromGo(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", v)
	}
}

// GoValue converts a field value into the Go value nodes work with: float64,
// string, bool or vector.Vector. Null values become nil.
func GoValue(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is unknown")
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.Number):
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case ty.Equals(cty.String):
		return v.AsString(), nil
	case ty.Equals(cty.Bool):
		return v.True(), nil
	case ty.IsListType() || ty.IsTupleType():
		values := make([]float64, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if ev.IsNull() || !ev.Type().Equals(cty.Number) {
				return nil, fmt.Errorf("list elements must be numbers")
			}
			f, _ := ev.AsBigFloat().Float64()
			values = append(values, f)
		}
		return vector.New(values...), nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
