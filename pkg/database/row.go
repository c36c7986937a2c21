package database

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/bisegni/soagen/pkg/schema"
)

// TableRow is one record read out of a ColumnTable: a boxed value per field,
// in declaration order. It is the dynamic counterpart of a generated Ref.
type TableRow struct {
	fields []schema.Field
	values []any
}

// Values returns the field values in declaration order.
func (r TableRow) Values() []any { return r.values }

// Get returns the value of the named field.
func (r TableRow) Get(field string) (any, error) {
	for i, f := range r.fields {
		if f.Name == field {
			return r.values[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", field, ErrUnknownField)
}

// Primitive returns the row itself, so it marshals in field order.
func (r TableRow) Primitive() any { return r }

// Map returns the values keyed by field name.
func (r TableRow) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for i, f := range r.fields {
		m[f.Name] = r.values[i]
	}
	return m
}

// MarshalJSON writes an object whose keys follow field order.
func (r TableRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r TableRow) String() string {
	b, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%v", r.values)
	}
	return string(b)
}
