package database

import (
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrTypeMismatch    = errors.New("value does not match column type")
	ErrUnsupportedKind = errors.New("field type has no dynamic column")
)

// Kind is the storage class of a dynamic column.
type Kind int

const (
	Int Kind = iota
	Float
	String
	Bool
	Any
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	}
	return "any"
}

// KindOf maps a Go field type to the column kind storing it.
func KindOf(goType string) (Kind, error) {
	switch goType {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "byte", "rune":
		return Int, nil
	case "float32", "float64":
		return Float, nil
	case "string":
		return String, nil
	case "bool":
		return Bool, nil
	case "any", "interface{}", "json.RawMessage":
		return Any, nil
	}
	return Any, fmt.Errorf("%w: %s", ErrUnsupportedKind, goType)
}

// column is one field's values. Cursors box each element.
type column interface {
	kind() Kind
	len() int
	// convert checks v against the column type and returns the value push
	// expects. nil converts to the zero value.
	convert(v any) (any, error)
	push(v any)
	cursor() *columnCursor
}

type typedColumn[T any] struct {
	k      Kind
	goType string
	values []T
	from   func(any) (T, bool)
}

func (c *typedColumn[T]) kind() Kind { return c.k }

func (c *typedColumn[T]) len() int { return len(c.values) }

func (c *typedColumn[T]) convert(v any) (any, error) {
	if v == nil {
		var zero T
		return zero, nil
	}
	val, ok := c.from(v)
	if !ok {
		return nil, fmt.Errorf("%w: %v (%T) into %s column", ErrTypeMismatch, v, v, c.goType)
	}
	return val, nil
}

func (c *typedColumn[T]) push(v any) {
	c.values = append(c.values, v.(T))
}

func (c *typedColumn[T]) cursor() *columnCursor {
	values := c.values
	return &columnCursor{
		n:  len(values),
		at: func(i int) any { return values[i] },
	}
}

// columnCursor steps one column of a table.
type columnCursor struct {
	pos int
	n   int
	at  func(int) any
}

func (c *columnCursor) next() (any, bool) {
	if c.pos >= c.n {
		return nil, false
	}
	v := c.at(c.pos)
	c.pos++
	return v, true
}

// intBounds is the range of values each integer type accepts. Storage is
// int64, so uint and uint64 stop at math.MaxInt64.
var intBounds = map[string][2]int64{
	"int":    {math.MinInt, math.MaxInt},
	"int8":   {math.MinInt8, math.MaxInt8},
	"int16":  {math.MinInt16, math.MaxInt16},
	"int32":  {math.MinInt32, math.MaxInt32},
	"rune":   {math.MinInt32, math.MaxInt32},
	"int64":  {math.MinInt64, math.MaxInt64},
	"uint":   {0, math.MaxInt64},
	"uint8":  {0, math.MaxUint8},
	"byte":   {0, math.MaxUint8},
	"uint16": {0, math.MaxUint16},
	"uint32": {0, math.MaxUint32},
	"uint64": {0, math.MaxInt64},
}

// newColumn creates the column storing values of goType, whose kind is k.
func newColumn(k Kind, goType string) column {
	switch k {
	case Int:
		bounds := intBounds[goType]
		return &typedColumn[int64]{k: k, goType: goType, from: func(v any) (int64, bool) {
			i, ok := toInt(v)
			return i, ok && i >= bounds[0] && i <= bounds[1]
		}}
	case Float:
		return &typedColumn[float64]{k: k, goType: goType, from: toFloat}
	case String:
		return &typedColumn[string]{k: k, goType: goType, from: func(v any) (string, bool) {
			s, ok := v.(string)
			return s, ok
		}}
	case Bool:
		return &typedColumn[bool]{k: k, goType: goType, from: func(v any) (bool, bool) {
			b, ok := v.(bool)
			return b, ok
		}}
	}
	return &typedColumn[any]{k: Any, goType: goType, from: func(v any) (any, bool) { return v, true }}
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
