package database

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/bisegni/soagen/pkg/parser"
)

// JSONRow implements Row for a decoded JSON object.
type JSONRow struct {
	data parser.Record
}

// NewJSONRow wraps a decoded JSON object.
func NewJSONRow(data parser.Record) Row {
	return &JSONRow{data: data}
}

func (r *JSONRow) Get(field string) (any, error) {
	var cur any = map[string]any(r.data)
	for _, part := range strings.Split(field, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: %w", field, ErrUnknownField)
		}
		if cur, ok = obj[part]; !ok {
			return nil, fmt.Errorf("%s: %w", field, ErrUnknownField)
		}
	}
	return cur, nil
}

func (r *JSONRow) Primitive() any {
	return r.data
}

// JSONTable adapts a JSON/JSONL source to the Table interface. Every Iterate
// opens the source again.
type JSONTable struct {
	source string
}

func NewJSONTable(source string) *JSONTable {
	return &JSONTable{source: source}
}

func (t *JSONTable) Iterate() (RowIterator, error) {
	p, err := parser.NewParser(t.source)
	if err != nil {
		return nil, err
	}
	return &jsonIterator{parser: p}, nil
}

type jsonIterator struct {
	parser  *parser.Parser
	current Row
	err     error
}

func (it *jsonIterator) Next() bool {
	record, err := it.parser.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			it.err = err
		}
		return false
	}
	it.current = &JSONRow{data: record}
	return true
}

func (it *jsonIterator) Row() Row {
	return it.current
}

func (it *jsonIterator) Error() error {
	return it.err
}

func (it *jsonIterator) Close() error {
	return it.parser.Close()
}

// WriteJSONL writes every row of t as one JSON document per line and returns
// how many rows were written.
func WriteJSONL(w io.Writer, t Table, pretty bool) (int, error) {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return Scan(t, func(r Row) error {
		return encoder.Encode(r.Primitive())
	})
}
