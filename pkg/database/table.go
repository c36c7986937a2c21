package database

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bisegni/soagen/internal/logging"
	"github.com/bisegni/soagen/pkg/parser"
	"github.com/bisegni/soagen/pkg/schema"
	"github.com/bisegni/soagen/pkg/soa"
)

// ColumnTable stores records of one schema column by column. It is the
// runtime counterpart of generated containers: its iterator steps a
// dynamically sized set of column cursors and yields boxed rows.
type ColumnTable struct {
	record  *schema.Record
	columns []column
	index   map[string]int
	folded  map[string]int
	borrow  soa.Borrow
}

// NewColumnTable creates an empty table for rec.
func NewColumnTable(rec *schema.Record) (*ColumnTable, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	t := &ColumnTable{
		record: rec,
		index:  make(map[string]int, len(rec.Fields)),
		folded: make(map[string]int, len(rec.Fields)),
	}
	for i, f := range rec.Fields {
		k, err := KindOf(f.Type)
		if err != nil {
			return nil, fmt.Errorf("record %s: field %s: %w", rec.Name, f.Name, err)
		}
		t.columns = append(t.columns, newColumn(k, f.Type))
		t.index[f.Name] = i
		t.folded[strings.ToLower(f.Name)] = i
	}
	return t, nil
}

// Record is the schema the table stores.
func (t *ColumnTable) Record() *schema.Record {
	return t.record
}

// Len is the number of rows.
func (t *ColumnTable) Len() int {
	return t.columns[0].len()
}

// Kinds returns the column kinds in field order.
func (t *ColumnTable) Kinds() []Kind {
	out := make([]Kind, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.kind()
	}
	return out
}

// Append adds one row. Keys match field names exactly or, failing that,
// case-insensitively. Missing fields get their zero value; unknown keys and
// values of the wrong type are rejected without changing the table.
func (t *ColumnTable) Append(values map[string]any) error {
	t.borrow.AssertUnborrowed()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	byField := make([]any, len(t.columns))
	for _, k := range keys {
		i, ok := t.lookup(k)
		if !ok {
			return fmt.Errorf("record %s: %s: %w", t.record.Name, k, ErrUnknownField)
		}
		byField[i] = values[k]
	}

	converted := make([]any, len(t.columns))
	for i, f := range t.record.Fields {
		v, err := t.columns[i].convert(byField[i])
		if err != nil {
			return fmt.Errorf("record %s: field %s: %w", t.record.Name, f.Name, err)
		}
		converted[i] = v
	}
	for i, c := range t.columns {
		c.push(converted[i])
	}
	return nil
}

func (t *ColumnTable) lookup(key string) (int, bool) {
	if i, ok := t.index[key]; ok {
		return i, true
	}
	i, ok := t.folded[strings.ToLower(key)]
	return i, ok
}

// Fill appends every row of src and returns how many were added.
func (t *ColumnTable) Fill(src Table) (int, error) {
	n, err := Scan(src, func(r Row) error {
		row, err := rowValues(r)
		if err == nil {
			err = t.Append(row)
		}
		return err
	})
	if err != nil {
		return n, fmt.Errorf("row %d: %w", n+1, err)
	}

	logging.Debug().Str("record", t.record.Name).Int("rows", n).Msg("filled table")
	return n, nil
}

func rowValues(row Row) (map[string]any, error) {
	switch v := row.Primitive().(type) {
	case parser.Record:
		return v, nil
	case map[string]any:
		return v, nil
	case TableRow:
		return v.Map(), nil
	}
	return nil, fmt.Errorf("%w: row of type %T", ErrTypeMismatch, row.Primitive())
}

// Iterate returns an iterator holding a shared borrow of the table.
func (t *ColumnTable) Iterate() (RowIterator, error) {
	cursors := make([]*columnCursor, len(t.columns))
	for i, c := range t.columns {
		cursors[i] = c.cursor()
	}
	return &tableIterator{table: t, cursors: cursors, lease: t.borrow.Shared()}, nil
}

type tableIterator struct {
	table   *ColumnTable
	cursors []*columnCursor
	lease   soa.Lease
	current Row
}

// Next advances every column once. The first column alone decides when
// iteration ends; any other column running out first panics.
func (it *tableIterator) Next() bool {
	values := make([]any, len(it.cursors))
	ok := make([]bool, len(it.cursors))
	for i, c := range it.cursors {
		values[i], ok[i] = c.next()
	}

	if !ok[0] {
		it.lease.Release()
		it.current = nil
		return false
	}
	for i := 1; i < len(ok); i++ {
		if !ok[i] {
			soa.ColumnMismatch(it.table.record.Name, it.table.record.Fields[i].Name)
		}
	}

	it.current = TableRow{fields: it.table.record.Fields, values: values}
	return true
}

func (it *tableIterator) Row() Row {
	return it.current
}

func (it *tableIterator) Error() error {
	return nil
}

func (it *tableIterator) Close() error {
	it.lease.Release()
	return nil
}
