package database

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/goccy/go-json"
)

func arrowType(k Kind) arrow.DataType {
	switch k {
	case Int:
		return arrow.PrimitiveTypes.Int64
	case Float:
		return arrow.PrimitiveTypes.Float64
	case Bool:
		return arrow.FixedWidthTypes.Boolean
	}
	// Any columns are exported as their JSON encoding.
	return arrow.BinaryTypes.String
}

// ArrowSchema describes the table as an Arrow schema, one field per column.
func (t *ColumnTable) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, len(t.columns))
	for i, f := range t.record.Fields {
		fields[i] = arrow.Field{Name: f.Name, Type: arrowType(t.columns[i].kind())}
	}
	md := arrow.NewMetadata([]string{"soagen.record"}, []string{t.record.Name})
	return arrow.NewSchema(fields, &md)
}

// ArrowRecord copies the table into a single Arrow record batch. The caller
// must Release it.
func (t *ColumnTable) ArrowRecord(mem memory.Allocator) (arrow.Record, error) {
	b := array.NewRecordBuilder(mem, t.ArrowSchema())
	defer b.Release()

	for i, c := range t.columns {
		switch col := c.(type) {
		case *typedColumn[int64]:
			b.Field(i).(*array.Int64Builder).AppendValues(col.values, nil)
		case *typedColumn[float64]:
			b.Field(i).(*array.Float64Builder).AppendValues(col.values, nil)
		case *typedColumn[bool]:
			b.Field(i).(*array.BooleanBuilder).AppendValues(col.values, nil)
		case *typedColumn[string]:
			b.Field(i).(*array.StringBuilder).AppendValues(col.values, nil)
		case *typedColumn[any]:
			sb := b.Field(i).(*array.StringBuilder)
			for _, v := range col.values {
				if v == nil {
					sb.AppendNull()
					continue
				}
				enc, err := json.Marshal(v)
				if err != nil {
					return nil, fmt.Errorf("column %s: %w", t.record.Fields[i].Name, err)
				}
				sb.Append(string(enc))
			}
		default:
			return nil, fmt.Errorf("column %s: %w", t.record.Fields[i].Name, ErrUnsupportedKind)
		}
	}
	return b.NewRecord(), nil
}

// WriteArrow writes the table to w as an Arrow IPC stream.
func (t *ColumnTable) WriteArrow(w io.Writer, mem memory.Allocator) error {
	rec, err := t.ArrowRecord(mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := wr.Write(rec); err != nil {
		_ = wr.Close()
		return fmt.Errorf("failed to write arrow record: %w", err)
	}
	return wr.Close()
}
