package database

// Row is one record as a table hands it out.
type Row interface {
	// Get returns the value of a field. JSON rows follow dot paths into
	// nested objects; table rows only know their own fields.
	Get(field string) (any, error)
	// Primitive returns the decoded record: a parser.Record for JSON rows, a
	// TableRow for column tables.
	Primitive() any
}

// RowIterator steps a table one row at a time. A column table's iterator
// holds a shared borrow of the table until it is exhausted or closed.
type RowIterator interface {
	// Next advances to the next row and reports whether there is one.
	Next() bool
	Row() Row
	// Error is the error that ended iteration early, if any.
	Error() error
	Close() error
}

// Table is anything rows can be scanned from.
type Table interface {
	Iterate() (RowIterator, error)
}

// Scan calls fn with every row of t and returns how many rows fn accepted.
// The iterator is closed before Scan returns.
func Scan(t Table, fn func(Row) error) (int, error) {
	it, err := t.Iterate()
	if err != nil {
		return 0, err
	}
	defer it.Close()

	n := 0
	for it.Next() {
		if err := fn(it.Row()); err != nil {
			return n, err
		}
		n++
	}
	return n, it.Error()
}
