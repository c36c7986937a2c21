package soa

import "iter"

// All adapts a cursor factory to a range-over-func sequence. The cursor is
// opened when ranging starts and closed when the loop ends, including on an
// early break, so the borrow it holds never outlives the loop.
func All[T any](open func() Cursor[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		cursor := open()
		defer cursor.Close()
		for {
			item, ok := cursor.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// Collect drains it into a slice.
func Collect[T any](it Iterator[T]) []T {
	var out []T
	for {
		item, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, item)
	}
}
