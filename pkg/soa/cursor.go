// Package soa is the runtime imported by code generated with soagen.
//
// A generated container keeps one slice per record field. Iterating it means
// walking those slices in lock step: every column gets a cursor (Iter or
// IterMut), and either a generated aggregate or a nested Zip of cursors turns
// one step of every cursor into one record view.
package soa

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnLength reports parallel columns that ended at different lengths.
	// Generated code never returns it; it is only ever the payload of a panic.
	ErrColumnLength = errors.New("soa: columns have different lengths")
)

// Iterator is anything that can be stepped one element at a time.
type Iterator[T any] interface {
	// Next returns the next element, or false once the sequence is exhausted.
	Next() (T, bool)
}

// Cursor is an Iterator holding a borrow that Close gives back.
type Cursor[T any] interface {
	Iterator[T]
	Close()
}

// Iter is a read cursor over one column.
type Iter[T any] struct {
	column []T
	pos    int
	lease  Lease
}

// NewIter returns a read cursor positioned before the first element of column.
func NewIter[T any](column []T) *Iter[T] {
	return &Iter[T]{column: column}
}

// Next returns a pointer to the next element. Callers must not write through it.
func (it *Iter[T]) Next() (*T, bool) {
	if it.pos >= len(it.column) {
		it.lease.Release()
		return nil, false
	}
	elem := &it.column[it.pos]
	it.pos++
	return elem, true
}

// Remaining is the number of elements left.
func (it *Iter[T]) Remaining() int { return len(it.column) - it.pos }

// Hold attaches a lease released when the cursor is exhausted or closed.
func (it *Iter[T]) Hold(l Lease) { it.lease = l }

// Close releases the cursor's lease early.
func (it *Iter[T]) Close() { it.lease.Release() }

// IterMut is a write cursor over one column.
type IterMut[T any] struct {
	column []T
	pos    int
	lease  Lease
}

// NewIterMut returns a write cursor positioned before the first element of column.
func NewIterMut[T any](column []T) *IterMut[T] {
	return &IterMut[T]{column: column}
}

// Next returns a pointer to the next element.
func (it *IterMut[T]) Next() (*T, bool) {
	if it.pos >= len(it.column) {
		it.lease.Release()
		return nil, false
	}
	elem := &it.column[it.pos]
	it.pos++
	return elem, true
}

// Remaining is the number of elements left.
func (it *IterMut[T]) Remaining() int { return len(it.column) - it.pos }

// Hold attaches a lease released when the cursor is exhausted or closed.
func (it *IterMut[T]) Hold(l Lease) { it.lease = l }

// Close releases the cursor's lease early.
func (it *IterMut[T]) Close() { it.lease.Release() }

// ColumnMismatch panics because column field of record ran out before the
// first column did. It is called from generated step functions.
func ColumnMismatch(record, field string) {
	panic(fmt.Errorf("%w: %s.%s exhausted before the first column", ErrColumnLength, record, field))
}
