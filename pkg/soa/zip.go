package soa

import "fmt"

// Pair is the item of a Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip steps two iterators together. Nesting Zips left-deep composes any
// number of columns: ZipOf(ZipOf(a, b), c) yields Pair[Pair[A, B], C].
//
// Both sides are advanced on every step. Only the first side decides when the
// sequence ends; the second side running out early is a broken invariant and
// panics.
type Zip[A, B any] struct {
	first  Iterator[A]
	second Iterator[B]
	lease  Lease
}

// ZipOf pairs first and second.
func ZipOf[A, B any](first Iterator[A], second Iterator[B]) *Zip[A, B] {
	return &Zip[A, B]{first: first, second: second}
}

// Next advances both sides once and returns their elements as a Pair.
func (z *Zip[A, B]) Next() (Pair[A, B], bool) {
	a, aOK := z.first.Next()
	b, bOK := z.second.Next()
	if !aOK {
		z.lease.Release()
		return Pair[A, B]{}, false
	}
	if !bOK {
		panic(fmt.Errorf("%w: second side of zip exhausted first", ErrColumnLength))
	}
	return Pair[A, B]{First: a, Second: b}, true
}

// Hold attaches a lease released when the zip is exhausted or closed.
func (z *Zip[A, B]) Hold(l Lease) { z.lease = l }

// Close releases the zip's lease early.
func (z *Zip[A, B]) Close() { z.lease.Release() }
