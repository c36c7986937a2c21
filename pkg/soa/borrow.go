package soa

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrBorrowed is raised when a container is mutated or mutably borrowed
	// while another borrow is live.
	ErrBorrowed = errors.New("soa: container is already borrowed")
	// ErrMutablyBorrowed is raised when a container is borrowed while a mutable
	// borrow is live.
	ErrMutablyBorrowed = errors.New("soa: container is already mutably borrowed")
)

const exclusive = -1

// Borrow tracks the live iterators over a container: any number of shared
// borrows, or exactly one exclusive borrow. Conflicts panic at the moment the
// conflicting iterator is constructed.
//
// A nil *Borrow tracks nothing, so views built outside a container still work.
type Borrow struct {
	state atomic.Int32
}

// Shared takes a read borrow.
func (b *Borrow) Shared() Lease {
	if b == nil {
		return Lease{}
	}
	for {
		n := b.state.Load()
		if n == exclusive {
			panic(fmt.Errorf("%w: cannot iterate", ErrMutablyBorrowed))
		}
		if b.state.CompareAndSwap(n, n+1) {
			return Lease{release: func() { b.state.Add(-1) }}
		}
	}
}

// Exclusive takes the write borrow.
func (b *Borrow) Exclusive() Lease {
	if b == nil {
		return Lease{}
	}
	if !b.state.CompareAndSwap(0, exclusive) {
		if b.state.Load() == exclusive {
			panic(fmt.Errorf("%w: cannot iterate mutably", ErrMutablyBorrowed))
		}
		panic(fmt.Errorf("%w: cannot iterate mutably", ErrBorrowed))
	}
	return Lease{release: func() { b.state.Store(0) }}
}

// AssertUnborrowed panics if any borrow is live. Containers call it before
// resizing their columns.
func (b *Borrow) AssertUnborrowed() { b.check("cannot resize", false) }

// AssertWritable panics if any borrow is live. Mutable record views call it
// before they are built.
func (b *Borrow) AssertWritable() { b.check("cannot take a mutable view", false) }

// AssertReadable panics while the container is borrowed exclusively.
func (b *Borrow) AssertReadable() { b.check("cannot take a view", true) }

func (b *Borrow) check(op string, shared bool) {
	if b == nil {
		return
	}
	switch n := b.state.Load(); {
	case n == exclusive:
		panic(fmt.Errorf("%w: %s", ErrMutablyBorrowed, op))
	case n > 0 && !shared:
		panic(fmt.Errorf("%w: %s", ErrBorrowed, op))
	}
}

// Readers is the number of live shared borrows, or -1 when borrowed exclusively.
func (b *Borrow) Readers() int {
	if b == nil {
		return 0
	}
	return int(b.state.Load())
}

// Lease gives a borrow back exactly once.
type Lease struct {
	release func()
}

// Release returns the borrow. Subsequent calls do nothing.
func (l *Lease) Release() {
	if l.release == nil {
		return
	}
	release := l.release
	l.release = nil
	release()
}

// Held reports whether the lease has not been released yet.
func (l *Lease) Held() bool { return l.release != nil }
