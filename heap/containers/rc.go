package containers

import (
	"fmt"

	"github.com/joshuapare/kheap/heap"
)

// rcBox is the shared allocation behind every Rc handle.
type rcBox[T any] struct {
	strong uint64
	val    T
}

// Rc is a reference-counted handle to a value in allocator memory. Clone
// makes another handle; the value is released when the last handle is
// dropped. The count is not atomic: all handles must stay on one goroutine.
type Rc[T any] struct {
	a heap.Allocator
	p *rcBox[T]
}

// NewRc moves v into a fresh allocation with a count of one.
func NewRc[T any](a heap.Allocator, v T) (Rc[T], error) {
	checkElem[T]()
	p, err := allocOne[rcBox[T]](a)
	if err != nil {
		return Rc[T]{}, fmt.Errorf("containers: rc: %w", err)
	}
	*p = rcBox[T]{strong: 1, val: v}
	return Rc[T]{a: a, p: p}, nil
}

// Get returns the shared value's address. It panics on a dropped handle.
func (r Rc[T]) Get() *T {
	if r.p == nil {
		panic("containers: use of dropped Rc")
	}
	return &r.p.val
}

// Count returns the number of live handles, or 0 for a dropped handle.
func (r Rc[T]) Count() uint64 {
	if r.p == nil {
		return 0
	}
	return r.p.strong
}

// Clone returns a new handle to the same value.
func (r Rc[T]) Clone() Rc[T] {
	if r.p == nil {
		panic("containers: clone of dropped Rc")
	}
	r.p.strong++
	return r
}

// Drop releases this handle, freeing the value if it was the last one.
// Dropping a handle twice is a no-op.
func (r *Rc[T]) Drop() {
	if r.p == nil {
		return
	}
	r.p.strong--
	if r.p.strong == 0 {
		freeOne(r.a, r.p)
	}
	r.p = nil
}
