package containers

import (
	"fmt"

	"github.com/joshuapare/kheap/heap"
)

// Box owns a single value in allocator memory.
type Box[T any] struct {
	a heap.Allocator
	p *T
}

// NewBox moves v into a fresh allocation.
func NewBox[T any](a heap.Allocator, v T) (*Box[T], error) {
	checkElem[T]()
	p, err := allocOne[T](a)
	if err != nil {
		return nil, fmt.Errorf("containers: box: %w", err)
	}
	*p = v
	return &Box[T]{a: a, p: p}, nil
}

// Get returns the boxed value's address, or nil after Free.
func (b *Box[T]) Get() *T { return b.p }

// Free releases the value. Further calls are no-ops.
func (b *Box[T]) Free() {
	if b.p == nil {
		return
	}
	freeOne(b.a, b.p)
	b.p = nil
}
