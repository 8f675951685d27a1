package containers

import (
	"fmt"

	"github.com/joshuapare/kheap/heap"
)

const minVecCap = 4

// Vec is a growable array.
type Vec[T any] struct {
	a   heap.Allocator
	buf []T // len(buf) == cap(buf); live elements are buf[:n]
	n   int
}

// NewVec returns an empty Vec. No memory is allocated until the first Push.
func NewVec[T any](a heap.Allocator) *Vec[T] {
	checkElem[T]()
	return &Vec[T]{a: a}
}

// NewVecWithCapacity returns an empty Vec with room for n elements.
func NewVecWithCapacity[T any](a heap.Allocator, n int) (*Vec[T], error) {
	v := NewVec[T](a)
	if err := v.Reserve(n); err != nil {
		return nil, err
	}
	return v, nil
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int { return v.n }

// Cap returns the number of elements the Vec can hold without growing.
func (v *Vec[T]) Cap() int { return len(v.buf) }

// Get returns element i. It panics if i is out of range.
func (v *Vec[T]) Get(i int) T {
	return v.buf[:v.n][i]
}

// Set overwrites element i. It panics if i is out of range.
func (v *Vec[T]) Set(i int, x T) {
	v.buf[:v.n][i] = x
}

// Slice returns the live elements. The view is invalidated by any call that
// grows or frees the Vec.
func (v *Vec[T]) Slice() []T {
	return v.buf[:v.n:v.n]
}

// Reserve ensures room for at least n more elements.
func (v *Vec[T]) Reserve(n int) error {
	if n < 0 {
		return fmt.Errorf("containers: negative reserve %d", n)
	}
	if need := v.n + n; need > len(v.buf) {
		return v.grow(need)
	}
	return nil
}

// Push appends x, growing the buffer if needed. On error the Vec is
// unchanged.
func (v *Vec[T]) Push(x T) error {
	if v.n == len(v.buf) {
		if err := v.grow(v.n + 1); err != nil {
			return err
		}
	}
	v.buf[v.n] = x
	v.n++
	return nil
}

// Pop removes and returns the last element.
func (v *Vec[T]) Pop() (T, bool) {
	var zero T
	if v.n == 0 {
		return zero, false
	}
	v.n--
	x := v.buf[v.n]
	v.buf[v.n] = zero
	return x, true
}

// Truncate drops every element past the first n.
func (v *Vec[T]) Truncate(n int) {
	if n < 0 || n >= v.n {
		return
	}
	clear(v.buf[n:v.n])
	v.n = n
}

// Free releases the buffer. The Vec is empty and reusable afterwards.
func (v *Vec[T]) Free() {
	freeArray(v.a, v.buf)
	v.buf = nil
	v.n = 0
}

func (v *Vec[T]) grow(need int) error {
	newCap := max(minVecCap, 2*len(v.buf), need)
	buf, err := allocArray[T](v.a, newCap)
	if err != nil {
		return fmt.Errorf("containers: grow vec to %d: %w", newCap, err)
	}
	copy(buf, v.buf[:v.n])
	clear(buf[v.n:])
	freeArray(v.a, v.buf)
	v.buf = buf
	return nil
}
