package containers

import (
	"fmt"

	"github.com/joshuapare/kheap/heap"
)

// Deque is a double-ended queue over a growable ring buffer.
type Deque[T any] struct {
	a    heap.Allocator
	buf  []T
	head int // index of the front element
	n    int
}

// NewDeque returns an empty Deque.
func NewDeque[T any](a heap.Allocator) *Deque[T] {
	checkElem[T]()
	return &Deque[T]{a: a}
}

// Len returns the number of elements.
func (d *Deque[T]) Len() int { return d.n }

// At returns the element i positions from the front. It panics if i is out
// of range.
func (d *Deque[T]) At(i int) T {
	if i < 0 || i >= d.n {
		panic(fmt.Sprintf("containers: deque index %d out of range [0:%d]", i, d.n))
	}
	return d.buf[d.slot(i)]
}

// PushBack appends x at the back.
func (d *Deque[T]) PushBack(x T) error {
	if err := d.ensure(); err != nil {
		return err
	}
	d.buf[d.slot(d.n)] = x
	d.n++
	return nil
}

// PushFront inserts x at the front.
func (d *Deque[T]) PushFront(x T) error {
	if err := d.ensure(); err != nil {
		return err
	}
	d.head = (d.head - 1 + len(d.buf)) % len(d.buf)
	d.buf[d.head] = x
	d.n++
	return nil
}

// PopFront removes and returns the front element.
func (d *Deque[T]) PopFront() (T, bool) {
	var zero T
	if d.n == 0 {
		return zero, false
	}
	x := d.buf[d.head]
	d.buf[d.head] = zero
	d.head = (d.head + 1) % len(d.buf)
	d.n--
	return x, true
}

// PopBack removes and returns the back element.
func (d *Deque[T]) PopBack() (T, bool) {
	var zero T
	if d.n == 0 {
		return zero, false
	}
	i := d.slot(d.n - 1)
	x := d.buf[i]
	d.buf[i] = zero
	d.n--
	return x, true
}

// Front returns the front element without removing it.
func (d *Deque[T]) Front() (T, bool) {
	if d.n == 0 {
		var zero T
		return zero, false
	}
	return d.buf[d.head], true
}

// Back returns the back element without removing it.
func (d *Deque[T]) Back() (T, bool) {
	if d.n == 0 {
		var zero T
		return zero, false
	}
	return d.buf[d.slot(d.n-1)], true
}

// Free releases the ring buffer. The Deque is empty and reusable afterwards.
func (d *Deque[T]) Free() {
	freeArray(d.a, d.buf)
	d.buf = nil
	d.head, d.n = 0, 0
}

func (d *Deque[T]) slot(i int) int {
	return (d.head + i) % len(d.buf)
}

// ensure makes room for one more element, unwrapping the ring into a larger
// buffer when full.
func (d *Deque[T]) ensure() error {
	if d.n < len(d.buf) {
		return nil
	}
	newCap := max(minVecCap, 2*len(d.buf))
	buf, err := allocArray[T](d.a, newCap)
	if err != nil {
		return fmt.Errorf("containers: grow deque to %d: %w", newCap, err)
	}
	if d.n > 0 {
		k := copy(buf, d.buf[d.head:])
		copy(buf[k:], d.buf[:d.head])
	}
	clear(buf[d.n:])
	freeArray(d.a, d.buf)
	d.buf = buf
	d.head = 0
	return nil
}
