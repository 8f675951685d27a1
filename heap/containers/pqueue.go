package containers

import (
	"github.com/joshuapare/kheap/heap"
)

// PriorityQueue is a binary heap over a Vec. Pop returns the element that
// sorts first under less; pass a greater-than function for a max-heap.
type PriorityQueue[T any] struct {
	v    *Vec[T]
	less func(a, b T) bool
}

// NewPriorityQueue returns an empty queue ordered by less.
func NewPriorityQueue[T any](a heap.Allocator, less func(a, b T) bool) *PriorityQueue[T] {
	return &PriorityQueue[T]{v: NewVec[T](a), less: less}
}

// Len returns the number of elements.
func (q *PriorityQueue[T]) Len() int { return q.v.Len() }

// Push adds x.
func (q *PriorityQueue[T]) Push(x T) error {
	if err := q.v.Push(x); err != nil {
		return err
	}
	q.up(q.v.Len() - 1)
	return nil
}

// Peek returns the first element without removing it.
func (q *PriorityQueue[T]) Peek() (T, bool) {
	if q.v.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.v.Get(0), true
}

// Pop removes and returns the first element.
func (q *PriorityQueue[T]) Pop() (T, bool) {
	n := q.v.Len()
	if n == 0 {
		var zero T
		return zero, false
	}
	s := q.v.Slice()
	s[0], s[n-1] = s[n-1], s[0]
	x, _ := q.v.Pop()
	q.down(0)
	return x, true
}

// Free releases the backing storage.
func (q *PriorityQueue[T]) Free() { q.v.Free() }

func (q *PriorityQueue[T]) up(j int) {
	s := q.v.Slice()
	for j > 0 {
		i := (j - 1) / 2 // parent
		if !q.less(s[j], s[i]) {
			break
		}
		s[i], s[j] = s[j], s[i]
		j = i
	}
}

func (q *PriorityQueue[T]) down(i int) {
	s := q.v.Slice()
	n := len(s)
	for {
		j := 2*i + 1
		if j >= n {
			return
		}
		if r := j + 1; r < n && q.less(s[r], s[j]) {
			j = r
		}
		if !q.less(s[j], s[i]) {
			return
		}
		s[i], s[j] = s[j], s[i]
		i = j
	}
}
