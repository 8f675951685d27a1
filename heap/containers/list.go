package containers

import (
	"fmt"

	"github.com/joshuapare/kheap/heap"
)

// listNode lives in allocator memory. Its links point at other nodes in the
// same memory, which the garbage collector neither scans nor needs to.
type listNode[T any] struct {
	prev, next *listNode[T]
	val        T
}

// List is a doubly linked list with one allocation per element.
type List[T any] struct {
	a          heap.Allocator
	head, tail *listNode[T]
	n          int
}

// NewList returns an empty List.
func NewList[T any](a heap.Allocator) *List[T] {
	checkElem[T]()
	return &List[T]{a: a}
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.n }

// PushBack appends x.
func (l *List[T]) PushBack(x T) error {
	nd, err := l.newNode(x)
	if err != nil {
		return err
	}
	nd.prev = l.tail
	if l.tail != nil {
		l.tail.next = nd
	} else {
		l.head = nd
	}
	l.tail = nd
	l.n++
	return nil
}

// PushFront prepends x.
func (l *List[T]) PushFront(x T) error {
	nd, err := l.newNode(x)
	if err != nil {
		return err
	}
	nd.next = l.head
	if l.head != nil {
		l.head.prev = nd
	} else {
		l.tail = nd
	}
	l.head = nd
	l.n++
	return nil
}

// PopFront removes and returns the first element.
func (l *List[T]) PopFront() (T, bool) {
	nd := l.head
	if nd == nil {
		var zero T
		return zero, false
	}
	l.unlink(nd)
	return l.release(nd), true
}

// PopBack removes and returns the last element.
func (l *List[T]) PopBack() (T, bool) {
	nd := l.tail
	if nd == nil {
		var zero T
		return zero, false
	}
	l.unlink(nd)
	return l.release(nd), true
}

// Front returns the first element without removing it.
func (l *List[T]) Front() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}
	return l.head.val, true
}

// Back returns the last element without removing it.
func (l *List[T]) Back() (T, bool) {
	if l.tail == nil {
		var zero T
		return zero, false
	}
	return l.tail.val, true
}

// Each calls fn on every element front to back until fn returns false.
func (l *List[T]) Each(fn func(T) bool) {
	for nd := l.head; nd != nil; nd = nd.next {
		if !fn(nd.val) {
			return
		}
	}
}

// RemoveFunc deletes every element for which drop returns true and reports
// how many were removed.
func (l *List[T]) RemoveFunc(drop func(T) bool) int {
	removed := 0
	for nd := l.head; nd != nil; {
		next := nd.next
		if drop(nd.val) {
			l.unlink(nd)
			l.release(nd)
			removed++
		}
		nd = next
	}
	return removed
}

// Free releases every node. The List is empty and reusable afterwards.
func (l *List[T]) Free() {
	for nd := l.head; nd != nil; {
		next := nd.next
		freeOne(l.a, nd)
		nd = next
	}
	l.head, l.tail, l.n = nil, nil, 0
}

func (l *List[T]) newNode(x T) (*listNode[T], error) {
	nd, err := allocOne[listNode[T]](l.a)
	if err != nil {
		return nil, fmt.Errorf("containers: list node: %w", err)
	}
	*nd = listNode[T]{val: x}
	return nd, nil
}

func (l *List[T]) unlink(nd *listNode[T]) {
	if nd.prev != nil {
		nd.prev.next = nd.next
	} else {
		l.head = nd.next
	}
	if nd.next != nil {
		nd.next.prev = nd.prev
	} else {
		l.tail = nd.prev
	}
	l.n--
}

func (l *List[T]) release(nd *listNode[T]) T {
	x := nd.val
	freeOne(l.a, nd)
	return x
}
