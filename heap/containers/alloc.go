package containers

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/layout"
)

// checkElem panics unless T can live in allocator memory.
func checkElem[T any]() {
	if layout.Of[T]().Size == 0 {
		panic(fmt.Errorf("%w: %s", heap.ErrZeroSized, reflect.TypeOf((*T)(nil)).Elem()))
	}
	heap.MustPointerFree[T]()
}

// allocArray allocates room for n values of T. The memory is not zeroed.
func allocArray[T any](a heap.Allocator, n int) ([]T, error) {
	l, err := layout.Array[T](uintptr(n))
	if err != nil {
		return nil, err
	}
	b, err := a.Allocate(l)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil
}

// freeArray releases an array from allocArray. The layout comes from cap.
func freeArray[T any](a heap.Allocator, s []T) {
	if cap(s) == 0 {
		return
	}
	l, _ := layout.Array[T](uintptr(cap(s)))
	a.Deallocate(unsafe.Pointer(unsafe.SliceData(s)), l)
}

// allocOne allocates one uninitialized T.
func allocOne[T any](a heap.Allocator) (*T, error) {
	b, err := a.Allocate(layout.Of[T]())
	if err != nil {
		return nil, err
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))), nil
}

// freeOne releases a T from allocOne.
func freeOne[T any](a heap.Allocator, p *T) {
	a.Deallocate(unsafe.Pointer(p), layout.Of[T]())
}
