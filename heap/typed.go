package heap

import (
	"unsafe"

	"github.com/joshuapare/kheap/heap/errno"
	"github.com/joshuapare/kheap/heap/layout"
	"github.com/joshuapare/kheap/internal/format"
)

// MallocSafe allocates uninitialized storage for one T. It returns nil with
// AllocationFailure recorded when the heap is exhausted. T must be non-zero
// sized and pointer-free.
func MallocSafe[T any](c *Context) *T {
	l := typedLayout[T]()
	p, err := c.heap.allocate(l)
	if err != nil {
		c.fail("malloc_safe", errno.AllocationFailure, "layout", l, "err", err)
		return nil
	}
	return (*T)(p)
}

// MallocSafeVal allocates one T and stores v in it.
func MallocSafeVal[T any](c *Context, v T) *T {
	p := MallocSafe[T](c)
	if p != nil {
		*p = v
	}
	return p
}

// MallocLike returns a raw, headered allocation large enough to hold the
// bytes of v. The contents are not copied. Release it with Context.Free.
// Failure records AllocationFailure and panics.
func MallocLike[T any](c *Context, v []T) unsafe.Pointer {
	MustPointerFree[T]()
	n, ok := format.MulSize(uintptr(len(v)), unsafe.Sizeof(*new(T)))
	if !ok {
		c.fault("malloc_like", errno.AllocationFailure, layout.ErrOverflow)
	}
	p := c.Malloc(n)
	if p == nil {
		c.fault("malloc_like", errno.AllocationFailure, ErrCapacity)
	}
	return p
}

// CallocSafe allocates n zeroed T values and returns them as a slice with
// len and cap n.
//
//   - n == 0 returns nil without touching errno
//   - n < 0 records InvalidInput and returns nil
//   - an overflowing n*sizeof(T) records AllocationFailure and panics
//   - exhaustion records AllocationFailure and returns nil
func CallocSafe[T any](c *Context, n int) []T {
	switch {
	case n == 0:
		return nil
	case n < 0:
		c.fail("calloc_safe", errno.InvalidInput, "n", n)
		return nil
	}

	typedLayout[T]()
	l, err := layout.Array[T](uintptr(n))
	if err != nil {
		c.fault("calloc_safe", errno.AllocationFailure, err)
	}
	p, err := c.heap.allocate(l)
	if err != nil {
		c.fail("calloc_safe", errno.AllocationFailure, "layout", l, "err", err)
		return nil
	}
	format.Zero(p, l.Size)
	return unsafe.Slice((*T)(p), n)
}

// FreeSafe releases a T allocated by MallocSafe or MallocSafeVal. nil
// records AllocationFailure and returns.
func FreeSafe[T any](c *Context, p *T) {
	if p == nil {
		c.fail("free_safe", errno.AllocationFailure)
		return
	}
	if err := c.heap.deallocate(unsafe.Pointer(p), typedLayout[T]()); err != nil {
		c.fault("free_safe", errno.MemoryCorruption, err)
	}
}

// FreeSliceSafe releases a slice allocated by CallocSafe or
// ReallocSliceSafe. The layout is recomputed from cap(s). A nil or
// zero-capacity slice records AllocationFailure and returns.
func FreeSliceSafe[T any](c *Context, s []T) {
	if cap(s) == 0 {
		c.fail("free_slice_safe", errno.AllocationFailure)
		return
	}
	l, err := layout.Array[T](uintptr(cap(s)))
	if err != nil {
		c.fault("free_slice_safe", errno.MemoryCorruption, err)
	}
	if err := c.heap.deallocate(unsafe.Pointer(unsafe.SliceData(s)), l); err != nil {
		c.fault("free_slice_safe", errno.MemoryCorruption, err)
	}
}

// ReallocSafe reallocates p to the size of T. The backing allocator keeps
// the block in place when it can, so the result is normally p itself. There
// is no nil-returning path: failure records AllocationFailure and panics.
func ReallocSafe[T any](c *Context, p *T) *T {
	l := typedLayout[T]()
	q, err := c.heap.reallocate(unsafe.Pointer(p), l, l.Size)
	if err != nil {
		c.fault("realloc_safe", errno.AllocationFailure, err)
	}
	return (*T)(q)
}

// ReallocSliceSafe resizes a typed slice to n elements, preserving the
// leading min(cap(s), n) elements and zeroing any new ones.
//
//   - a nil s allocates like CallocSafe
//   - n == 0 frees s and returns nil
//   - n < 0 records InvalidInput and returns s unchanged
//   - failure records AllocationFailure and panics
func ReallocSliceSafe[T any](c *Context, s []T, n int) []T {
	switch {
	case n < 0:
		c.fail("realloc_slice_safe", errno.InvalidInput, "n", n)
		return s
	case cap(s) == 0:
		out := CallocSafe[T](c, n)
		if out == nil && n > 0 {
			c.fault("realloc_slice_safe", errno.AllocationFailure, ErrCapacity)
		}
		return out
	case n == 0:
		FreeSliceSafe(c, s)
		return nil
	}

	typedLayout[T]()
	old, err := layout.Array[T](uintptr(cap(s)))
	if err != nil {
		c.fault("realloc_slice_safe", errno.MemoryCorruption, err)
	}
	want, err := layout.Array[T](uintptr(n))
	if err != nil {
		c.fault("realloc_slice_safe", errno.AllocationFailure, err)
	}
	q, err := c.heap.reallocate(unsafe.Pointer(unsafe.SliceData(s)), old, want.Size)
	if err != nil {
		c.fault("realloc_slice_safe", errno.AllocationFailure, err)
	}
	if want.Size > old.Size {
		format.Zero(unsafe.Add(q, old.Size), want.Size-old.Size)
	}
	return unsafe.Slice((*T)(q), n)
}
