package heap

import (
	"unsafe"

	"github.com/joshuapare/kheap/heap/errno"
	"github.com/joshuapare/kheap/internal/format"
)

// Malloc returns size uninitialized bytes, or nil with AllocationFailure
// recorded when size is zero, overflows with the header, or does not fit.
func (c *Context) Malloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		c.fail("malloc", errno.AllocationFailure, "size", size)
		return nil
	}
	p, err := c.heap.allocRaw(size)
	if err != nil {
		c.fail("malloc", errno.AllocationFailure, "size", size, "err", err)
		return nil
	}
	return p
}

// Free releases a block returned by Malloc, Calloc or Realloc. A nil p
// records AllocationFailure and returns. A pointer the heap cannot match to
// a live block records MemoryCorruption and panics.
func (c *Context) Free(p unsafe.Pointer) {
	if p == nil {
		c.fail("free", errno.AllocationFailure)
		return
	}
	if err := c.heap.freeRaw(p); err != nil {
		c.fault("free", errno.MemoryCorruption, err)
	}
}

// Calloc returns nmemb*size zeroed bytes. A zero or overflowing product
// records AllocationFailure and returns nil.
func (c *Context) Calloc(nmemb, size uintptr) unsafe.Pointer {
	total, ok := format.MulSize(nmemb, size)
	if !ok {
		// Overflow clamps to an empty request.
		total = 0
	}
	if total == 0 {
		c.fail("calloc", errno.AllocationFailure, "nmemb", nmemb, "size", size)
		return nil
	}
	p := c.Malloc(total)
	if p == nil {
		return nil
	}
	format.Zero(p, total)
	return p
}

// Realloc moves a block to a fresh allocation of newSize bytes, preserving
// min(old, newSize) leading bytes, and frees the old block.
//
//   - nil p behaves exactly like Malloc(newSize)
//   - newSize == 0 frees p, records AllocationFailure and returns nil
//   - if the new allocation fails, nil is returned and p stays live
func (c *Context) Realloc(p unsafe.Pointer, newSize uintptr) unsafe.Pointer {
	if p == nil {
		return c.Malloc(newSize)
	}
	if newSize == 0 {
		c.Free(p)
		c.fail("realloc", errno.AllocationFailure, "size", newSize)
		return nil
	}

	old, err := c.heap.usableSize(p)
	if err != nil {
		c.fault("realloc", errno.MemoryCorruption, err)
	}
	q := c.Malloc(newSize)
	if q == nil {
		return nil
	}
	format.Copy(q, p, min(old, newSize))
	c.Free(p)
	return q
}

// UsableSize returns the size recorded in p's header, or 0 for nil.
func (c *Context) UsableSize(p unsafe.Pointer) uintptr {
	if p == nil {
		return 0
	}
	n, err := c.heap.usableSize(p)
	if err != nil {
		c.fault("usable_size", errno.MemoryCorruption, err)
	}
	return n
}
