package heap

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/kheap/heap/errno"
	"github.com/joshuapare/kheap/heap/layout"
	"github.com/joshuapare/kheap/internal/format"
)

// Allocator hands out layout-described memory. Containers are written
// against it.
type Allocator interface {
	// Allocate returns exactly l.Size bytes aligned to l.Align, or an error.
	// It never panics.
	Allocate(l layout.Layout) ([]byte, error)

	// Deallocate releases memory from Allocate. l must be the layout it was
	// allocated with.
	Deallocate(p unsafe.Pointer, l layout.Layout)
}

// Capability adapts a Context's raw tier to Allocator. Blocks carry the raw
// size header, so Deallocate can cross-check the caller's layout.
type Capability struct {
	c *Context
}

// Ensure Capability implements Allocator.
var _ Allocator = Capability{}

// Capability returns an Allocator drawing from this context.
func (c *Context) Capability() Capability {
	return Capability{c: c}
}

// Allocate implements Allocator.
func (a Capability) Allocate(l layout.Layout) ([]byte, error) {
	if l.Align > format.HeaderWidth {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlign, l)
	}
	p := a.c.Malloc(l.Size)
	if p == nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCapacity, l, a.c.Errno())
	}
	return unsafe.Slice((*byte)(p), l.Size), nil
}

// Deallocate implements Allocator. A header that disagrees with l.Size
// records MemoryCorruption and panics.
func (a Capability) Deallocate(p unsafe.Pointer, l layout.Layout) {
	if p == nil {
		a.c.fail("deallocate", errno.InvalidInput)
		return
	}
	size, err := a.c.heap.usableSize(p)
	if err != nil {
		a.c.fault("deallocate", errno.MemoryCorruption, err)
	}
	if size != l.Size {
		a.c.fault("deallocate", errno.MemoryCorruption,
			fmt.Errorf("header says %d bytes, caller passed %s", size, l))
	}
	a.c.Free(p)
}
