// Package layout describes allocation requests as a (size, alignment) pair.
package layout

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/joshuapare/kheap/internal/format"
)

var (
	// ErrBadAlign indicates an alignment that is not a power of two.
	ErrBadAlign = errors.New("layout: alignment must be a power of two")

	// ErrOverflow indicates a size that overflows the address space once
	// rounded up to its alignment.
	ErrOverflow = errors.New("layout: size overflows address space")
)

// Layout is a (size, alignment) pair describing a requested allocation.
// Build one with New, Of or Array; the zero value is not a valid layout.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// New validates and returns a layout. Size rounded up to Align must not
// exceed format.MaxSize.
func New(size, align uintptr) (Layout, error) {
	if !format.IsPow2(align) {
		return Layout{}, fmt.Errorf("%w: %d", ErrBadAlign, align)
	}
	padded, ok := format.AlignUp(size, align)
	if !ok || padded > format.MaxSize {
		return Layout{}, fmt.Errorf("%w: size=%d align=%d", ErrOverflow, size, align)
	}
	return Layout{Size: size, Align: align}, nil
}

// Of returns the layout of exactly one T.
func Of[T any]() Layout {
	var zero T
	return Layout{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
}

// Array returns the layout of n contiguous T values.
func Array[T any](n uintptr) (Layout, error) {
	elem := Of[T]()
	if n != 0 && elem.Size > format.MaxSize/n {
		return Layout{}, fmt.Errorf("%w: %d x %d bytes", ErrOverflow, n, elem.Size)
	}
	return New(n*elem.Size, elem.Align)
}

// Padded returns Size rounded up to Align.
func (l Layout) Padded() uintptr {
	r, _ := format.AlignUp(l.Size, l.Align)
	return r
}

// String renders the layout for logs and panics.
func (l Layout) String() string {
	return fmt.Sprintf("Layout{size: %d, align: %d}", l.Size, l.Align)
}
