package heap

import (
	"unsafe"

	"github.com/joshuapare/kheap/heap/layout"
	"github.com/joshuapare/kheap/internal/format"
)

// handle is a raw allocation as the engine sees it: the block base, where
// the header word lives, plus the usable size recorded there.
//
// Block layout:
//
//	base                      base+HeaderWidth
//	| size (one machine word) | size usable bytes ... |
//	                          ^ pointer returned to the caller
type handle struct {
	base unsafe.Pointer
	size uintptr
}

// headerLayout is the backing layout of a raw allocation of size usable
// bytes. false means size plus the header overflows.
func headerLayout(size uintptr) (layout.Layout, bool) {
	total, ok := format.AddSize(size, format.HeaderWidth)
	if !ok {
		return layout.Layout{}, false
	}
	l, err := layout.New(total, format.HeaderWidth)
	return l, err == nil
}

// stamp writes the header of a freshly allocated block.
func stamp(base unsafe.Pointer, size uintptr) handle {
	format.PutWord(base, size)
	return handle{base: base, size: size}
}

// headerOf steps back from a user pointer to its header.
func headerOf(user unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(user, -int(format.HeaderWidth))
}

// readHandle loads the header at base.
func readHandle(base unsafe.Pointer) handle {
	return handle{base: base, size: format.ReadWord(base)}
}

// valid reports whether the recorded size can describe a raw block at all.
func (h handle) valid() bool {
	_, ok := headerLayout(h.size)
	return h.size != 0 && ok
}

func (h handle) user() unsafe.Pointer {
	return unsafe.Add(h.base, format.HeaderWidth)
}

// layout rebuilds the exact layout the block was allocated with.
func (h handle) layout() layout.Layout {
	l, _ := headerLayout(h.size)
	return l
}
