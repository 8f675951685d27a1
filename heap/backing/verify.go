package backing

import (
	"fmt"
	"slices"

	"github.com/joshuapare/kheap/internal/format"
)

// span is one block on the grid, used by Verify.
type span struct {
	off  uintptr
	size uintptr
	free bool
}

// Verify walks the bookkeeping and checks the block grid invariants:
//   - live and free blocks tile [start, end) with no gaps or overlaps
//   - every block is granule aligned and at least one granule long
//   - no two free blocks are adjacent
//   - the free lists, the coalescing indexes and the byte counters agree
//
// It returns an error wrapping ErrCorrupt describing the first violation.
func (a *Allocator) Verify() error {
	spans := make([]span, 0, len(a.live)+len(a.startIdx))

	var liveBytes, freeBytes uintptr
	for off, size := range a.live {
		if _, dup := a.startIdx[off]; dup {
			return fmt.Errorf("%w: offset %#x both live and free", ErrCorrupt, off)
		}
		spans = append(spans, span{off: off, size: size})
		liveBytes += size
	}
	for off, size := range a.startIdx {
		if back, ok := a.endIdx[off+size]; !ok || back != off {
			return fmt.Errorf("%w: free block %#x+%d missing from end index", ErrCorrupt, off, size)
		}
		spans = append(spans, span{off: off, size: size, free: true})
		freeBytes += size
	}
	if len(a.endIdx) != len(a.startIdx) {
		return fmt.Errorf("%w: %d start entries, %d end entries", ErrCorrupt, len(a.startIdx), len(a.endIdx))
	}
	if liveBytes != a.liveBytes || freeBytes != a.freeBytes {
		return fmt.Errorf("%w: counters live=%d/%d free=%d/%d",
			ErrCorrupt, a.liveBytes, liveBytes, a.freeBytes, freeBytes)
	}

	if err := a.verifyLists(); err != nil {
		return err
	}

	slices.SortFunc(spans, func(x, y span) int {
		switch {
		case x.off < y.off:
			return -1
		case x.off > y.off:
			return 1
		}
		return 0
	})

	cur := a.start
	for i, s := range spans {
		switch {
		case s.off != cur:
			return fmt.Errorf("%w: expected block at %#x, found %#x", ErrCorrupt, cur, s.off)
		case s.size < format.Granule || s.size&format.GranuleMask != 0:
			return fmt.Errorf("%w: block %#x has size %d", ErrCorrupt, s.off, s.size)
		case (uintptr(a.base)+s.off)&format.GranuleMask != 0:
			return fmt.Errorf("%w: block %#x misaligned", ErrCorrupt, s.off)
		case i > 0 && s.free && spans[i-1].free:
			return fmt.Errorf("%w: adjacent free blocks at %#x and %#x", ErrCorrupt, spans[i-1].off, s.off)
		}
		cur += s.size
	}
	if cur != a.end {
		return fmt.Errorf("%w: grid ends at %#x, want %#x", ErrCorrupt, cur, a.end)
	}
	return nil
}

// verifyLists checks that every free block sits in exactly the list its size
// selects.
func (a *Allocator) verifyLists() error {
	seen := 0
	for sc := range a.freeLists {
		list := &a.freeLists[sc]
		if list.count != list.heap.Len() {
			return fmt.Errorf("%w: class %d count %d, heap %d", ErrCorrupt, sc, list.count, list.heap.Len())
		}
		for i, blk := range list.heap {
			if blk.heapIndex != i {
				return fmt.Errorf("%w: class %d entry %d has heap index %d", ErrCorrupt, sc, i, blk.heapIndex)
			}
			if got := a.sizeTable.classOf(blk.size); got != sc {
				return fmt.Errorf("%w: block %#x size %d in class %d, want %d", ErrCorrupt, blk.off, blk.size, sc, got)
			}
			if a.byOff[blk.off] != blk || a.startIdx[blk.off] != blk.size {
				return fmt.Errorf("%w: block %#x not indexed", ErrCorrupt, blk.off)
			}
			seen++
		}
	}
	for lb := a.largeFree; lb != nil; lb = lb.next {
		if a.sizeTable.classOf(lb.size) != len(a.freeLists) {
			return fmt.Errorf("%w: large block %#x size %d belongs in a class", ErrCorrupt, lb.off, lb.size)
		}
		if a.startIdx[lb.off] != lb.size {
			return fmt.Errorf("%w: large block %#x not indexed", ErrCorrupt, lb.off)
		}
		seen++
	}
	if seen != len(a.startIdx) {
		return fmt.Errorf("%w: %d listed free blocks, %d indexed", ErrCorrupt, seen, len(a.startIdx))
	}
	return nil
}
