package backing

import (
	"container/heap"
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/kheap/heap/layout"
	"github.com/joshuapare/kheap/internal/format"
	"github.com/joshuapare/kheap/internal/logger"
)

// Allocator is a best-fit block allocator over a fixed byte region.
// - Min-heaps per size class give O(log n) removal and best fit inside a class
// - Classes are ordered, so the first class with a fit holds the global best fit
// - startIdx/endIdx give O(1) neighbour lookup for coalescing.
type Allocator struct {
	region []byte
	base   unsafe.Pointer

	// Block grid [start, end) as offsets from base. start is the first
	// granule-aligned address in the region.
	start uintptr
	end   uintptr

	// Size class configuration and lookup table
	sizeTable *sizeClassTable

	// Segregated free lists by size class using min-heaps
	freeLists []freeList

	// Blocks beyond the last size class - simple linked list
	largeFree *largeBlock

	// Pool for reusing freeBlock structs
	freeBlockPool sync.Pool

	// Free block lookup
	// byOff: offset -> heap entry (class blocks only, for heap.Remove)
	// startIdx: offset -> size (every free block)
	// endIdx: end offset -> offset (every free block, for backward coalesce)
	byOff    map[uintptr]*freeBlock
	startIdx map[uintptr]uintptr
	endIdx   map[uintptr]uintptr

	// live: offset -> block size for every allocated block
	live map[uintptr]uintptr

	liveBytes uintptr
	freeBytes uintptr

	stats Stats
}

// New creates an allocator managing region. The region must stay mapped and
// must not move for the allocator's lifetime. A nil config selects
// DefaultConfig.
func New(region []byte, config *SizeClassConfig) (*Allocator, error) {
	if config == nil {
		config = &DefaultConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(region) == 0 {
		return nil, ErrEmptyRegion
	}

	base := unsafe.Pointer(unsafe.SliceData(region))
	first, ok := format.AlignUp(uintptr(base), format.Granule)
	if !ok {
		return nil, ErrEmptyRegion
	}
	start := first - uintptr(base)
	if start >= uintptr(len(region)) {
		return nil, ErrEmptyRegion
	}
	end := start + format.AlignDown(uintptr(len(region))-start, format.Granule)
	if end-start < format.Granule {
		return nil, fmt.Errorf("%w: %d bytes", ErrEmptyRegion, len(region))
	}

	sizeTable := newSizeClassTable(*config)
	a := &Allocator{
		region:    region,
		base:      base,
		start:     start,
		end:       end,
		sizeTable: sizeTable,
		freeLists: make([]freeList, sizeTable.NumClasses()),
		byOff:     make(map[uintptr]*freeBlock),
		startIdx:  make(map[uintptr]uintptr),
		endIdx:    make(map[uintptr]uintptr),
		live:      make(map[uintptr]uintptr),
	}
	for i := range a.freeLists {
		a.freeLists[i].heap = make(freeBlockHeap, 0, 16)
	}
	a.freeBlockPool.New = func() any { return &freeBlock{heapIndex: -1} }

	// The whole grid starts out as one free block.
	a.insertFree(start, end-start)

	logger.Debug("backing: allocator ready",
		"capacity", end-start, "classes", sizeTable.NumClasses(), "config", config.Name)
	return a, nil
}

// Allocate returns a block of at least l.Size bytes aligned to l.Align.
// The block is not zeroed.
//
// Allocate, Deallocate and Reallocate run inside the caller's critical
// section, so they neither log nor format errors; failures are the bare
// sentinels from errors.go.
func (a *Allocator) Allocate(l layout.Layout) (unsafe.Pointer, error) {
	a.stats.AllocCalls++

	align := max(l.Align, format.Granule)
	if l.Size > format.MaxSize || !format.IsPow2(align) {
		a.stats.AllocFailures++
		return nil, ErrNoSpace
	}
	size := format.BlockSize(l.Size)

	blk := a.takeFree(size, align)
	if blk == nil {
		a.stats.AllocFailures++
		return nil, ErrNoSpace
	}
	off, bsize := blk.off, blk.size
	a.putFreeBlock(blk)

	at, _ := a.placement(off, bsize, size, align)

	// Split off alignment padding in front and any remainder behind.
	if pad := at - off; pad > 0 {
		a.stats.SplitCount++
		a.insertFree(off, pad)
	}
	if rem := off + bsize - (at + size); rem > 0 {
		a.stats.SplitCount++
		a.insertFree(at+size, rem)
	}

	a.live[at] = size
	a.liveBytes += size
	a.stats.BytesAllocated += uint64(size)
	return unsafe.Add(a.base, at), nil
}

// Deallocate releases a block previously returned by Allocate or
// Reallocate. l must describe the block's current size; its alignment is not
// checked.
func (a *Allocator) Deallocate(p unsafe.Pointer, l layout.Layout) error {
	a.stats.FreeCalls++

	off, size, err := a.lookup(p, l)
	if err != nil {
		return err
	}

	delete(a.live, off)
	a.liveBytes -= size
	a.stats.BytesFreed += uint64(size)
	a.release(off, size)
	return nil
}

// Reallocate resizes a live block to newSize bytes, keeping old.Align.
// It shrinks in place, grows into a free block directly behind, or moves the
// contents to a new block and releases the old one. On error the original
// block is untouched.
func (a *Allocator) Reallocate(p unsafe.Pointer, old layout.Layout, newSize uintptr) (unsafe.Pointer, error) {
	a.stats.ReallocCalls++

	off, cur, err := a.lookup(p, old)
	if err != nil {
		return nil, err
	}
	if newSize > format.MaxSize {
		return nil, ErrNoSpace
	}
	nl := layout.Layout{Size: newSize, Align: old.Align}

	want := format.BlockSize(newSize)
	switch {
	case want == cur:
		return p, nil
	case want < cur:
		a.stats.ShrinkInPlace++
		a.live[off] = want
		a.liveBytes -= cur - want
		a.release(off+want, cur-want)
		return p, nil
	}

	next := off + cur
	if nsize, ok := a.startIdx[next]; ok && cur+nsize >= want {
		a.stats.GrowInPlace++
		a.removeFree(next, nsize)
		if rem := cur + nsize - want; rem > 0 {
			a.insertFree(off+want, rem)
		}
		a.live[off] = want
		a.liveBytes += want - cur
		return p, nil
	}

	q, err := a.Allocate(nl)
	if err != nil {
		return nil, err
	}
	a.stats.Relocations++
	format.Copy(q, p, min(old.Size, newSize))

	delete(a.live, off)
	a.liveBytes -= cur
	a.stats.BytesFreed += uint64(cur)
	a.release(off, cur)
	return q, nil
}

// Contains reports whether p points into the block grid.
func (a *Allocator) Contains(p unsafe.Pointer) bool {
	addr, base := uintptr(p), uintptr(a.base)
	return addr >= base+a.start && addr < base+a.end
}

// Capacity returns the number of bytes on the block grid.
func (a *Allocator) Capacity() uintptr { return a.end - a.start }

// InUse returns the number of bytes in live blocks.
func (a *Allocator) InUse() uintptr { return a.liveBytes }

// Available returns the number of bytes in free blocks.
func (a *Allocator) Available() uintptr { return a.freeBytes }

// BlockSize returns the recorded size of the live block at p, or 0.
func (a *Allocator) BlockSize(p unsafe.Pointer) uintptr {
	if !a.Contains(p) {
		return 0
	}
	return a.live[uintptr(p)-uintptr(a.base)]
}

// Stats returns a snapshot of counters and occupancy.
func (a *Allocator) Stats() Stats {
	s := a.stats
	s.Capacity = a.Capacity()
	s.InUse = a.liveBytes
	s.Available = a.freeBytes
	s.LiveBlocks = len(a.live)
	s.FreeBlocks = len(a.startIdx)
	for _, size := range a.startIdx {
		s.LargestFree = max(s.LargestFree, size)
	}
	return s
}

// lookup resolves p to a live block and checks it against l.
func (a *Allocator) lookup(p unsafe.Pointer, l layout.Layout) (uintptr, uintptr, error) {
	if !a.Contains(p) || uintptr(p)&format.GranuleMask != 0 {
		return 0, 0, ErrBadPointer
	}
	off := uintptr(p) - uintptr(a.base)
	size, ok := a.live[off]
	if !ok {
		return 0, 0, ErrBadFree
	}
	if want := format.BlockSize(l.Size); want != size {
		return 0, 0, ErrLayoutMismatch
	}
	return off, size, nil
}

// placement returns where a size-byte block aligned to align would start
// inside the free block [off, off+bsize), and whether it fits there.
func (a *Allocator) placement(off, bsize, size, align uintptr) (uintptr, bool) {
	addr := uintptr(a.base) + off
	aligned, ok := format.AlignUp(addr, align)
	if !ok {
		return 0, false
	}
	pad := aligned - addr
	if pad > bsize || bsize-pad < size {
		return 0, false
	}
	return off + pad, true
}

// takeFree removes and returns the best-fitting free block, or nil.
func (a *Allocator) takeFree(size, align uintptr) *freeBlock {
	for sc := a.sizeTable.classOf(size); sc < len(a.freeLists); sc++ {
		if blk := a.allocFromSizeClass(sc, size, align); blk != nil {
			return blk
		}
	}
	return a.allocFromLarge(size, align)
}

func (a *Allocator) allocFromSizeClass(sc int, size, align uintptr) *freeBlock {
	list := &a.freeLists[sc]
	if list.heap.Len() == 0 {
		return nil
	}

	// Fast path: heap[0] is the smallest block in this class.
	idx := -1
	if _, ok := a.placement(list.heap[0].off, list.heap[0].size, size, align); ok {
		idx = 0
	} else {
		// Alignment padding can make a smaller block miss while a larger one
		// fits, so scan the whole class for the smallest fit.
		for i := 1; i < list.heap.Len(); i++ {
			b := list.heap[i]
			if _, ok := a.placement(b.off, b.size, size, align); !ok {
				continue
			}
			if idx == -1 || b.size < list.heap[idx].size {
				idx = i
			}
		}
	}
	if idx == -1 {
		return nil
	}

	blk := heap.Remove(&list.heap, idx).(*freeBlock) //nolint:errcheck // heap contains only *freeBlock
	list.count--
	delete(a.byOff, blk.off)
	a.unindex(blk.off, blk.size)
	return blk
}

func (a *Allocator) allocFromLarge(size, align uintptr) *freeBlock {
	var best, bestPrev, prev *largeBlock
	for curr := a.largeFree; curr != nil; prev, curr = curr, curr.next {
		if _, ok := a.placement(curr.off, curr.size, size, align); !ok {
			continue
		}
		if best == nil || curr.size < best.size {
			best, bestPrev = curr, prev
		}
	}
	if best == nil {
		return nil
	}

	if bestPrev == nil {
		a.largeFree = best.next
	} else {
		bestPrev.next = best.next
	}
	a.unindex(best.off, best.size)

	blk := a.getFreeBlock()
	blk.off = best.off
	blk.size = best.size
	return blk
}

// release returns a block to the free lists, merging it with free
// neighbours on both sides.
func (a *Allocator) release(off, size uintptr) {
	// Forward
	if nsize, ok := a.startIdx[off+size]; ok {
		a.stats.CoalesceForward++
		a.removeFree(off+size, nsize)
		size += nsize
	}

	// Backward
	if prev, ok := a.endIdx[off]; ok {
		a.stats.CoalesceBackward++
		psize := a.startIdx[prev]
		a.removeFree(prev, psize)
		off = prev
		size += psize
	}

	a.insertFree(off, size)
}

// insertFree inserts a free block into the appropriate list.
func (a *Allocator) insertFree(off, size uintptr) {
	sc := a.sizeTable.classOf(size)

	if sc < len(a.freeLists) {
		blk := a.getFreeBlock()
		blk.off = off
		blk.size = size

		heap.Push(&a.freeLists[sc].heap, blk)
		a.freeLists[sc].count++
		a.byOff[off] = blk
	} else {
		a.largeFree = &largeBlock{off: off, size: size, next: a.largeFree}
	}

	a.startIdx[off] = size
	a.endIdx[off+size] = off
	a.freeBytes += size
}

// removeFree removes a specific free block from its list.
func (a *Allocator) removeFree(off, size uintptr) {
	sc := a.sizeTable.classOf(size)

	if sc < len(a.freeLists) {
		blk := a.byOff[off]
		if blk == nil {
			return
		}
		heap.Remove(&a.freeLists[sc].heap, blk.heapIndex)
		a.freeLists[sc].count--
		delete(a.byOff, off)
		a.unindex(off, size)
		a.putFreeBlock(blk)
		return
	}

	var prev *largeBlock
	for curr := a.largeFree; curr != nil; prev, curr = curr, curr.next {
		if curr.off != off {
			continue
		}
		if prev == nil {
			a.largeFree = curr.next
		} else {
			prev.next = curr.next
		}
		a.unindex(off, size)
		return
	}
}

// unindex drops a free block from the coalescing indexes.
func (a *Allocator) unindex(off, size uintptr) {
	delete(a.startIdx, off)
	delete(a.endIdx, off+size)
	a.freeBytes -= size
}

func (a *Allocator) getFreeBlock() *freeBlock {
	blk, ok := a.freeBlockPool.Get().(*freeBlock)
	if !ok {
		return &freeBlock{heapIndex: -1}
	}
	return blk
}

func (a *Allocator) putFreeBlock(blk *freeBlock) {
	blk.heapIndex = -1
	blk.off, blk.size = 0, 0
	a.freeBlockPool.Put(blk)
}
