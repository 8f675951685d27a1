// Package backing provides the block allocator underneath the heap: it hands
// out layout-described regions of one fixed, pre-mapped memory region.
//
// # Overview
//
// The allocator uses a segregated free-list design. Free blocks are grouped by
// size class; each class is a min-heap keyed on block size, so the smallest
// fitting block in a class is found first. Blocks larger than the last class
// live on a single large list. All bookkeeping lives in Go memory next to the
// region, never inside it, so the region holds nothing but caller data.
//
// # Allocator Interface
//
//   - Allocate(layout): best-fit a block of at least layout.Size bytes at
//     layout.Align, splitting off alignment padding and any tail remainder
//   - Deallocate(ptr, layout): release a block; the layout must describe the
//     same block size that Allocate recorded
//   - Reallocate(ptr, old, newSize): shrink in place, grow into a free
//     neighbour, or relocate
//
// # Block Grid
//
// Blocks start on and are sized in multiples of format.Granule (one machine
// word). A request for n bytes occupies format.BlockSize(n) bytes. Blocks
// always tile the region exactly: every byte belongs to one live block or one
// free block, and no two free blocks are adjacent after any call returns.
// Verify checks all of this.
//
// # Exhaustion
//
// The region never grows. When no free block fits, Allocate returns
// ErrNoSpace immediately; there is no retry.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. The heap package serializes access
// with its own critical section.
package backing
