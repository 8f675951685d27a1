package backing

// freeList is a size-class-specific free list using a min-heap.
type freeList struct {
	heap  freeBlockHeap // Min-heap keyed on size
	count int
}

// freeBlock represents a free block in a size class heap.
type freeBlock struct {
	off       uintptr // Offset from the region base
	size      uintptr // Block size in bytes
	heapIndex int     // Position in heap (for heap.Remove)
}

// freeBlockHeap implements heap.Interface for a min-heap keyed on block size.
// Smallest blocks are at the top, giving best-fit allocation.
type freeBlockHeap []*freeBlock

func (h *freeBlockHeap) Len() int { return len(*h) }

func (h *freeBlockHeap) Less(i, j int) bool {
	return (*h)[i].size < (*h)[j].size
}

func (h *freeBlockHeap) Swap(i, j int) {
	(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
	(*h)[i].heapIndex = i
	(*h)[j].heapIndex = j
}

func (h *freeBlockHeap) Push(x any) {
	blk := x.(*freeBlock) //nolint:errcheck // heap.Interface contract guarantees type
	blk.heapIndex = len(*h)
	*h = append(*h, blk)
}

func (h *freeBlockHeap) Pop() any {
	old := *h
	n := len(old)
	blk := old[n-1]
	blk.heapIndex = -1
	*h = old[0 : n-1]
	return blk
}

// largeBlock for blocks beyond the last size class.
type largeBlock struct {
	off  uintptr
	size uintptr
	next *largeBlock
}
