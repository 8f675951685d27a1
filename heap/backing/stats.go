package backing

// Stats is a snapshot of allocator counters and occupancy.
type Stats struct {
	// Counters
	AllocCalls       int    // Total Allocate() calls
	AllocFailures    int    // Allocate() calls that found no fit
	FreeCalls        int    // Total Deallocate() calls
	ReallocCalls     int    // Total Reallocate() calls
	GrowInPlace      int    // Reallocations satisfied by absorbing the next free block
	ShrinkInPlace    int    // Reallocations satisfied by splitting off the tail
	Relocations      int    // Reallocations that moved the block
	SplitCount       int    // Number of block splits
	CoalesceForward  int    // Forward coalesce operations
	CoalesceBackward int    // Backward coalesce operations
	BytesAllocated   uint64 // Cumulative block bytes handed out
	BytesFreed       uint64 // Cumulative block bytes released

	// Occupancy
	Capacity    uintptr // Bytes on the block grid
	InUse       uintptr // Bytes in live blocks
	Available   uintptr // Bytes in free blocks
	LiveBlocks  int     // Number of live blocks
	FreeBlocks  int     // Number of free blocks
	LargestFree uintptr // Size of the largest free block
}

// Utilization returns InUse as a fraction of Capacity.
func (s Stats) Utilization() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.InUse) / float64(s.Capacity)
}
