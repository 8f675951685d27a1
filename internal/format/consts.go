// Package format houses the low-level word and alignment primitives shared by
// the heap packages. Everything here is pure arithmetic on addresses and
// sizes; nothing allocates.
package format

import (
	"math"
	"unsafe"
)

const (
	// WordSize is the width of a machine word on the target, in bytes.
	WordSize = unsafe.Sizeof(uintptr(0))

	// HeaderWidth is the size of the raw allocation header that precedes every
	// pointer handed out by the raw heap. The header holds the usable size.
	HeaderWidth = WordSize

	// Granule is the block granularity of the backing allocator. Every block
	// offset and block size is a multiple of it.
	Granule = WordSize

	// GranuleMask is the bitmask used for aligning to Granule (Granule - 1).
	GranuleMask = Granule - 1

	// MaxSize is the largest size a layout may describe once rounded up to its
	// alignment. Mirrors the signed address-space limit.
	MaxSize = uintptr(math.MaxInt)
)
