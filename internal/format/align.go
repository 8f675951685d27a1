package format

import "math/bits"

// Alignment utilities for heap blocks and layouts.

// IsPow2 reports whether n is a non-zero power of two.
func IsPow2(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// AlignUp returns n rounded up to the next multiple of align. align must be a
// power of two. The second result is false when the rounding wraps past the
// top of the address space.
//
// Example:
//
//	AlignUp(1, 8)  = 8, true
//	AlignUp(8, 8)  = 8, true
//	AlignUp(9, 16) = 16, true
func AlignUp(n, align uintptr) (uintptr, bool) {
	mask := align - 1
	r := (n + mask) &^ mask
	return r, r >= n
}

// AlignDown returns n rounded down to a multiple of align (a power of two).
func AlignDown(n, align uintptr) uintptr {
	return n &^ (align - 1)
}

// AlignGranule returns n aligned up to the next Granule boundary. Callers
// guarantee n <= MaxSize, so the result cannot wrap.
//
// Example (64-bit):
//
//	AlignGranule(1)  = 8
//	AlignGranule(8)  = 8
//	AlignGranule(9)  = 16
func AlignGranule(n uintptr) uintptr {
	return (n + GranuleMask) &^ GranuleMask
}

// BlockSize returns the backing block size for a request of n usable bytes:
// at least one granule, rounded up to the granule.
func BlockSize(n uintptr) uintptr {
	if n == 0 {
		return Granule
	}
	return AlignGranule(n)
}

// MulSize returns a*b and whether the product stays within MaxSize.
func MulSize(a, b uintptr) (uintptr, bool) {
	hi, lo := bits.Mul(uint(a), uint(b))
	if hi != 0 || uintptr(lo) > MaxSize {
		return 0, false
	}
	return uintptr(lo), true
}

// AddSize returns a+b and whether the sum stays within MaxSize.
func AddSize(a, b uintptr) (uintptr, bool) {
	s := a + b
	if s < a || s > MaxSize {
		return 0, false
	}
	return s, true
}
