package format

import "unsafe"

// Native word access for headers stored inside the heap region.
//
// Headers never leave the machine, so they use native byte order through a
// direct *uintptr load/store rather than an encoding/binary round trip.

// ReadWord loads the machine word at p.
func ReadWord(p unsafe.Pointer) uintptr {
	return *(*uintptr)(p)
}

// PutWord stores v as a machine word at p.
func PutWord(p unsafe.Pointer, v uintptr) {
	*(*uintptr)(p) = v
}

// Bytes views n bytes starting at p as a byte slice. n == 0 yields nil.
func Bytes(p unsafe.Pointer, n uintptr) []byte {
	if n == 0 || p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// Zero clears n bytes starting at p.
func Zero(p unsafe.Pointer, n uintptr) {
	clear(Bytes(p, n))
}

// Copy copies n bytes from src to dst. The ranges may overlap.
func Copy(dst, src unsafe.Pointer, n uintptr) {
	copy(Bytes(dst, n), Bytes(src, n))
}
