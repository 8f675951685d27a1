// Package testutil provides memory regions for allocator tests.
package testutil

import (
	"testing"
	"unsafe"
)

// GuardByte fills the padding around a guarded region.
const GuardByte = 0xAA

// Region returns a word-aligned byte region of n bytes.
//
// The backing array is a []uintptr so the first byte sits on a word
// boundary, which is what the heap expects of a mapped region.
func Region(t testing.TB, n int) []byte {
	t.Helper()
	if n <= 0 {
		t.Fatalf("testutil.Region: bad size %d", n)
	}
	const w = int(unsafe.Sizeof(uintptr(0)))
	words := make([]uintptr, (n+w-1)/w)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n)
}

// Guarded is an n-byte region surrounded by pad bytes of GuardByte on
// each side.
type Guarded struct {
	buf []byte
	pad int
	n   int
}

// NewGuarded returns a guarded region. pad must be a multiple of the word
// size so the inner region stays aligned.
//
// Example:
//
//	g := testutil.NewGuarded(t, 4096, 64)
//	h, _ := heap.NewFromRegion(g.Inner(), nil)
//	...
//	require.True(t, g.Intact())
func NewGuarded(t testing.TB, n, pad int) *Guarded {
	t.Helper()
	if pad%int(unsafe.Sizeof(uintptr(0))) != 0 {
		t.Fatalf("testutil.NewGuarded: pad %d is not word aligned", pad)
	}
	buf := Region(t, n+2*pad)
	for i := range buf {
		buf[i] = GuardByte
	}
	return &Guarded{buf: buf, pad: pad, n: n}
}

// Inner returns the usable region between the guards.
func (g *Guarded) Inner() []byte { return g.buf[g.pad : g.pad+g.n] }

// Intact reports whether both guards still hold GuardByte.
func (g *Guarded) Intact() bool {
	for _, b := range g.buf[:g.pad] {
		if b != GuardByte {
			return false
		}
	}
	for _, b := range g.buf[g.pad+g.n:] {
		if b != GuardByte {
			return false
		}
	}
	return true
}
