package heap

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap/errno"
	"github.com/joshuapare/kheap/internal/testutil"
)

// newTestHeap builds a heap over a fresh n-byte region and one context.
func newTestHeap(t *testing.T, n int) (*Heap, *Context) {
	t.Helper()
	h, err := NewFromRegion(testutil.Region(t, n), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, h.Close())
	})
	return h, h.NewContext()
}

// requireFault runs fn and checks it panics with an *errno.Fault of code.
func requireFault(t *testing.T, code errno.Code, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a fault")
		f, ok := r.(*errno.Fault)
		require.True(t, ok, "panic value %T: %v", r, r)
		require.Equal(t, code, f.Code, "fault: %v", f)
	}()
	fn()
}

// requirePanicsWith runs fn and checks it panics with an error matching target.
func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %T: %v", r, r)
		require.True(t, errors.Is(err, target), "panic %v, want %v", err, target)
	}()
	fn()
}

func fillBytes(p unsafe.Pointer, n uintptr, v byte) {
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = v
	}
}

func allBytes(p unsafe.Pointer, n uintptr, v byte) bool {
	for _, b := range unsafe.Slice((*byte)(p), n) {
		if b != v {
			return false
		}
	}
	return true
}
