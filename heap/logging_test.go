package heap

import (
	"log/slog"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap/backing"
	"github.com/joshuapare/kheap/heap/errno"
	"github.com/joshuapare/kheap/heap/layout"
	"github.com/joshuapare/kheap/internal/logger"
)

// lockCheckWriter counts log records written while h.mu is held.
type lockCheckWriter struct {
	h      *Heap
	writes atomic.Int32
	locked atomic.Int32
}

func (w *lockCheckWriter) Write(p []byte) (int, error) {
	w.writes.Add(1)
	if w.h.mu.TryLock() {
		w.h.mu.Unlock()
	} else {
		w.locked.Add(1)
	}
	return len(p), nil
}

// enableTraceLogging routes debug and trace records to w for the rest of
// the test.
func enableTraceLogging(t *testing.T, w *lockCheckWriter) {
	t.Helper()
	prevL, prevTrace := logger.L, logger.AllocTrace
	t.Cleanup(func() {
		logger.L, logger.AllocTrace = prevL, prevTrace
	})
	logger.Init(logger.Options{Enabled: true, Writer: w, Level: slog.LevelDebug})
	logger.AllocTrace = true
}

func TestLogging_NeverUnderHeapLock(t *testing.T) {
	h, c := newTestHeap(t, 8192)
	w := &lockCheckWriter{h: h}
	enableTraceLogging(t, w)

	// Raw tier, success and failure
	p := c.Malloc(64)
	require.NotNil(t, p)
	assert.Nil(t, c.Malloc(1<<20))
	q := c.Realloc(p, 200)
	require.NotNil(t, q)
	z := c.Calloc(4, 8)
	require.NotNil(t, z)
	c.Free(z)
	c.Free(q)
	c.Free(nil)

	// Typed tier
	v := MallocSafeVal(c, uint64(7))
	require.NotNil(t, v)
	v = ReallocSafe(c, v)
	FreeSafe(c, v)
	s := CallocSafe[uint32](c, 16)
	s = ReallocSliceSafe(c, s, 64)
	FreeSliceSafe(c, s)

	// Capability and a fault
	a := c.Capability()
	l, err := layout.New(24, 8)
	require.NoError(t, err)
	b, err := a.Allocate(l)
	require.NoError(t, err)
	a.Deallocate(unsafe.Pointer(unsafe.SliceData(b)), l)

	stray := c.Malloc(16)
	c.Free(stray)
	requireFault(t, errno.MemoryCorruption, func() { c.Free(stray) })

	assert.Positive(t, w.writes.Load(), "expected trace output")
	assert.Zero(t, w.locked.Load(), "log records written while the heap lock was held")
}

func TestEngineErrors_WrapSentinels(t *testing.T) {
	h, c := newTestHeap(t, 1024)

	_, err := h.allocRaw(1 << 20)
	require.ErrorIs(t, err, backing.ErrNoSpace)
	assert.ErrorContains(t, err, "Layout{size: ")

	p := c.Malloc(16)
	c.Free(p)
	err = h.freeRaw(p)
	require.ErrorIs(t, err, ErrBadHeader)
}
