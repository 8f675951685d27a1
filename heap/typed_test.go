package heap

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap/errno"
)

type point struct {
	X, Y int64
}

type frame struct {
	ID    uint32
	Flags uint16
	Regs  [4]uint64
	Pos   point
}

func TestMallocSafeVal_RoundTrip(t *testing.T) {
	h, c := newTestHeap(t, 1024)

	p := MallocSafeVal(c, point{X: 3, Y: -7})
	require.NotNil(t, p)
	assert.True(t, h.Contains(unsafe.Pointer(p)))
	assert.Equal(t, point{X: 3, Y: -7}, *p)
	assert.Zero(t, uintptr(unsafe.Pointer(p))%unsafe.Alignof(*p))

	f := MallocSafeVal(c, frame{ID: 9, Regs: [4]uint64{1, 2, 3, 4}})
	require.NotNil(t, f)
	assert.Equal(t, uint64(3), f.Regs[2])

	FreeSafe(c, p)
	FreeSafe(c, f)
	assert.Zero(t, h.Stats().InUse)
	assert.Equal(t, errno.Ok, c.Errno())
}

func TestMallocSafe_Exhaustion(t *testing.T) {
	_, c := newTestHeap(t, 64)

	var got []*[16]uint8
	for {
		p := MallocSafe[[16]uint8](c)
		if p == nil {
			break
		}
		got = append(got, p)
	}
	assert.Len(t, got, 4)
	assert.Equal(t, errno.AllocationFailure, c.Errno())
}

func TestMallocSafe_RejectsPointerTypes(t *testing.T) {
	_, c := newTestHeap(t, 1024)

	requirePanicsWith(t, ErrPointerType, func() { MallocSafe[*int](c) })
	requirePanicsWith(t, ErrPointerType, func() { MallocSafe[string](c) })
	requirePanicsWith(t, ErrPointerType, func() { MallocSafe[struct{ B []byte }](c) })
	requirePanicsWith(t, ErrPointerType, func() { CallocSafe[map[int]int](c, 2) })
}

func TestMallocSafe_RejectsZeroSized(t *testing.T) {
	_, c := newTestHeap(t, 1024)

	requirePanicsWith(t, ErrZeroSized, func() { MallocSafe[struct{}](c) })
	requirePanicsWith(t, ErrZeroSized, func() { MallocSafe[[0]int](c) })
}

func TestFreeSafe_Nil(t *testing.T) {
	_, c := newTestHeap(t, 1024)

	require.NotPanics(t, func() { FreeSafe[point](c, nil) })
	assert.Equal(t, errno.AllocationFailure, c.Errno())
}

func TestFreeSafe_DoubleFreeIsFatal(t *testing.T) {
	_, c := newTestHeap(t, 1024)

	p := MallocSafe[point](c)
	require.NotNil(t, p)
	FreeSafe(c, p)
	requireFault(t, errno.MemoryCorruption, func() { FreeSafe(c, p) })
}

func TestCallocSafe(t *testing.T) {
	h, c := newTestHeap(t, 4096)

	// Dirty memory first so zeroing is observable.
	junk := CallocSafe[uint64](c, 64)
	for i := range junk {
		junk[i] = math.MaxUint64
	}
	FreeSliceSafe(c, junk)

	s := CallocSafe[uint64](c, 64)
	require.NotNil(t, s)
	assert.Len(t, s, 64)
	assert.Equal(t, 64, cap(s))
	for _, v := range s {
		require.Zero(t, v)
	}
	FreeSliceSafe(c, s)
	assert.Zero(t, h.Stats().InUse)
}

func TestCallocSafe_Edges(t *testing.T) {
	_, c := newTestHeap(t, 1024)

	assert.Nil(t, CallocSafe[uint32](c, 0))
	assert.Equal(t, errno.Ok, c.Errno(), "zero count is not an error")

	assert.Nil(t, CallocSafe[uint32](c, -1))
	assert.Equal(t, errno.InvalidInput, c.Errno())

	assert.Nil(t, CallocSafe[uint32](c, 1<<20))
	assert.Equal(t, errno.AllocationFailure, c.Errno(), "exhaustion returns nil")

	requireFault(t, errno.AllocationFailure, func() { CallocSafe[uint64](c, math.MaxInt) })
}

func TestFreeSliceSafe_Nil(t *testing.T) {
	_, c := newTestHeap(t, 1024)

	FreeSliceSafe[uint8](c, nil)
	assert.Equal(t, errno.AllocationFailure, c.Errno())
}

func TestReallocSafe(t *testing.T) {
	_, c := newTestHeap(t, 1024)

	p := MallocSafeVal(c, point{X: 1, Y: 2})
	require.NotNil(t, p)

	q := ReallocSafe(c, p)
	assert.Equal(t, p, q, "same-size reallocation stays in place")
	assert.Equal(t, point{X: 1, Y: 2}, *q)

	requireFault(t, errno.AllocationFailure, func() { ReallocSafe[point](c, nil) })
}

func TestReallocSliceSafe(t *testing.T) {
	h, c := newTestHeap(t, 4096)

	s := ReallocSliceSafe[uint32](c, nil, 4)
	require.Len(t, s, 4)
	for i := range s {
		s[i] = uint32(i + 1)
	}

	s = ReallocSliceSafe(c, s, 16)
	require.Len(t, s, 16)
	assert.Equal(t, []uint32{1, 2, 3, 4}, s[:4])
	for _, v := range s[4:] {
		require.Zero(t, v, "new elements are zeroed")
	}

	s = ReallocSliceSafe(c, s, 2)
	require.Len(t, s, 2)
	assert.Equal(t, []uint32{1, 2}, s)

	same := ReallocSliceSafe(c, s, -3)
	assert.Equal(t, errno.InvalidInput, c.Errno())
	assert.Equal(t, s, same)

	assert.Nil(t, ReallocSliceSafe(c, s, 0))
	assert.Zero(t, h.Stats().InUse)
	require.NoError(t, h.Verify())
}

func TestMallocLike(t *testing.T) {
	h, c := newTestHeap(t, 1024)

	src := []uint16{1, 2, 3, 4, 5}
	p := MallocLike(c, src)
	require.NotNil(t, p)
	assert.Equal(t, uintptr(10), c.UsableSize(p))
	c.Free(p)

	requireFault(t, errno.AllocationFailure, func() { MallocLike(c, []uint16{}) })
	requireFault(t, errno.AllocationFailure, func() { MallocLike(c, make([]uint64, 1024)) })
	assert.Zero(t, h.Stats().InUse)
}

func TestPointerFree(t *testing.T) {
	assert.True(t, PointerFree[int]())
	assert.True(t, PointerFree[point]())
	assert.True(t, PointerFree[frame]())
	assert.True(t, PointerFree[[0]*int]())
	assert.True(t, PointerFree[complex128]())

	assert.False(t, PointerFree[*point]())
	assert.False(t, PointerFree[unsafe.Pointer]())
	assert.False(t, PointerFree[string]())
	assert.False(t, PointerFree[[]int]())
	assert.False(t, PointerFree[any]())
	assert.False(t, PointerFree[func()]())
	assert.False(t, PointerFree[chan int]())
	assert.False(t, PointerFree[struct {
		A int
		B [2]*int
	}]())

	// Cached answers agree.
	assert.True(t, PointerFree[point]())
	assert.False(t, PointerFree[string]())
}
