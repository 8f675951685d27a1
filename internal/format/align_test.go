package format

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	tests := []struct {
		n, align uintptr
		want     uintptr
		ok       bool
	}{
		{0, 8, 0, true},
		{1, 8, 8, true},
		{8, 8, 8, true},
		{9, 8, 16, true},
		{17, 16, 32, true},
		{4097, 4096, 8192, true},
		{^uintptr(0), 8, 0, false},
		{^uintptr(0) - 6, 8, 0, false},
	}
	for _, tt := range tests {
		got, ok := AlignUp(tt.n, tt.align)
		assert.Equal(t, tt.ok, ok, "AlignUp(%d, %d) ok", tt.n, tt.align)
		if tt.ok {
			assert.Equal(t, tt.want, got, "AlignUp(%d, %d)", tt.n, tt.align)
		}
	}
}

func TestAlignDownAndPow2(t *testing.T) {
	assert.Equal(t, uintptr(8), AlignDown(15, 8))
	assert.Equal(t, uintptr(16), AlignDown(16, 8))
	assert.True(t, IsPow2(1))
	assert.True(t, IsPow2(64))
	assert.False(t, IsPow2(0))
	assert.False(t, IsPow2(24))
}

func TestBlockSize(t *testing.T) {
	assert.Equal(t, Granule, BlockSize(0))
	assert.Equal(t, Granule, BlockSize(1))
	assert.Equal(t, Granule, BlockSize(Granule))
	assert.Equal(t, 2*Granule, BlockSize(Granule+1))
}

func TestWordRoundTrip(t *testing.T) {
	buf := make([]uintptr, 2)
	p := unsafe.Pointer(&buf[0])

	PutWord(p, 0xdeadbeef)
	require.Equal(t, uintptr(0xdeadbeef), ReadWord(p))
	require.Equal(t, uintptr(0xdeadbeef), buf[0])
}

func TestZeroAndCopy(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dst := make([]byte, 8)

	Copy(unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0]), 5)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 0, 0, 0}, dst)

	Zero(unsafe.Pointer(&src[0]), 4)
	require.Equal(t, []byte{0, 0, 0, 0, 5, 6, 7, 8}, src)

	require.Nil(t, Bytes(nil, 4))
	require.Nil(t, Bytes(unsafe.Pointer(&src[0]), 0))
}

func TestMulAddSize(t *testing.T) {
	got, ok := MulSize(16, 4)
	require.True(t, ok)
	assert.Equal(t, uintptr(64), got)

	_, ok = MulSize(MaxSize, 2)
	assert.False(t, ok)
	_, ok = MulSize(^uintptr(0), ^uintptr(0))
	assert.False(t, ok)

	got, ok = MulSize(0, ^uintptr(0))
	require.True(t, ok)
	assert.Zero(t, got)

	got, ok = AddSize(MaxSize-8, 8)
	require.True(t, ok)
	assert.Equal(t, MaxSize, got)

	_, ok = AddSize(MaxSize, 1)
	assert.False(t, ok)
	_, ok = AddSize(^uintptr(0), 2)
	assert.False(t, ok)
}
