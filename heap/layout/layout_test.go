package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/internal/format"
)

type pair struct {
	A uint64
	B uint16
}

func TestNew(t *testing.T) {
	l, err := New(13, 8)
	require.NoError(t, err)
	assert.Equal(t, uintptr(13), l.Size)
	assert.Equal(t, uintptr(16), l.Padded())

	_, err = New(8, 3)
	require.ErrorIs(t, err, ErrBadAlign)

	_, err = New(8, 0)
	require.ErrorIs(t, err, ErrBadAlign)

	_, err = New(format.MaxSize, 8)
	require.ErrorIs(t, err, ErrOverflow)

	_, err = New(^uintptr(0), 1)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestOf(t *testing.T) {
	l := Of[pair]()
	assert.Equal(t, uintptr(16), l.Size)
	assert.Equal(t, uintptr(8), l.Align)

	b := Of[byte]()
	assert.Equal(t, uintptr(1), b.Size)
	assert.Equal(t, uintptr(1), b.Align)
}

func TestArray(t *testing.T) {
	l, err := Array[uint32](10)
	require.NoError(t, err)
	assert.Equal(t, uintptr(40), l.Size)
	assert.Equal(t, uintptr(4), l.Align)

	l, err = Array[uint32](0)
	require.NoError(t, err)
	assert.Zero(t, l.Size)

	_, err = Array[uint64](format.MaxSize / 4)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestString(t *testing.T) {
	assert.Equal(t, "Layout{size: 24, align: 8}", Layout{Size: 24, Align: 8}.String())
}
