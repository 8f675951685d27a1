package backing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap/layout"
	"github.com/joshuapare/kheap/internal/testutil"
)

// newTestAllocator builds an allocator over a fresh region.
func newTestAllocator(t *testing.T, n int, config *SizeClassConfig) *Allocator {
	t.Helper()
	a, err := New(testutil.Region(t, n), config)
	require.NoError(t, err)
	require.NoError(t, a.Verify())
	return a
}

// mustLayout builds a layout or fails the test.
func mustLayout(t *testing.T, size, align uintptr) layout.Layout {
	t.Helper()
	l, err := layout.New(size, align)
	require.NoError(t, err)
	return l
}
