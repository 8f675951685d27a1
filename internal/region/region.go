// Package region supplies the single, fixed-size memory region that backs a
// heap. On unix systems the region is an anonymous private mapping outside the
// Go heap, so the garbage collector never scans or moves it. Elsewhere it
// falls back to an ordinary byte slice.
package region

import "errors"

// ErrBadSize indicates a non-positive or unmappable region size.
var ErrBadSize = errors.New("region: size must be positive")

// Unmap releases a region returned by Map. Calling it twice is a no-op.
type Unmap func() error
