package backing

import "errors"

var (
	// ErrNoSpace indicates that no free block large enough was found.
	// The region never grows, so this is terminal for the request.
	ErrNoSpace = errors.New("backing: no free block large enough")

	// ErrEmptyRegion indicates a region too small to hold a single block.
	ErrEmptyRegion = errors.New("backing: region too small")

	// ErrBadPointer indicates a pointer outside the region or off the block grid.
	ErrBadPointer = errors.New("backing: pointer not in region")

	// ErrBadFree indicates a release of a block that is not currently allocated
	// (double free, or a pointer into the middle of a block).
	ErrBadFree = errors.New("backing: block not allocated")

	// ErrLayoutMismatch indicates a release whose layout disagrees with the
	// block recorded at allocation time.
	ErrLayoutMismatch = errors.New("backing: layout does not match allocation")

	// ErrCorrupt indicates a failed invariant check.
	ErrCorrupt = errors.New("backing: bookkeeping corrupt")
)
