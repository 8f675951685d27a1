package heap

import "errors"

var (
	// ErrCapacity indicates the heap could not satisfy an Allocator request.
	ErrCapacity = errors.New("heap: allocation failed")

	// ErrUnsupportedAlign indicates a layout alignment above the header width,
	// which the raw tier cannot honor.
	ErrUnsupportedAlign = errors.New("heap: alignment exceeds header width")

	// ErrPointerType indicates a type containing Go pointers was placed in the
	// region.
	ErrPointerType = errors.New("heap: type contains Go pointers")

	// ErrZeroSized indicates a zero-sized type was passed to the typed tier.
	ErrZeroSized = errors.New("heap: zero-sized type")

	// ErrClosed indicates use of a heap after Close.
	ErrClosed = errors.New("heap: closed")

	// ErrBadHeader indicates a raw pointer whose header cannot belong to a
	// live block.
	ErrBadHeader = errors.New("heap: bad block header")
)
