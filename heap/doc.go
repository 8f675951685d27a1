// Package heap is a dual-tier allocator over one fixed, pre-mapped region.
//
// Two facades share a single engine:
//
//   - The raw tier (Context.Malloc, Free, Calloc, Realloc) hands out untyped
//     memory in the C manner. Each block carries a one-word header holding the
//     usable size, placed immediately before the returned address, so Free
//     needs nothing but the pointer.
//   - The typed tier (MallocSafe, CallocSafe, FreeSafe, ReallocSafe and the
//     slice forms) stores no header. The layout is recomputed from the static
//     element type, or from cap() for slices, on every call.
//
// Capability adapts the raw tier to the Allocator interface that the
// containers package builds on.
//
// # Error State
//
// Every fallible operation records its outcome in the calling Context's
// errno slot before returning nil. Recoverable failures (exhaustion, zero
// sizes, nil frees) never panic. Corruption, such as a header that disagrees
// with the layout a caller hands back, panics with an *errno.Fault after the
// slot is set.
//
// # Typed Memory
//
// The region is invisible to the Go garbage collector. Types placed in it
// through the typed tier or the containers must not contain Go pointers;
// PointerFree reports whether a type qualifies and the typed functions panic
// with ErrPointerType otherwise.
//
// # Concurrency
//
// A Heap may be shared by any number of goroutines. Each goroutine should
// use its own Context so errno values do not bleed across callers. The
// backing allocator runs under a mutex; zero-fill, copies, logging and errno
// writes happen outside it.
package heap
