// Package containers provides collections that store their elements in a
// heap.Allocator rather than the Go heap: Vec, Deque, List, Box, Rc and
// PriorityQueue.
//
// Element types must be pointer-free and non-zero sized; constructors panic
// otherwise (see heap.PointerFree). None of the containers are safe for
// concurrent use. Every container must be released with Free (or Drop for
// Rc) once it is no longer needed: the memory is invisible to the garbage
// collector and is never reclaimed automatically.
package containers
