// Package errno implements the heap's "last operation status" slot.
//
// # Overview
//
// Every fallible heap primitive reports failure twice: through its return
// value (a nil pointer) and by overwriting a Code in the State of the
// execution context that made the call. The State is never cleared
// automatically and never merged; read it immediately after a suspected
// failure, since the next fallible call overwrites it.
//
// # Codes
//
//	0 Ok
//	1 Failed
//	2 Memory Corruption
//	3 CPU Exception
//	4 Process Failure
//	5 Allocation Failure
//	6 Invalid Input
//	7 Missing Feature
//
// Codes outside 0..7 have no meaning; Format renders them without one.
//
// # Faults
//
// Conditions that leave the heap in a known-inconsistent state are not
// reported through State alone. The heap sets the code and then panics with a
// *Fault carrying it.
package errno
