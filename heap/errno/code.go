package errno

import "strconv"

// Code is a heap status code.
type Code int32

const (
	Ok                Code = 0
	Failed            Code = 1
	MemoryCorruption  Code = 2
	CPUException      Code = 3
	ProcessFailure    Code = 4
	AllocationFailure Code = 5
	InvalidInput      Code = 6
	MissingFeature    Code = 7
)

var meanings = [...]string{
	Ok:                "Ok",
	Failed:            "Failed",
	MemoryCorruption:  "Memory Corruption",
	CPUException:      "CPU Exception",
	ProcessFailure:    "Process Failure",
	AllocationFailure: "Allocation Failure",
	InvalidInput:      "Invalid Input",
	MissingFeature:    "Missing Feature",
}

// Meaning returns the fixed human-readable meaning of c. The second result is
// false for codes outside the known table.
func (c Code) Meaning() (string, bool) {
	if c < 0 || int(c) >= len(meanings) {
		return "", false
	}
	return meanings[c], true
}

// String returns the meaning, or "Code(n)" for unknown codes.
func (c Code) String() string {
	if m, ok := c.Meaning(); ok {
		return m
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// Error lets a code travel as a Go error and be matched with errors.Is.
// fmt prefers Error over String, so %v and %s print "errno: <meaning>";
// call String for the bare meaning.
func (c Code) Error() string {
	return "errno: " + c.String()
}
