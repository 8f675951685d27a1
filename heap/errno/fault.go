package errno

import "fmt"

// Fault is the panic payload for unrecoverable heap conditions. The code has
// already been stored in the caller's State when a Fault is raised.
type Fault struct {
	Code Code
	Op   string
	Msg  string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s: %s", f.Op, f.Code.String(), f.Msg)
}

// Unwrap exposes the code so errors.Is(fault, errno.MemoryCorruption) holds.
func (f *Fault) Unwrap() error {
	return f.Code
}
