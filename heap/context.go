package heap

import (
	"github.com/joshuapare/kheap/heap/errno"
	"github.com/joshuapare/kheap/internal/logger"
)

// Context is one execution context's view of a heap: the shared engine plus
// a private errno slot. A Context must not be shared between goroutines that
// care about errno.
type Context struct {
	heap  *Heap
	errno errno.State
}

// Heap returns the heap this context allocates from.
func (c *Context) Heap() *Heap { return c.heap }

// Errno returns the status of the last failed operation, or Ok.
func (c *Context) Errno() errno.Code { return c.errno.Get() }

// SetErrno overwrites the errno slot.
func (c *Context) SetErrno(code errno.Code) { c.errno.Set(code) }

// ErrnoLocation returns the address of the errno slot.
func (c *Context) ErrnoLocation() *int32 { return c.errno.Location() }

// fail records a recoverable failure.
func (c *Context) fail(op string, code errno.Code, args ...any) {
	c.errno.Set(code)
	logger.Debug("heap: "+op+" failed", append([]any{"errno", code.String()}, args...)...)
}

// fault records an unrecoverable failure and panics with an *errno.Fault.
func (c *Context) fault(op string, code errno.Code, err error) {
	c.errno.Set(code)
	f := &errno.Fault{Code: code, Op: op, Msg: err.Error()}
	logger.Error("heap: fault", "op", op, "errno", code.String(), "err", err)
	panic(f)
}
