// Package libc exposes the heap through a process-wide, C-shaped surface:
// malloc, free, calloc, realloc, an errno accessor and perror.
//
// All calls share one default heap.Context, and therefore one errno slot.
// The first call installs a heap built from heap.DefaultConfig unless Init
// or Install ran earlier.
package libc

import (
	"errors"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/diag"
	"github.com/joshuapare/kheap/heap/errno"
	"github.com/joshuapare/kheap/internal/logger"
)

// ErrInstalled indicates Init was called while a default context exists.
var ErrInstalled = errors.New("libc: default heap already installed")

var (
	mu    sync.Mutex // serializes installation
	cur   atomic.Pointer[heap.Context]
	owned *heap.Heap // heap created by Init, closed by Shutdown

	sink atomic.Pointer[diag.Sink]
)

// Init builds a heap from cfg and installs a context over it as the default.
func Init(cfg heap.Config) error {
	mu.Lock()
	defer mu.Unlock()
	if cur.Load() != nil {
		return ErrInstalled
	}
	return initLocked(cfg)
}

func initLocked(cfg heap.Config) error {
	h, err := heap.New(cfg)
	if err != nil {
		return err
	}
	owned = h
	cur.Store(h.NewContext())
	logger.Debug("libc: default heap installed", "capacity", h.Capacity())
	return nil
}

// Install makes ctx the default context, replacing any previous one. A heap
// created by Init is not closed; call Shutdown first for that.
func Install(ctx *heap.Context) {
	mu.Lock()
	defer mu.Unlock()
	cur.Store(ctx)
}

// Shutdown uninstalls the default context and closes the heap if Init
// created it.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()
	cur.Store(nil)
	if owned == nil {
		return nil
	}
	h := owned
	owned = nil
	return h.Close()
}

// Default returns the default context, installing one on first use.
func Default() *heap.Context {
	if c := cur.Load(); c != nil {
		return c
	}
	mu.Lock()
	defer mu.Unlock()
	if c := cur.Load(); c != nil {
		return c
	}
	if err := initLocked(heap.DefaultConfig); err != nil {
		panic(err)
	}
	return cur.Load()
}

// Malloc is Context.Malloc on the default context.
func Malloc(size uintptr) unsafe.Pointer { return Default().Malloc(size) }

// Free is Context.Free on the default context.
func Free(p unsafe.Pointer) { Default().Free(p) }

// Calloc is Context.Calloc on the default context.
func Calloc(nmemb, size uintptr) unsafe.Pointer { return Default().Calloc(nmemb, size) }

// Realloc is Context.Realloc on the default context.
func Realloc(p unsafe.Pointer, size uintptr) unsafe.Pointer { return Default().Realloc(p, size) }

// ErrnoLocation returns the address of the default context's errno slot.
func ErrnoLocation() *int32 { return Default().ErrnoLocation() }

// Errno returns the default context's errno.
func Errno() errno.Code { return Default().Errno() }

// SetSink routes Perror output. nil restores the default, which discards.
func SetSink(s diag.Sink) {
	if s == nil {
		sink.Store(nil)
		return
	}
	sink.Store(&s)
}

// Perror writes "<prefix>: <meaning> (os error <n>)" for the current errno
// to the installed sink. prefix is a NUL-terminated byte string; nil reads
// as empty.
func Perror(prefix *byte) {
	PerrorString(GoString(prefix))
}

// PerrorString is Perror for a Go string prefix.
func PerrorString(prefix string) {
	s := sink.Load()
	if s == nil {
		return
	}
	line := errno.Format(prefix, Errno())
	if err := (*s).WriteLine(line); err != nil {
		logger.Warn("libc: perror sink failed", "err", err)
	}
}

// GoString copies a NUL-terminated byte string into a Go string.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}
