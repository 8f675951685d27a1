package heap

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/kheap/heap/backing"
	"github.com/joshuapare/kheap/heap/layout"
	"github.com/joshuapare/kheap/internal/logger"
	"github.com/joshuapare/kheap/internal/region"
)

// Config describes a heap built by New.
type Config struct {
	// Size of the region in bytes. Default: 100 KiB.
	Size int

	// Free-list size classes. The zero value selects backing.DefaultConfig.
	Classes backing.SizeClassConfig
}

// DefaultConfig matches the kernel heap: 100 KiB with balanced size classes.
var DefaultConfig = Config{
	Size:    100 << 10,
	Classes: backing.DefaultConfig,
}

// Heap owns one region and the backing allocator that carves it up.
type Heap struct {
	mu    sync.Mutex
	alloc *backing.Allocator // nil once closed

	region []byte
	unmap  region.Unmap
}

// New maps a fresh region of cfg.Size bytes and builds a heap over it.
func New(cfg Config) (*Heap, error) {
	if cfg.Size == 0 {
		cfg.Size = DefaultConfig.Size
	}
	mem, unmap, err := region.Map(cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("heap: map region: %w", err)
	}
	h, err := NewFromRegion(mem, &cfg.Classes)
	if err != nil {
		_ = unmap()
		return nil, err
	}
	h.unmap = unmap
	return h, nil
}

// NewFromRegion builds a heap over caller-supplied memory. The memory must
// stay valid and unmoved until the heap is closed; for a Go-allocated slice
// that means keeping it reachable, which the heap does for you. A nil or zero
// classes value selects backing.DefaultConfig.
func NewFromRegion(mem []byte, classes *backing.SizeClassConfig) (*Heap, error) {
	if classes == nil || *classes == (backing.SizeClassConfig{}) {
		classes = &backing.DefaultConfig
	}
	alloc, err := backing.New(mem, classes)
	if err != nil {
		return nil, fmt.Errorf("heap: %w", err)
	}
	logger.Info("heap: ready", "capacity", alloc.Capacity(), "classes", classes.Name)
	return &Heap{alloc: alloc, region: mem}, nil
}

// Close releases the region if the heap mapped it. Every pointer handed out
// becomes invalid. Close is idempotent.
func (h *Heap) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.alloc == nil {
		return nil
	}
	h.alloc = nil
	h.region = nil
	if h.unmap != nil {
		return h.unmap()
	}
	return nil
}

// NewContext returns a fresh execution context with its errno set to Ok.
func (h *Heap) NewContext() *Context {
	return &Context{heap: h}
}

// Contains reports whether p points into this heap's block grid.
func (h *Heap) Contains(p unsafe.Pointer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alloc != nil && h.alloc.Contains(p)
}

// Capacity returns the number of allocatable bytes, headers included.
func (h *Heap) Capacity() uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.alloc == nil {
		return 0
	}
	return h.alloc.Capacity()
}

// Stats returns a snapshot of the backing allocator's statistics.
func (h *Heap) Stats() backing.Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.alloc == nil {
		return backing.Stats{}
	}
	return h.alloc.Stats()
}

// Verify checks the backing allocator's invariants.
func (h *Heap) Verify() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.alloc == nil {
		return ErrClosed
	}
	return h.alloc.Verify()
}

// Engine entry points. Each holds the lock only around bookkeeping and
// header access; errors are wrapped and traces written after unlocking.

func (h *Heap) allocRaw(size uintptr) (unsafe.Pointer, error) {
	l, ok := headerLayout(size)
	if !ok {
		return nil, layout.ErrOverflow
	}

	h.mu.Lock()
	var p unsafe.Pointer
	base, err := h.allocLocked(l)
	if err == nil {
		p = stamp(base, size).user()
	}
	h.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, l)
	}
	logger.Trace("heap: block", "op", "alloc", "base", base, "layout", l)
	return p, nil
}

func (h *Heap) freeRaw(p unsafe.Pointer) error {
	h.mu.Lock()
	hd, err := h.handleOf(p)
	if err == nil {
		err = h.alloc.Deallocate(hd.base, hd.layout())
	}
	h.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %p", err, p)
	}
	logger.Trace("heap: block", "op", "free", "base", hd.base, "size", hd.size)
	return nil
}

func (h *Heap) usableSize(p unsafe.Pointer) (uintptr, error) {
	h.mu.Lock()
	hd, err := h.handleOf(p)
	h.mu.Unlock()

	if err != nil {
		return 0, fmt.Errorf("%w: %p", err, p)
	}
	return hd.size, nil
}

// handleOf validates and reads the header in front of p. Caller holds mu.
// Errors are bare sentinels.
func (h *Heap) handleOf(p unsafe.Pointer) (handle, error) {
	if h.alloc == nil {
		return handle{}, ErrClosed
	}
	base := headerOf(p)
	if !h.alloc.Contains(base) || !h.alloc.Contains(p) {
		return handle{}, ErrBadHeader
	}
	hd := readHandle(base)
	if !hd.valid() || h.alloc.BlockSize(base) == 0 {
		return handle{}, ErrBadHeader
	}
	return hd, nil
}

// allocLocked allocates l from the backing allocator. Caller holds mu.
func (h *Heap) allocLocked(l layout.Layout) (unsafe.Pointer, error) {
	if h.alloc == nil {
		return nil, ErrClosed
	}
	return h.alloc.Allocate(l)
}

func (h *Heap) allocate(l layout.Layout) (unsafe.Pointer, error) {
	h.mu.Lock()
	p, err := h.allocLocked(l)
	h.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, l)
	}
	logger.Trace("heap: block", "op", "alloc", "base", p, "layout", l)
	return p, nil
}

func (h *Heap) deallocate(p unsafe.Pointer, l layout.Layout) error {
	h.mu.Lock()
	err := ErrClosed
	if h.alloc != nil {
		err = h.alloc.Deallocate(p, l)
	}
	h.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %p %s", err, p, l)
	}
	logger.Trace("heap: block", "op", "free", "base", p, "layout", l)
	return nil
}

func (h *Heap) reallocate(p unsafe.Pointer, old layout.Layout, newSize uintptr) (unsafe.Pointer, error) {
	h.mu.Lock()
	var (
		q   unsafe.Pointer
		err = ErrClosed
	)
	if h.alloc != nil {
		q, err = h.alloc.Reallocate(p, old, newSize)
	}
	h.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("%w: %p %s -> %d bytes", err, p, old, newSize)
	}
	logger.Trace("heap: block", "op", "realloc", "from", p, "to", q, "size", newSize)
	return q, nil
}
