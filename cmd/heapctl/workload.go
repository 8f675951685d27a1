package main

import (
	"fmt"
	"math/rand"
	"unsafe"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/backing"
	"github.com/joshuapare/kheap/heap/errno"
	"github.com/joshuapare/kheap/internal/format"
)

// workloadOptions controls a synthetic raw-tier workload.
type workloadOptions struct {
	Ops         int
	Seed        int64
	MaxSize     int
	VerifyEvery int // 0 disables intermediate checks
}

// workloadResult summarizes a run. Stats is captured before the final
// cleanup, while the last live set is still allocated.
type workloadResult struct {
	Ops      int           `json:"ops"`
	Mallocs  int           `json:"mallocs"`
	Callocs  int           `json:"callocs"`
	Reallocs int           `json:"reallocs"`
	Frees    int           `json:"frees"`
	Failures int           `json:"failures"`
	Live     int           `json:"live"`
	Stats    backing.Stats `json:"stats"`
}

type liveAlloc struct {
	p    unsafe.Pointer
	n    uintptr
	fill byte
}

// runWorkload drives c through random malloc, calloc, realloc and free
// calls. Every live block carries a fill byte that is checked before it is
// touched again, so any overlap between blocks surfaces as an error.
func runWorkload(c *heap.Context, opts workloadOptions) (workloadResult, error) {
	if opts.MaxSize <= 0 {
		return workloadResult{}, fmt.Errorf("max size must be positive, got %d", opts.MaxSize)
	}

	h := c.Heap()
	rng := rand.New(rand.NewSource(opts.Seed))
	var res workloadResult
	var live []liveAlloc

	check := func(a liveAlloc, step int) error {
		for i, b := range format.Bytes(a.p, a.n) {
			if b != a.fill {
				return fmt.Errorf("step %d: block %p byte %d = %#x, want %#x", step, a.p, i, b, a.fill)
			}
		}
		return nil
	}
	fill := func(a liveAlloc) {
		b := format.Bytes(a.p, a.n)
		for i := range b {
			b[i] = a.fill
		}
	}

	for step := 0; step < opts.Ops; step++ {
		res.Ops++
		size := uintptr(1 + rng.Intn(opts.MaxSize))
		tag := byte(step)

		switch op := rng.Intn(4); {
		case op == 0 || len(live) == 0:
			res.Mallocs++
			p := c.Malloc(size)
			if p == nil {
				res.Failures++
				break
			}
			a := liveAlloc{p: p, n: size, fill: tag}
			fill(a)
			live = append(live, a)

		case op == 1:
			res.Callocs++
			p := c.Calloc(size, 1)
			if p == nil {
				res.Failures++
				break
			}
			a := liveAlloc{p: p, n: size, fill: 0}
			if err := check(a, step); err != nil {
				return res, fmt.Errorf("calloc not zeroed: %w", err)
			}
			live = append(live, a)

		case op == 2:
			res.Reallocs++
			i := rng.Intn(len(live))
			a := live[i]
			if err := check(a, step); err != nil {
				return res, err
			}
			q := c.Realloc(a.p, size)
			if q == nil {
				res.Failures++
				break
			}
			moved := liveAlloc{p: q, n: min(a.n, size), fill: a.fill}
			if err := check(moved, step); err != nil {
				return res, fmt.Errorf("realloc lost data: %w", err)
			}
			moved.n = size
			fill(moved)
			live[i] = moved

		default:
			res.Frees++
			i := rng.Intn(len(live))
			if err := check(live[i], step); err != nil {
				return res, err
			}
			c.Free(live[i].p)
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}

		if opts.VerifyEvery > 0 && (step+1)%opts.VerifyEvery == 0 {
			if err := h.Verify(); err != nil {
				return res, fmt.Errorf("step %d: %w", step, err)
			}
		}
	}

	if res.Failures > 0 && c.Errno() != errno.AllocationFailure {
		return res, fmt.Errorf("allocation failed but errno is %s", c.Errno().String())
	}

	res.Live = len(live)
	res.Stats = h.Stats()

	for _, a := range live {
		if err := check(a, opts.Ops); err != nil {
			return res, err
		}
		c.Free(a.p)
	}
	if err := h.Verify(); err != nil {
		return res, fmt.Errorf("after cleanup: %w", err)
	}
	if inUse := h.Stats().InUse; inUse != 0 {
		return res, fmt.Errorf("after cleanup: %d bytes still in use", inUse)
	}
	return res, nil
}
