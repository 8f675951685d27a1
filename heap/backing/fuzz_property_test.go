package backing

import (
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap/layout"
	"github.com/joshuapare/kheap/internal/format"
)

type liveBlock struct {
	l    layout.Layout
	fill byte
}

// Test_Fuzz_RandomOps_GuardInvariants performs random allocate, deallocate
// and reallocate calls and validates the block grid after every step. Each
// live block is filled with a tag byte that must survive neighbouring
// operations.
func Test_Fuzz_RandomOps_GuardInvariants(t *testing.T) {
	for _, cfg := range []SizeClassConfig{ConfigFineGrained, ConfigBalanced, ConfigCoarse} {
		t.Run(cfg.Name, func(t *testing.T) {
			a := newTestAllocator(t, 64<<10, &cfg)
			rng := rand.New(rand.NewSource(42)) // Fixed seed for reproducibility
			live := make(map[unsafe.Pointer]liveBlock)
			var tag byte

			for i := 0; i < 2000; i++ {
				switch op := rng.Intn(3); op {
				case 0: // Allocate
					size := uintptr(rng.Intn(600))
					align := uintptr(1) << rng.Intn(7)
					l, err := layout.New(size, align)
					require.NoError(t, err)

					p, err := a.Allocate(l)
					if err != nil {
						require.ErrorIs(t, err, ErrNoSpace, "step %d", i)
						break
					}
					require.Zero(t, uintptr(p)%align, "step %d", i)
					tag++
					fill(p, size, tag)
					live[p] = liveBlock{l: l, fill: tag}

				case 1: // Deallocate
					for p, b := range live {
						checkFill(t, p, b)
						require.NoError(t, a.Deallocate(p, b.l), "step %d", i)
						delete(live, p)
						break
					}

				case 2: // Reallocate
					for p, b := range live {
						checkFill(t, p, b)
						newSize := uintptr(rng.Intn(1200))
						q, err := a.Reallocate(p, b.l, newSize)
						if err != nil {
							require.ErrorIs(t, err, ErrNoSpace, "step %d", i)
							break
						}
						delete(live, p)
						keep := min(b.l.Size, newSize)
						nb := liveBlock{l: layout.Layout{Size: newSize, Align: b.l.Align}, fill: b.fill}
						checkFill(t, q, liveBlock{l: layout.Layout{Size: keep}, fill: b.fill})
						fill(q, newSize, b.fill)
						live[q] = nb
						break
					}
				}

				require.NoError(t, a.Verify(), "step %d: invariant check failed", i)
			}

			for p, b := range live {
				checkFill(t, p, b)
				require.NoError(t, a.Deallocate(p, b.l))
			}
			require.NoError(t, a.Verify())
			require.Equal(t, 1, a.Stats().FreeBlocks)
		})
	}
}

func fill(p unsafe.Pointer, n uintptr, v byte) {
	b := format.Bytes(p, n)
	for i := range b {
		b[i] = v
	}
}

func checkFill(t *testing.T, p unsafe.Pointer, b liveBlock) {
	t.Helper()
	for i, v := range format.Bytes(p, b.l.Size) {
		if v != b.fill {
			t.Fatalf("block %p byte %d = %d, want %d", p, i, v, b.fill)
		}
	}
}
