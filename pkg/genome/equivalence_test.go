package genome_test

import (
	"math/rand"
	"reflect"
	"testing"

	"tesim/pkg/genome"
)

// TestImplementationsAgree drives both implementations with the same random
// workload and compares every observable after every step.
func TestImplementationsAgree(t *testing.T) {
	for _, seed := range []int64{1, 7, 2024} {
		rng := rand.New(rand.NewSource(seed))
		n := rng.Intn(30)
		contiguous := genome.NewContiguousGenome(n)
		linked := genome.NewLinkedGenome(n)
		issued := 0

		for step := 0; step < 600; step++ {
			before := contiguous.Len()
			switch op := rng.Intn(10); {
			case op < 5 || issued == 0:
				pos, length := rng.Intn(before+1), 1+rng.Intn(6)
				a, errA := contiguous.InsertTE(pos, length)
				b, errB := linked.InsertTE(pos, length)
				if errA != nil || errB != nil || a != b {
					t.Fatalf("seed %d step %d: InsertTE(%d, %d) = (%d, %v) vs (%d, %v)", seed, step, pos, length, a, errA, b, errB)
				}
				issued++
				if contiguous.Len() != before+length {
					t.Fatalf("seed %d step %d: length %d, want %d", seed, step, contiguous.Len(), before+length)
				}
			case op < 8:
				te, offset := 1+rng.Intn(issued), rng.Intn(80)-40
				a, okA := contiguous.CopyTE(te, offset)
				b, okB := linked.CopyTE(te, offset)
				if a != b || okA != okB {
					t.Fatalf("seed %d step %d: CopyTE(%d, %d) = (%d, %v) vs (%d, %v)", seed, step, te, offset, a, okA, b, okB)
				}
				if okA {
					issued++
				} else if contiguous.Len() != before {
					t.Fatalf("seed %d step %d: no-result copy changed length", seed, step)
				}
			default:
				te := 1 + rng.Intn(issued)
				contiguous.DisableTE(te)
				linked.DisableTE(te)
				if contiguous.Len() != before {
					t.Fatalf("seed %d step %d: disable changed length", seed, step)
				}
			}

			if contiguous.String() != linked.String() {
				t.Fatalf("seed %d step %d: renderings differ\n%s\n%s", seed, step, contiguous.String(), linked.String())
			}
			if contiguous.Len() != linked.Len() {
				t.Fatalf("seed %d step %d: Len %d vs %d", seed, step, contiguous.Len(), linked.Len())
			}
			if !reflect.DeepEqual(contiguous.ActiveTEs(), linked.ActiveTEs()) {
				t.Fatalf("seed %d step %d: active %v vs %v", seed, step, contiguous.ActiveTEs(), linked.ActiveTEs())
			}
			if err := linked.Verify(); err != nil {
				t.Fatalf("seed %d step %d: %v", seed, step, err)
			}
			assertSpansMatchRendering(t, contiguous)
		}
	}
}

// assertSpansMatchRendering checks that every active span renders as Active
// symbols and that active spans never overlap.
func assertSpansMatchRendering(t *testing.T, g genome.Genome) {
	t.Helper()
	seq := g.String()
	owner := make([]int, len(seq))
	for _, id := range g.ActiveTEs() {
		span, ok := g.Span(id)
		if !ok {
			t.Fatalf("active TE %d has no span", id)
		}
		for i := span.Start; i < span.End(); i++ {
			if seq[i] != genome.Active.Byte() {
				t.Fatalf("TE %d covers %q at %d in %s", id, seq[i], i, seq)
			}
			if owner[i] != 0 {
				t.Fatalf("TEs %d and %d overlap at %d", owner[i], id, i)
			}
			owner[i] = id
		}
	}
}
