package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"tesim/internal/clock"
	"tesim/internal/state"
	"tesim/pkg/genome"
)

// BenchConfig describes a benchmark workload. The same workload is replayed on
// every engine for every size.
type BenchConfig struct {
	Sizes       []int
	Ops         int
	Seed        int64
	MaxTELength int
	Kinds       []genome.Kind

	// Relative weights of the three mutations.
	InsertWeight  int
	CopyWeight    int
	DisableWeight int
}

// DefaultBenchConfig mirrors a simple TE life cycle: mostly new insertions,
// frequent copies of active elements, occasional silencing.
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		Sizes:         []int{1_000, 10_000},
		Ops:           1_000,
		Seed:          1,
		MaxTELength:   10,
		Kinds:         genome.Kinds(),
		InsertWeight:  5,
		CopyWeight:    3,
		DisableWeight: 2,
	}
}

func (c BenchConfig) validate() error {
	switch {
	case len(c.Sizes) == 0:
		return errors.New("benchmark needs at least one genome size")
	case c.Ops <= 0:
		return fmt.Errorf("benchmark needs a positive op count, got %d", c.Ops)
	case c.MaxTELength <= 0:
		return fmt.Errorf("max TE length must be positive, got %d", c.MaxTELength)
	case len(c.Kinds) == 0:
		return errors.New("benchmark needs at least one engine")
	case c.InsertWeight < 0 || c.CopyWeight < 0 || c.DisableWeight < 0:
		return errors.New("op weights must not be negative")
	case c.InsertWeight == 0:
		return errors.New("insert weight must be positive")
	}
	for _, n := range c.Sizes {
		if n < 0 {
			return fmt.Errorf("genome size must not be negative, got %d", n)
		}
	}
	return nil
}

type benchOpKind int

const (
	benchInsert benchOpKind = iota
	benchCopy
	benchDisable
)

// benchOp is drawn once and resolved against the genome when applied, so the
// workload does not depend on which engine replays it.
type benchOp struct {
	kind   benchOpKind
	where  float64 // insertion point as a fraction of the current length
	length int
	which  float64 // TE as a fraction of the ids issued so far
	offset float64 // copy offset as a signed fraction of the current length
}

func workload(cfg BenchConfig) []benchOp {
	rng := rand.New(rand.NewSource(cfg.Seed))
	total := cfg.InsertWeight + cfg.CopyWeight + cfg.DisableWeight
	ops := make([]benchOp, cfg.Ops)
	for i := range ops {
		op := benchOp{
			where:  rng.Float64(),
			length: 1 + rng.Intn(cfg.MaxTELength),
			which:  rng.Float64(),
			offset: rng.Float64()*2 - 1,
		}
		switch r := rng.Intn(total); {
		case r < cfg.InsertWeight:
			op.kind = benchInsert
		case r < cfg.InsertWeight+cfg.CopyWeight:
			op.kind = benchCopy
		default:
			op.kind = benchDisable
		}
		ops[i] = op
	}
	return ops
}

// replay applies ops to g and returns how many ids were issued.
func replay(g genome.Genome, ops []benchOp) (int, error) {
	issued := 0
	for _, op := range ops {
		if op.kind != benchInsert && issued == 0 {
			continue
		}
		switch op.kind {
		case benchInsert:
			pos := int(op.where * float64(g.Len()+1))
			if _, err := g.InsertTE(pos, op.length); err != nil {
				return issued, err
			}
			issued++
		case benchCopy:
			te := 1 + int(op.which*float64(issued))
			if _, ok := g.CopyTE(te, int(op.offset*float64(g.Len()))); ok {
				issued++
			}
		case benchDisable:
			g.DisableTE(1 + int(op.which*float64(issued)))
		}
	}
	return issued, nil
}

// Benchmark replays a random workload on every configured engine and size and
// reports the timings. The run fails when engines end in different states.
func Benchmark(ctx context.Context, cfg BenchConfig, clk clock.Clock) (state.RunRecord, error) {
	if err := cfg.validate(); err != nil {
		return state.RunRecord{}, err
	}
	ops := workload(cfg)
	rec := state.NewRunRecord(state.RunBenchmark, "benchmark", clk.Now())
	rec.Fingerprint = fmt.Sprintf("sizes=%v ops=%d seed=%d max-te=%d weights=%d/%d/%d",
		cfg.Sizes, cfg.Ops, cfg.Seed, cfg.MaxTELength, cfg.InsertWeight, cfg.CopyWeight, cfg.DisableWeight)
	rec.Passed = true

	for _, size := range cfg.Sizes {
		var reference *state.EngineResult
		var referenceRendering string
		for _, kind := range cfg.Kinds {
			if err := ctx.Err(); err != nil {
				return rec, err
			}
			g, err := genome.New(kind, size)
			if err != nil {
				return rec, err
			}

			start := clk.Now()
			if _, err := replay(g, ops); err != nil {
				return rec, fmt.Errorf("%s at size %d: %w", kind, size, err)
			}
			elapsed := clk.Since(start)
			slog.Debug("benchmark run",
				slog.String("engine", string(kind)),
				slog.Int("size", size),
				slog.Int("ops", len(ops)),
				slog.Duration("elapsed", elapsed))

			result := state.EngineResult{
				Engine:      string(kind),
				Size:        size,
				Steps:       len(ops),
				Elapsed:     elapsed,
				FinalLength: g.Len(),
				ActiveTEs:   g.ActiveTEs(),
				Rendering:   g.String(),
			}
			// Renderings of large genomes are only kept for the comparison.
			rendering := result.Rendering
			result.Rendering = ""
			if reference == nil {
				reference, referenceRendering = &result, rendering
			} else if rendering != referenceRendering || !slices.Equal(result.ActiveTEs, reference.ActiveTEs) {
				rec.Passed = false
				rec.Notes = append(rec.Notes, fmt.Sprintf("size %d: %s and %s end in different states", size, reference.Engine, result.Engine))
			}
			rec.Engines = append(rec.Engines, result)
		}
	}
	return rec, nil
}
