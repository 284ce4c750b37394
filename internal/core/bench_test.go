package core

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"tesim/internal/clock"
	"tesim/pkg/genome"
)

func smallBench() BenchConfig {
	cfg := DefaultBenchConfig()
	cfg.Sizes = []int{0, 50}
	cfg.Ops = 300
	cfg.Seed = 3
	return cfg
}

func TestBenchmarkEnginesAgree(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	clk.AutoAdvance(time.Millisecond)

	cfg := smallBench()
	rec, err := Benchmark(context.Background(), cfg, clk)
	if err != nil {
		t.Fatalf("Benchmark: %v", err)
	}
	if !rec.Passed {
		t.Fatalf("benchmark failed: %v", rec.Notes)
	}
	if want := len(cfg.Sizes) * len(cfg.Kinds); len(rec.Engines) != want {
		t.Fatalf("got %d engine results, want %d", len(rec.Engines), want)
	}
	for _, size := range cfg.Sizes {
		a, okA := rec.Engine(string(genome.KindContiguous), size)
		b, okB := rec.Engine(string(genome.KindLinked), size)
		if !okA || !okB {
			t.Fatalf("missing results for size %d", size)
		}
		if a.FinalLength != b.FinalLength || !reflect.DeepEqual(a.ActiveTEs, b.ActiveTEs) {
			t.Errorf("size %d: contiguous %+v, linked %+v", size, a, b)
		}
		if a.FinalLength <= size {
			t.Errorf("size %d: final length %d did not grow", size, a.FinalLength)
		}
	}
	for _, e := range rec.Engines {
		if e.Elapsed != time.Millisecond {
			t.Errorf("%s/%d: Elapsed = %v, want 1ms", e.Engine, e.Size, e.Elapsed)
		}
		if e.Rendering != "" {
			t.Errorf("%s/%d: rendering should not be kept", e.Engine, e.Size)
		}
		if e.Steps != cfg.Ops {
			t.Errorf("%s/%d: Steps = %d, want %d", e.Engine, e.Size, e.Steps, cfg.Ops)
		}
	}
}

func TestWorkloadIsDeterministic(t *testing.T) {
	cfg := smallBench()
	if !reflect.DeepEqual(workload(cfg), workload(cfg)) {
		t.Fatal("same seed produced different workloads")
	}
	cfg2 := cfg
	cfg2.Seed++
	if reflect.DeepEqual(workload(cfg), workload(cfg2)) {
		t.Fatal("different seeds produced the same workload")
	}
}

func TestReplayLengthInvariant(t *testing.T) {
	cfg := smallBench()
	ops := workload(cfg)
	g, err := genome.New(genome.KindContiguous, 20)
	if err != nil {
		t.Fatal(err)
	}
	issued, err := replay(g, ops)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if issued == 0 {
		t.Fatal("no TEs issued")
	}
	if g.Len() != len(g.String()) {
		t.Errorf("Len() = %d, rendering has %d symbols", g.Len(), len(g.String()))
	}
}

func TestBenchConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BenchConfig)
	}{
		{"no sizes", func(c *BenchConfig) { c.Sizes = nil }},
		{"negative size", func(c *BenchConfig) { c.Sizes = []int{10, -1} }},
		{"no ops", func(c *BenchConfig) { c.Ops = 0 }},
		{"zero TE length", func(c *BenchConfig) { c.MaxTELength = 0 }},
		{"no engines", func(c *BenchConfig) { c.Kinds = nil }},
		{"negative weight", func(c *BenchConfig) { c.CopyWeight = -1 }},
		{"no inserts", func(c *BenchConfig) { c.InsertWeight = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBenchConfig()
			tt.mutate(&cfg)
			if _, err := Benchmark(context.Background(), cfg, clock.RealClock{}); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
	if err := DefaultBenchConfig().validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestBenchmarkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Benchmark(ctx, smallBench(), clock.RealClock{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
