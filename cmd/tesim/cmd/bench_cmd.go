package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tesim/internal/clock"
	"tesim/internal/core"
	"tesim/internal/state"
)

type benchOptions struct {
	*rootOptions
	cfg    core.BenchConfig
	engine string
	save   bool
}

func newBenchCmd(root *rootOptions) *cobra.Command {
	opts := &benchOptions{rootOptions: root, cfg: core.DefaultBenchConfig()}
	c := &cobra.Command{
		Use:   "bench",
		Short: "Time both engines on a random TE workload",
		Long: `Bench replays the same seeded sequence of inserts, copies and disables on
every engine and genome size, prints the timings, and fails if the engines
end in different states.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}
	f := c.Flags()
	f.IntSliceVar(&opts.cfg.Sizes, "sizes", opts.cfg.Sizes, "initial genome sizes")
	f.IntVar(&opts.cfg.Ops, "ops", opts.cfg.Ops, "operations per run")
	f.Int64Var(&opts.cfg.Seed, "seed", opts.cfg.Seed, "workload seed")
	f.IntVar(&opts.cfg.MaxTELength, "max-te", opts.cfg.MaxTELength, "maximum TE length")
	f.IntVar(&opts.cfg.InsertWeight, "insert-weight", opts.cfg.InsertWeight, "relative weight of inserts")
	f.IntVar(&opts.cfg.CopyWeight, "copy-weight", opts.cfg.CopyWeight, "relative weight of copies")
	f.IntVar(&opts.cfg.DisableWeight, "disable-weight", opts.cfg.DisableWeight, "relative weight of disables")
	f.StringVarP(&opts.engine, "engine", "e", "both", "engine: contiguous, linked or both")
	f.BoolVar(&opts.save, "save", false, "save the report to the run store")
	return c
}

func (o *benchOptions) run(cmd *cobra.Command) error {
	kinds, err := engineKinds(o.engine)
	if err != nil {
		return err
	}
	o.cfg.Kinds = kinds

	rec, err := core.Benchmark(cmd.Context(), o.cfg, clock.RealClock{})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s ops, seed %d\n", humanize.Comma(int64(o.cfg.Ops)), o.cfg.Seed)
	fmt.Fprintln(out, benchTable(rec))
	for _, note := range rec.Notes {
		fmt.Fprintln(out, note)
	}

	if o.save {
		if err := o.saveRun(cmd, rec); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved run %s\n", rec.ID)
	}
	if !rec.Passed {
		return fmt.Errorf("benchmark: %w", errFailed)
	}
	return nil
}

func benchTable(rec state.RunRecord) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Size", "Engine", "Final length", "Active TEs", "Elapsed", "Per op")
	for _, e := range rec.Engines {
		perOp := "-"
		if e.Steps > 0 {
			perOp = (e.Elapsed / time.Duration(e.Steps)).String()
		}
		t.Row(
			humanize.Comma(int64(e.Size)),
			e.Engine,
			humanize.Comma(int64(e.FinalLength)),
			strconv.Itoa(len(e.ActiveTEs)),
			e.Elapsed.String(),
			perOp,
		)
	}
	return t.String()
}
