package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tesim/internal/core"
	"tesim/internal/parser"
	"tesim/internal/state"
	"tesim/pkg/scenario"
)

type runOptions struct {
	*rootOptions
	engine string
	record bool
	save   bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}
	c := &cobra.Command{
		Use:   "run <scenario.md>",
		Short: "Run a scenario and check its expectations",
		Long: `Run applies every step of a scenario to each selected engine, reports failed
expectations, and with more than one engine checks that all of them agree
after every step.

With --record the expect line after each mutating step is written (or
rewritten) with the observed genome before the scenario is checked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args[0])
		},
	}
	c.Flags().StringVarP(&opts.engine, "engine", "e", "both", "engine: contiguous, linked or both")
	c.Flags().BoolVar(&opts.record, "record", false, "write observed renderings into the scenario file")
	c.Flags().BoolVar(&opts.save, "save", false, "save the run report to the run store")
	return c
}

func (o *runOptions) run(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	kinds, err := engineKinds(o.engine)
	if err != nil {
		return err
	}
	scn, err := parser.ParseScenarioFile(path)
	if err != nil {
		return err
	}
	runner := core.NewRunner()

	if o.record {
		trace, err := runner.Run(scn, kinds[0])
		if err != nil {
			return err
		}
		if err := parser.UpdateScenario(path, scn, trace.Observed()); err != nil {
			return fmt.Errorf("record %s: %w", path, err)
		}
		fmt.Fprintf(out, "Recorded %d renderings into %s\n", scn.MutatingSteps(), path)
		if scn, err = parser.ParseScenarioFile(path); err != nil {
			return err
		}
	}

	rec := state.NewRunRecord(state.RunScenario, scn.Name, time.Now())
	rec.Fingerprint = scn.Fingerprint()
	rec.Passed = true

	fmt.Fprintf(out, "Scenario %s (%d steps)\n", scn.Name, len(scn.Ops))
	for _, kind := range kinds {
		trace, err := runner.Run(scn, kind)
		if err != nil {
			return err
		}
		if o.verbose {
			printSteps(out, trace)
		}
		final, _ := trace.Final()
		rec.Engines = append(rec.Engines, state.EngineResult{
			Engine:      string(kind),
			Size:        initialSize(scn),
			Steps:       len(trace.Steps),
			Elapsed:     trace.Elapsed,
			FinalLength: final.Length,
			ActiveTEs:   final.Active,
			Rendering:   final.Rendering,
		})

		if trace.Passed() {
			fmt.Fprintf(out, "PASS %-10s final length %s, %d active TEs, %s\n",
				kind, humanize.Comma(int64(final.Length)), len(final.Active), trace.Elapsed)
			continue
		}
		rec.Passed = false
		fmt.Fprintf(out, "FAIL %-10s %d failed expectations\n", kind, len(trace.Mismatches))
		for _, m := range trace.Mismatches {
			fmt.Fprintf(out, "  %s\n", m.Error())
			rec.Notes = append(rec.Notes, fmt.Sprintf("%s: %s", kind, m.Error()))
		}
	}

	if len(kinds) > 1 {
		div, err := runner.Compare(scn, kinds...)
		if err != nil {
			return err
		}
		if div != nil {
			rec.Passed = false
			rec.Notes = append(rec.Notes, div.Error())
			fmt.Fprintln(out, div.Error())
		} else {
			fmt.Fprintf(out, "Engines agree on all %d steps\n", len(scn.Ops))
		}
	}

	if o.save {
		if err := o.saveRun(cmd, rec); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved run %s\n", rec.ID)
	}
	if !rec.Passed {
		return fmt.Errorf("scenario %s: %w", scn.Name, errFailed)
	}
	return nil
}

func (o *rootOptions) saveRun(cmd *cobra.Command, rec state.RunRecord) error {
	store, closeStore, err := o.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()
	return store.Save(cmd.Context(), rec)
}

func printSteps(w io.Writer, trace *core.Trace) {
	fmt.Fprintf(w, "%s:\n", trace.Engine)
	for _, s := range trace.Steps {
		result := ""
		switch {
		case s.NoResult:
			result = " -> no result"
		case s.ID != 0:
			result = fmt.Sprintf(" -> %d", s.ID)
		}
		fmt.Fprintf(w, "  %4d  %-20s %s\n", s.Op.Line+1, s.Op.String()+result, s.Rendering)
	}
}

// initialSize is the size of the first genome a scenario creates.
func initialSize(scn scenario.Scenario) int {
	for _, op := range scn.Ops {
		if op.Kind == scenario.OpSize {
			return op.Args[0]
		}
	}
	return 0
}
