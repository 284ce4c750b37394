package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tesim/internal/core"
)

func newRunsCmd(root *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved run reports",
	}
	c.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved runs, oldest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, closeStore, err := root.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer closeStore()
				runs, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No saved runs.")
					return nil
				}
				t := table.New().
					Border(lipgloss.NormalBorder()).
					Headers("ID", "Kind", "Name", "Result", "Engines", "Elapsed", "Created")
				now := time.Now()
				for _, r := range runs {
					result := "pass"
					if !r.Passed {
						result = "FAIL"
					}
					t.Row(shortID(r.ID), string(r.Kind), r.Name, result,
						strconv.Itoa(len(r.Engines)), r.TotalElapsed().String(),
						humanize.RelTime(r.CreatedAt, now, "ago", "from now"))
				}
				fmt.Fprintln(out, t.String())
				fmt.Fprintf(out, "%s runs\n", humanize.Comma(int64(len(runs))))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one run; any unique id prefix works",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, closeStore, err := root.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer closeStore()
				run, err := core.FindRun(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s\n%s\n", run.ID, run.Summary())
				fmt.Fprintf(out, "created %s (%s)\n", run.CreatedAt.Format(time.RFC3339), humanize.Time(run.CreatedAt))
				if run.Fingerprint != "" {
					fmt.Fprintf(out, "fingerprint %s\n", run.Fingerprint)
				}
				for _, e := range run.Engines {
					fmt.Fprintf(out, "  %-10s size %s, %d steps, %s, final length %s, active %v\n",
						e.Engine, humanize.Comma(int64(e.Size)), e.Steps, e.Elapsed,
						humanize.Comma(int64(e.FinalLength)), e.ActiveTEs)
					if e.Rendering != "" && root.verbose {
						fmt.Fprintf(out, "    %s\n", e.Rendering)
					}
				}
				for _, note := range run.Notes {
					fmt.Fprintf(out, "  note: %s\n", note)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "export <id> <file.json>",
			Short: "Write one run as JSON",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, closeStore, err := root.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer closeStore()
				run, err := core.FindRun(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if err := run.SaveToFile(args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", shortID(run.ID), args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete one run",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, closeStore, err := root.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer closeStore()
				run, err := core.FindRun(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), run.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", run.ID)
				return nil
			},
		},
	)
	return c
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
