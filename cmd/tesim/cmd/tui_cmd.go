package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"tesim/internal/tui"
	"tesim/pkg/genome"
)

func newTUICmd() *cobra.Command {
	var (
		engine   string
		interval time.Duration
	)
	c := &cobra.Command{
		Use:   "tui <scenario.md>",
		Short: "Step through a scenario interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := genome.ParseKind(engine)
			if err != nil {
				return err
			}
			return tui.Run(args[0], kind, interval)
		},
	}
	c.Flags().StringVarP(&engine, "engine", "e", string(genome.KindContiguous), "engine to start with: contiguous or linked")
	c.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "autoplay step interval")
	return c
}
