package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tesim/internal/core"
	"tesim/pkg/genome"
)

// errFailed is returned by commands whose output already explains the failure.
var errFailed = errors.New("failed")

type rootOptions struct {
	store     string
	storePath string
	verbose   bool
}

// NewRootCmd builds the tesim command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "tesim",
		Short: "Simulate transposable elements in a circular genome",
		Long: `tesim runs scenarios of transposable element insertions, copies and
silencing against two genome implementations and checks that they agree.

Scenarios are Markdown files whose list items are steps:

  - size 10
  - insert 2 3
  - expect --AAA--------`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVar(&opts.store, "store", "file", "run store: memory, file or sqlite")
	root.PersistentFlags().StringVar(&opts.storePath, "store-path", "", "run store location (default "+core.DefaultRunFile+" or "+core.DefaultRunDB+")")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "print every step")

	root.AddCommand(
		newRunCmd(opts),
		newBenchCmd(opts),
		newScriptCmd(),
		newTUICmd(),
		newRunsCmd(opts),
	)
	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// openStore opens the configured run store. The returned func closes it.
func (o *rootOptions) openStore(ctx context.Context) (core.RunStore, func(), error) {
	store, err := core.NewRunStore(o.store, o.storePath)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Init(ctx); err != nil {
		_ = core.CloseIfSupported(store)
		return nil, nil, fmt.Errorf("open %s store: %w", o.store, err)
	}
	return store, func() { _ = core.CloseIfSupported(store) }, nil
}

// engineKinds resolves an --engine value; "both" and "all" select every
// implementation.
func engineKinds(name string) ([]genome.Kind, error) {
	switch name {
	case "", "both", "all":
		return genome.Kinds(), nil
	}
	kind, err := genome.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return []genome.Kind{kind}, nil
}
