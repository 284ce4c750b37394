package cmd

import (
	"github.com/spf13/cobra"

	"tesim/internal/script"
)

func newScriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script <file.lua>",
		Short: "Run a Lua script against the genome API",
		Long: `Script runs a sandboxed Lua program with a "genome" module:

  local g = genome.new("linked", 10)
  local te = g:insert(2, 3)
  g:copy(te, 5)
  print(g:str(), g:len())`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return script.RunFile(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
}
