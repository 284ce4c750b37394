package parser

import (
	"fmt"

	"tesim/internal/rewrite"
	"tesim/pkg/scenario"
)

// UpdateScenario records observed renderings into a scenario file. After every
// step that changes the genome it writes an expect step with the rendering
// observed after that step, replacing an expect step that already sits on the
// next line. observed is indexed like scn.Ops.
func UpdateScenario(filename string, scn scenario.Scenario, observed []string) error {
	if len(observed) != len(scn.Ops) {
		return fmt.Errorf("have %d observations for %d steps", len(observed), len(scn.Ops))
	}
	return rewrite.RewriteFile(filename, func(rw rewrite.LineRewriter) error {
		for i, op := range scn.Ops {
			if !op.Mutates() {
				continue
			}
			expect := scenario.Op{Kind: scenario.OpExpect, Text: observed[i]}
			line := [][]byte{[]byte(op.Indent + expect.String())}

			if i+1 < len(scn.Ops) {
				next := scn.Ops[i+1]
				if next.Kind == scenario.OpExpect && next.Line == op.Line+1 {
					if err := rw.ReplaceLines(next.Line, next.Line, line); err != nil {
						return err
					}
					continue
				}
			}
			if err := rw.InsertLines(op.Line+1, line); err != nil {
				return err
			}
		}
		return nil
	})
}
