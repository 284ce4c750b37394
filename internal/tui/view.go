package tui

import (
	"fmt"
	"strings"

	"tesim/pkg/genome"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	gapStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00"))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
)

// ModelView renders the TUI model's view as a string.
func ModelView(m model) string {
	switch m.ActiveView {
	case ViewQuitting:
		return quittingView()
	default:
		return stepsView(m)
	}
}

func quittingView() string {
	return "Goodbye!\n"
}

func stepsView(m model) string {
	total := len(m.scn.Ops)
	percent := 0.0
	if total > 0 {
		percent = float64(m.cursor) / float64(total)
	}
	pb := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	header := fmt.Sprintf("%s %s\n%s %s   %s %d/%d\n%s",
		headerStyle.Render("Scenario:"), m.scn.Name,
		headerStyle.Render("Engine:"), m.kind(),
		headerStyle.Render("Step:"), m.cursor, total,
		pb.ViewAs(percent),
	)

	genomeBlock := lipgloss.NewStyle().Padding(1).BorderStyle(lipgloss.RoundedBorder()).Render(
		genomeView(m, max(m.width-6, 10)),
	)

	steps := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#555555")).
		Render(m.list.View())
	tes := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Active TEs"),
		m.teTable.View(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, steps, " ", tes)

	help := helpStyle.Render("enter/n step • space autoplay • e switch engine • r reset • q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, genomeBlock, body, help)
}

func genomeView(m model, width int) string {
	g := m.sim.Genome()
	if g == nil {
		return helpStyle.Render("no genome yet: press enter to apply the first step")
	}

	lines := []string{fmt.Sprintf("length %d, %d active", g.Len(), len(g.ActiveTEs()))}
	for _, chunk := range chunkCells(g.String(), width) {
		lines = append(lines, colorize(chunk))
	}
	if m.last != nil {
		lines = append(lines, lastStepLine(m))
	}
	if mm, ok := m.mismatches[m.cursor-1]; ok {
		lines = append(lines, errorStyle.Render(wrapText(mm.Error(), width)))
	}
	if m.err != nil {
		lines = append(lines, errorStyle.Render(wrapText(m.err.Error(), width)))
	}
	return strings.Join(lines, "\n")
}

func lastStepLine(m model) string {
	s := m.last
	switch {
	case s.NoResult:
		return fmt.Sprintf("%s: TE not active, nothing copied", s.Op)
	case s.ID != 0:
		return fmt.Sprintf("%s: TE %d", s.Op, s.ID)
	}
	return s.Op.String()
}

// colorize styles runs of equal symbols.
func colorize(seq string) string {
	var b strings.Builder
	for i := 0; i < len(seq); {
		j := i + 1
		for j < len(seq) && seq[j] == seq[i] {
			j++
		}
		run := seq[i:j]
		switch genome.Symbol(seq[i]) {
		case genome.Active:
			b.WriteString(activeStyle.Render(run))
		case genome.Inactive:
			b.WriteString(inactiveStyle.Render(run))
		default:
			b.WriteString(gapStyle.Render(run))
		}
		i = j
	}
	return b.String()
}
