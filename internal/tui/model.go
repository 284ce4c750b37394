package tui

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"tesim/internal/clock"
	"tesim/internal/core"
	"tesim/internal/session"
	"tesim/pkg/genome"
	"tesim/pkg/scenario"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
)

// ViewState is the screen the TUI shows.
type ViewState int

const (
	ViewSteps ViewState = iota
	ViewQuitting
)

// stepStatus marks how a scenario step went.
type stepStatus int

const (
	stepPending stepStatus = iota
	stepApplied
	stepMismatch
	stepFailed
)

func (s stepStatus) marker() string {
	switch s {
	case stepApplied:
		return "✓"
	case stepMismatch:
		return "✗"
	case stepFailed:
		return "!"
	}
	return " "
}

// StepItem is a scenario step in the list.
type StepItem struct {
	Index  int
	Op     scenario.Op
	status stepStatus
}

func (s StepItem) Title() string {
	return fmt.Sprintf("%s %3d  %s", s.status.marker(), s.Index+1, s.Op)
}
func (s StepItem) Description() string { return "" }
func (s StepItem) FilterValue() string { return s.Op.String() }

// model is the Bubbletea model for the TUI.
type model struct {
	ActiveView ViewState

	scn     scenario.Scenario
	kinds   []genome.Kind
	kindIdx int
	sim     *core.Simulation

	// cursor is the number of steps applied so far.
	cursor     int
	last       *core.Step
	mismatches map[int]core.Mismatch
	err        error

	list    list.Model
	teTable table.Model

	clock    clock.Clock
	interval time.Duration
	player   *session.Player

	height int // Track terminal height for dynamic resizing
	width  int // Track terminal width for dynamic resizing
}

// InitialModel creates the viewer for scn starting on the given engine.
func InitialModel(scn scenario.Scenario, kind genome.Kind, interval time.Duration, clk clock.Clock, height int) model {
	kinds := genome.Kinds()
	kindIdx := max(slices.Index(kinds, kind), 0)

	defaultWidth := 80
	listDelegate := list.NewDefaultDelegate()
	listDelegate.ShowDescription = false
	listDelegate.SetSpacing(0)
	l := list.New(stepItems(scn), listDelegate, defaultWidth/2, max(height-14, 5))
	l.Title = scn.Name
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	t := table.New(
		table.WithColumns(teColumns()),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(max(height-16, 5)),
	)

	return model{
		ActiveView: ViewSteps,
		scn:        scn,
		kinds:      kinds,
		kindIdx:    kindIdx,
		sim:        core.NewSimulation(kinds[kindIdx]),
		mismatches: make(map[int]core.Mismatch),
		list:       l,
		teTable:    t,
		clock:      clk,
		interval:   interval,
		height:     height,
		width:      defaultWidth,
	}
}

func stepItems(scn scenario.Scenario) []list.Item {
	items := make([]list.Item, len(scn.Ops))
	for i, op := range scn.Ops {
		items[i] = StepItem{Index: i, Op: op}
	}
	return items
}

func teColumns() []table.Column {
	return []table.Column{
		{Title: "TE", Width: 6},
		{Title: "Start", Width: 8},
		{Title: "Length", Width: 8},
		{Title: "End", Width: 8},
	}
}

// teRows lists the active TEs of g in insertion order.
func teRows(g genome.Genome) []table.Row {
	if g == nil {
		return nil
	}
	ids := g.ActiveTEs()
	rows := make([]table.Row, 0, len(ids))
	for _, id := range ids {
		te, ok := g.Span(id)
		if !ok {
			continue
		}
		rows = append(rows, table.Row{
			strconv.Itoa(te.ID),
			strconv.Itoa(te.Start),
			strconv.Itoa(te.Length),
			strconv.Itoa(te.End()),
		})
	}
	return rows
}

func (m model) kind() genome.Kind { return m.kinds[m.kindIdx] }

// done reports whether every step has been applied.
func (m model) done() bool { return m.cursor >= len(m.scn.Ops) }
