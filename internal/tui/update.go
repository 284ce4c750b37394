package tui

import (
	"tesim/internal/core"
	"tesim/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// playerMsg carries one autoplay event into the update loop.
type playerMsg struct {
	player *session.Player
	event  session.Event
}

// waitForPlayer returns a Bubbletea command that listens for the next player event.
func waitForPlayer(p *session.Player) tea.Cmd {
	return func() tea.Msg {
		return playerMsg{player: p, event: <-p.Events()}
	}
}

// Update handles all Bubbletea update logic for the TUI model.
func Update(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(m, msg)
	case playerMsg:
		return handlePlayerMsg(m, msg)
	case tea.WindowSizeMsg:
		return handleWindowResize(m, msg)
	default:
		if m.ActiveView == ViewSteps {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func HandleKeyMsg(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	if m.ActiveView == ViewQuitting {
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.stopPlayer()
		m.ActiveView = ViewQuitting
		return m, tea.Quit

	case "enter", "n":
		m = stepForward(m)
		if m.player != nil {
			m.player.Seek(m.cursor)
		}
		return m, nil

	case "r":
		m.stopPlayer()
		return reset(m), nil

	case "e":
		return switchEngine(m), nil

	case " ":
		return toggleAutoplay(m)

	default:
		// Forward other keys to the list's update for navigation.
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
}

// stepForward applies the next scenario step.
func stepForward(m model) model {
	if m.done() || m.err != nil {
		return m
	}
	index := m.cursor
	step, mismatch, err := m.sim.Apply(m.scn.Ops[index])

	status := stepApplied
	switch {
	case err != nil:
		m.err = err
		status = stepFailed
		m.stopPlayer()
	case mismatch != nil:
		m.mismatches[index] = *mismatch
		status = stepMismatch
	}
	if err == nil {
		m.cursor++
		m.last = &step
		m.teTable.SetRows(teRows(m.sim.Genome()))
	}

	if item, ok := m.list.Items()[index].(StepItem); ok {
		item.status = status
		m.list.SetItem(index, item)
	}
	m.list.Select(min(m.cursor, len(m.scn.Ops)-1))
	return m
}

// reset discards the genome and marks every step pending.
func reset(m model) model {
	m.sim = core.NewSimulation(m.kind())
	m.cursor = 0
	m.last = nil
	m.err = nil
	m.mismatches = make(map[int]core.Mismatch)
	m.teTable.SetRows(nil)
	m.list.SetItems(stepItems(m.scn))
	m.list.Select(0)
	return m
}

// switchEngine moves to the next genome implementation and replays the steps
// applied so far on it.
func switchEngine(m model) model {
	applied := m.cursor
	m.kindIdx = (m.kindIdx + 1) % len(m.kinds)
	m = reset(m)
	for m.cursor < applied && m.err == nil {
		m = stepForward(m)
	}
	return m
}

func toggleAutoplay(m model) (model, tea.Cmd) {
	switch {
	case m.player == nil || m.player.Done():
		if m.done() || m.err != nil {
			return m, nil
		}
		m.player = session.NewPlayer(m.clock, m.interval, len(m.scn.Ops))
		m.player.Seek(m.cursor)
		m.player.Start()
		return m, waitForPlayer(m.player)
	case m.player.Paused():
		m.player.Seek(m.cursor)
		m.player.Resume()
		return m, waitForPlayer(m.player)
	default:
		m.player.Pause()
		return m, nil
	}
}

func handlePlayerMsg(m model, msg playerMsg) (model, tea.Cmd) {
	// Events from a player that was replaced or stopped are stale.
	if m.player == nil || msg.player != m.player {
		return m, nil
	}
	switch msg.event.Kind {
	case session.EventTick:
		if msg.event.Step == m.cursor {
			m = stepForward(m)
		}
	case session.EventPaused, session.EventFinished, session.EventStopped:
		return m, nil
	}
	if m.player == nil {
		return m, nil
	}
	return m, waitForPlayer(m.player)
}

func (m *model) stopPlayer() {
	if m.player != nil {
		m.player.Stop()
		m.player = nil
	}
}

func handleWindowResize(m model, msg tea.WindowSizeMsg) (model, tea.Cmd) {
	m.height = msg.Height
	m.width = msg.Width
	m.list.SetHeight(max(msg.Height-14, 5))
	m.list.SetWidth(msg.Width / 2)
	m.teTable.SetHeight(max(msg.Height-16, 5))
	return m, nil
}
