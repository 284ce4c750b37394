package session

import (
	"sync"
	"time"

	"tesim/internal/clock"
)

// EventKind is the kind of event emitted by a Player.
type EventKind int

const (
	EventTick EventKind = iota
	EventPaused
	EventResumed
	EventFinished
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventTick:
		return "tick"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventFinished:
		return "finished"
	case EventStopped:
		return "stopped"
	}
	return "unknown"
}

// Event is emitted on the player's channel. For EventTick, Step is the index
// of the scenario step the consumer should apply next.
type Event struct {
	Kind EventKind
	Step int
}

// Room kept in the event buffer for control events.
const reserved = 4

// Player steps through a scenario of Total steps, one step per tick. It never
// touches a genome: consumers apply the step named by each EventTick.
type Player struct {
	clock    clock.Clock
	interval time.Duration
	total    int

	mu       sync.Mutex
	position int
	paused   bool
	done     bool
	ticker   clock.Ticker
	halt     chan struct{}
	events   chan Event
	wg       sync.WaitGroup
}

// NewPlayer creates a player that ticks every interval on clk.
func NewPlayer(clk clock.Clock, interval time.Duration, total int) *Player {
	return &Player{
		clock:    clk,
		interval: interval,
		total:    total,
		events:   make(chan Event, 16),
	}
}

// Start begins playback from the current position.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.halt != nil || p.paused || p.done {
		return
	}
	if p.position >= p.total {
		p.done = true
		p.emitLocked(EventFinished)
		return
	}
	p.runLocked()
}

// Pause stops ticking until Resume.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.halt == nil || p.done {
		return
	}
	p.haltLocked()
	p.paused = true
	p.emitLocked(EventPaused)
}

// Resume continues a paused playback.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused || p.done {
		return
	}
	p.paused = false
	p.emitLocked(EventResumed)
	p.runLocked()
}

// Stop ends playback before the last step.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	p.haltLocked()
	p.done = true
	p.emitLocked(EventStopped)
}

// Seek moves the position, e.g. after the consumer stepped manually.
func (p *Player) Seek(step int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = max(0, min(step, p.total))
}

// Wait blocks until the ticking goroutine has exited.
func (p *Player) Wait() {
	p.wg.Wait()
}

func (p *Player) Events() <-chan Event { return p.events }

func (p *Player) Total() int { return p.total }

func (p *Player) Position() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Player) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Player) runLocked() {
	halt := make(chan struct{})
	ticker := p.clock.NewTicker(p.interval)
	p.halt, p.ticker = halt, ticker
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-halt:
				return
			case <-ticker.C():
				if !p.tick(halt) {
					return
				}
			}
		}
	}()
}

// tick emits the next step. A tick is skipped while the consumer is behind.
func (p *Player) tick(halt chan struct{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.halt != halt {
		return false
	}
	if len(p.events) >= cap(p.events)-reserved {
		return true
	}
	p.events <- Event{Kind: EventTick, Step: p.position}
	p.position++
	if p.position < p.total {
		return true
	}
	p.haltLocked()
	p.done = true
	p.emitLocked(EventFinished)
	return false
}

func (p *Player) haltLocked() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
	if p.halt != nil {
		close(p.halt)
		p.halt = nil
	}
}

func (p *Player) emitLocked(kind EventKind) {
	select {
	case p.events <- Event{Kind: kind, Step: p.position}:
	default:
	}
}
