package core

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"tesim/internal/clock"
	"tesim/pkg/genome"
	"tesim/pkg/scenario"
)

// ErrNoGenome is returned when a step runs before any size step.
var ErrNoGenome = errors.New("no genome: scenario must start with a size step")

// Step is the observable state of a genome right after one scenario step.
type Step struct {
	Index     int
	Op        scenario.Op
	ID        int  // id returned by insert or copy
	NoResult  bool // copy of a TE that was not active
	Rendering string
	Length    int
	Active    []int
}

// Mismatch is a failed expect step.
type Mismatch struct {
	Step int
	Op   scenario.Op
	Want string
	Got  string
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("line %d: %s: want %s, got %s", m.Op.Line+1, m.Op.Kind, m.Want, m.Got)
}

// Simulation applies scenario steps to one genome implementation. A size step
// replaces the genome with a fresh one.
type Simulation struct {
	kind   genome.Kind
	g      genome.Genome
	verify bool
	index  int
}

// NewSimulation creates a simulation without a genome; the first step must be
// a size step.
func NewSimulation(kind genome.Kind) *Simulation {
	return &Simulation{kind: kind}
}

// VerifyStructure makes the simulation check the linked chain after every
// mutating step.
func (s *Simulation) VerifyStructure(on bool) { s.verify = on }

func (s *Simulation) Kind() genome.Kind { return s.kind }

// Genome returns the current genome, or nil before the first size step.
func (s *Simulation) Genome() genome.Genome { return s.g }

// Apply runs one step. Failed expectations are reported through the returned
// Mismatch, not as errors; errors mean the step itself could not run.
func (s *Simulation) Apply(op scenario.Op) (Step, *Mismatch, error) {
	step := Step{Index: s.index, Op: op}
	s.index++

	if op.Kind != scenario.OpSize && s.g == nil {
		return step, nil, ErrNoGenome
	}

	var mismatch *Mismatch
	switch op.Kind {
	case scenario.OpSize:
		g, err := genome.New(s.kind, op.Args[0])
		if err != nil {
			return step, nil, err
		}
		s.g = g
	case scenario.OpInsert:
		id, err := s.g.InsertTE(op.Args[0], op.Args[1])
		if err != nil {
			return step, nil, fmt.Errorf("line %d: %s: %w", op.Line+1, op, err)
		}
		step.ID = id
	case scenario.OpCopy:
		id, ok := s.g.CopyTE(op.Args[0], op.Args[1])
		step.ID, step.NoResult = id, !ok
	case scenario.OpDisable:
		s.g.DisableTE(op.Args[0])
	case scenario.OpExpect:
		if got := s.g.String(); got != op.Text {
			mismatch = &Mismatch{Step: step.Index, Op: op, Want: strconv.Quote(op.Text), Got: strconv.Quote(got)}
		}
	case scenario.OpExpectLength:
		if got := s.g.Len(); got != op.Args[0] {
			mismatch = &Mismatch{Step: step.Index, Op: op, Want: strconv.Itoa(op.Args[0]), Got: strconv.Itoa(got)}
		}
	case scenario.OpExpectActive:
		if got := s.g.ActiveTEs(); !sameIDs(got, op.Args) {
			mismatch = &Mismatch{Step: step.Index, Op: op, Want: formatIDs(op.Args), Got: formatIDs(got)}
		}
	default:
		return step, nil, fmt.Errorf("line %d: unsupported step %q", op.Line+1, op.Kind)
	}

	if s.verify && op.Mutates() {
		if v, ok := s.g.(interface{ Verify() error }); ok {
			if err := v.Verify(); err != nil {
				return step, nil, fmt.Errorf("line %d: after %s: %w", op.Line+1, op, err)
			}
		}
	}

	step.Rendering = s.g.String()
	step.Length = s.g.Len()
	step.Active = s.g.ActiveTEs()
	return step, mismatch, nil
}

// Trace is the full record of a scenario run on one implementation.
type Trace struct {
	Scenario   scenario.Scenario
	Engine     genome.Kind
	Steps      []Step
	Mismatches []Mismatch
	Elapsed    time.Duration
}

func (t *Trace) Passed() bool { return len(t.Mismatches) == 0 }

// Observed returns the rendering after every step, indexed like the
// scenario's steps.
func (t *Trace) Observed() []string {
	out := make([]string, len(t.Steps))
	for i, s := range t.Steps {
		out[i] = s.Rendering
	}
	return out
}

// Final returns the last step, or false for an empty scenario.
func (t *Trace) Final() (Step, bool) {
	if len(t.Steps) == 0 {
		return Step{}, false
	}
	return t.Steps[len(t.Steps)-1], true
}

// Divergence describes the first step at which implementations disagree.
type Divergence struct {
	Step  int
	Op    scenario.Op
	Steps map[genome.Kind]Step
}

func (d *Divergence) Error() string {
	kinds := make([]string, 0, len(d.Steps))
	for k := range d.Steps {
		kinds = append(kinds, string(k))
	}
	slices.Sort(kinds)
	var b strings.Builder
	fmt.Fprintf(&b, "engines diverge at line %d (%s):", d.Op.Line+1, d.Op)
	for _, k := range kinds {
		s := d.Steps[genome.Kind(k)]
		fmt.Fprintf(&b, "\n  %-10s id=%d no-result=%v len=%d active=%s %s", k, s.ID, s.NoResult, s.Length, formatIDs(s.Active), s.Rendering)
	}
	return b.String()
}

// Runner runs scenarios and times them with its clock. A nil Logger uses
// slog.Default.
type Runner struct {
	Clock  clock.Clock
	Logger *slog.Logger
}

// NewRunner returns a Runner on the wall clock.
func NewRunner() Runner {
	return Runner{Clock: clock.RealClock{}}
}

// Run applies every step of scn to a fresh simulation of the given kind.
func (r Runner) Run(scn scenario.Scenario, kind genome.Kind) (*Trace, error) {
	sim := NewSimulation(kind)
	sim.VerifyStructure(true)
	trace := &Trace{Scenario: scn, Engine: kind, Steps: make([]Step, 0, len(scn.Ops))}

	start := r.Clock.Now()
	for _, op := range scn.Ops {
		step, mismatch, err := sim.Apply(op)
		if err != nil {
			return trace, fmt.Errorf("%s on %s: %w", scn.Name, kind, err)
		}
		trace.Steps = append(trace.Steps, step)
		if mismatch != nil {
			trace.Mismatches = append(trace.Mismatches, *mismatch)
		}
	}
	trace.Elapsed = r.Clock.Since(start)
	r.logger().Debug("scenario run",
		slog.String("scenario", scn.Name),
		slog.String("engine", string(kind)),
		slog.Int("steps", len(trace.Steps)),
		slog.Int("mismatches", len(trace.Mismatches)),
		slog.Duration("elapsed", trace.Elapsed))
	return trace, nil
}

func (r Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Compare runs scn on every kind in lockstep and returns the first step at
// which their observable state differs, or nil when they agree throughout.
func (r Runner) Compare(scn scenario.Scenario, kinds ...genome.Kind) (*Divergence, error) {
	if len(kinds) < 2 {
		return nil, fmt.Errorf("need at least two engines to compare, got %d", len(kinds))
	}
	sims := make([]*Simulation, len(kinds))
	for i, k := range kinds {
		sims[i] = NewSimulation(k)
	}

	for i, op := range scn.Ops {
		steps := make(map[genome.Kind]Step, len(kinds))
		var errs []error
		for _, sim := range sims {
			step, _, err := sim.Apply(op)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			steps[sim.Kind()] = step
		}
		if len(errs) == len(sims) {
			return nil, fmt.Errorf("%s: %w", scn.Name, errs[0])
		}
		if len(errs) > 0 || !agree(steps) {
			r.logger().Debug("engines diverge",
				slog.String("scenario", scn.Name),
				slog.Int("step", i),
				slog.String("op", op.String()))
			return &Divergence{Step: i, Op: op, Steps: steps}, nil
		}
	}
	return nil, nil
}

// RunScenario runs scn on one implementation using the wall clock.
func RunScenario(scn scenario.Scenario, kind genome.Kind) (*Trace, error) {
	return NewRunner().Run(scn, kind)
}

// CompareEngines runs scn on every implementation in lockstep.
func CompareEngines(scn scenario.Scenario, kinds ...genome.Kind) (*Divergence, error) {
	return NewRunner().Compare(scn, kinds...)
}

func agree(steps map[genome.Kind]Step) bool {
	var ref *Step
	for _, s := range steps {
		if ref == nil {
			ref = &s
			continue
		}
		if s.ID != ref.ID || s.NoResult != ref.NoResult || s.Length != ref.Length ||
			s.Rendering != ref.Rendering || !slices.Equal(s.Active, ref.Active) {
			return false
		}
	}
	return true
}

func sameIDs(got, want []int) bool {
	if len(got) == 0 && len(want) == 0 {
		return true
	}
	return slices.Equal(got, want)
}

func formatIDs(ids []int) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
