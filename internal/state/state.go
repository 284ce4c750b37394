package state

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// RunKind distinguishes scenario runs from benchmarks.
type RunKind string

const (
	RunScenario  RunKind = "scenario"
	RunBenchmark RunKind = "benchmark"
)

// RunRecord is the report of one scenario run or benchmark, kept so that
// results from the two genome implementations can be compared later.
type RunRecord struct {
	ID          string         `json:"id"`
	Kind        RunKind        `json:"kind"`
	Name        string         `json:"name"`
	Fingerprint string         `json:"fingerprint,omitempty"` // scenario fingerprint or benchmark parameters
	CreatedAt   time.Time      `json:"created_at"`
	Passed      bool           `json:"passed"`
	Engines     []EngineResult `json:"engines"`
	Notes       []string       `json:"notes,omitempty"`
}

// EngineResult is what one genome implementation produced during a run.
type EngineResult struct {
	Engine      string        `json:"engine"`
	Size        int           `json:"size"` // initial genome size
	Steps       int           `json:"steps"`
	Elapsed     time.Duration `json:"elapsed"`
	FinalLength int           `json:"final_length"`
	ActiveTEs   []int         `json:"active_tes"`
	Rendering   string        `json:"rendering,omitempty"`
}

// NewRunRecord creates a record with a fresh id.
func NewRunRecord(kind RunKind, name string, createdAt time.Time) RunRecord {
	return RunRecord{
		ID:        uuid.NewString(),
		Kind:      kind,
		Name:      name,
		CreatedAt: createdAt,
	}
}

// TotalElapsed sums the elapsed time of every engine result.
func (r *RunRecord) TotalElapsed() time.Duration {
	var total time.Duration
	for _, e := range r.Engines {
		total += e.Elapsed
	}
	return total
}

// Engine returns the results for the named engine and size.
func (r *RunRecord) Engine(name string, size int) (EngineResult, bool) {
	for _, e := range r.Engines {
		if e.Engine == name && e.Size == size {
			return e, true
		}
	}
	return EngineResult{}, false
}

// Summary is a one-line description of the run.
func (r *RunRecord) Summary() string {
	status := "passed"
	if !r.Passed {
		status = "FAILED"
	}
	steps := 0
	for _, e := range r.Engines {
		steps += e.Steps
	}
	return fmt.Sprintf("%s %s: %s, %d engine results, %d steps in %s",
		r.Kind, r.Name, status, len(r.Engines), steps, r.TotalElapsed())
}

// SaveToFile serializes the RunRecord to a file as JSON.
func (r *RunRecord) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// LoadFromFile deserializes a RunRecord from a JSON file.
func LoadFromFile(path string) (*RunRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r RunRecord
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}
