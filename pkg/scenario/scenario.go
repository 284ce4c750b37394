package scenario

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// OpKind is the verb of a scenario step.
type OpKind string

const (
	OpSize         OpKind = "size"
	OpInsert       OpKind = "insert"
	OpCopy         OpKind = "copy"
	OpDisable      OpKind = "disable"
	OpExpect       OpKind = "expect"
	OpExpectLength OpKind = "expect-length"
	OpExpectActive OpKind = "expect-active"
)

// Op is one step of a scenario, parsed from a single list item.
type Op struct {
	Kind OpKind
	Args []int  // numeric arguments, in source order
	Text string // expected rendering for OpExpect

	Line   int    // 0-based line in the source document
	Indent string // text in front of the step on its line, e.g. "- "
}

// Mutates reports whether the step changes the genome.
func (o Op) Mutates() bool {
	switch o.Kind {
	case OpSize, OpInsert, OpCopy, OpDisable:
		return true
	}
	return false
}

// String renders the step the way it is written in a scenario file.
func (o Op) String() string {
	switch o.Kind {
	case OpExpect:
		if o.Text == "" {
			return string(o.Kind)
		}
		return fmt.Sprintf("%s %s", o.Kind, o.Text)
	case OpExpectActive:
		if len(o.Args) == 0 {
			return fmt.Sprintf("%s none", o.Kind)
		}
	}
	parts := make([]string, 0, len(o.Args)+1)
	parts = append(parts, string(o.Kind))
	for _, a := range o.Args {
		parts = append(parts, strconv.Itoa(a))
	}
	return strings.Join(parts, " ")
}

// Scenario is a named, ordered list of steps.
type Scenario struct {
	Name string
	Path string
	Ops  []Op
}

// Fingerprint hashes the steps so runs of the same scenario can be grouped
// even when the file is renamed.
func (s Scenario) Fingerprint() string {
	h := sha256.New()
	for _, op := range s.Ops {
		fmt.Fprintln(h, op.String())
	}
	return hex.EncodeToString(h.Sum(nil))
}

// MutatingSteps counts the steps that change the genome.
func (s Scenario) MutatingSteps() int {
	n := 0
	for _, op := range s.Ops {
		if op.Mutates() {
			n++
		}
	}
	return n
}
