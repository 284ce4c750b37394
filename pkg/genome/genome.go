// Package genome models a circular genome into which transposable elements
// (TEs) are inserted, copied and disabled.
//
// Two implementations satisfy the Genome interface: ContiguousGenome keeps the
// symbols in a slice, LinkedGenome keeps them in a circular chain of
// position-tracking nodes. For any sequence of operations both produce the same
// renderings, lengths and active TE lists.
//
// Genomes are not safe for concurrent use.
package genome

import (
	"fmt"
	"strings"
)

// Genome is the operation surface shared by every implementation.
type Genome interface {
	// InsertTE splices a new active TE of the given length at pos and returns
	// its id. Active TEs whose span contains the insertion point are disabled.
	// pos must be in [0, Len()] and length must be positive; otherwise the
	// genome is left untouched and an error is returned.
	InsertTE(pos, length int) (int, error)

	// CopyTE inserts a copy of an active TE at its start plus offset, wrapped
	// modulo the current length. It reports false, without mutating anything,
	// when te is not active.
	CopyTE(te, offset int) (int, bool)

	// DisableTE marks an active TE's span inactive. Unknown or already
	// inactive ids are ignored.
	DisableTE(te int)

	// ActiveTEs returns the ids of active TEs in insertion order.
	ActiveTEs() []int

	// Span returns the current span of an active TE.
	Span(te int) (TE, bool)

	Len() int
	String() string
}

// Kind names a Genome implementation.
type Kind string

const (
	KindContiguous Kind = "contiguous"
	KindLinked     Kind = "linked"
)

// Kinds lists every implementation in a stable order.
func Kinds() []Kind {
	return []Kind{KindContiguous, KindLinked}
}

// ParseKind resolves a user supplied implementation name.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "contiguous", "list", "slice":
		return KindContiguous, nil
	case "linked", "linkedlist", "linked-list":
		return KindLinked, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// New creates a genome of n gaps backed by the given implementation.
func New(kind Kind, n int) (Genome, error) {
	if n < 0 {
		return nil, fmt.Errorf("genome size must not be negative, got %d", n)
	}
	switch kind {
	case KindContiguous:
		return NewContiguousGenome(n), nil
	case KindLinked:
		return NewLinkedGenome(n), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func checkInsert(pos, length, size int) error {
	if pos < 0 || pos > size {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrPositionOutOfRange, pos, size)
	}
	if length <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}
	return nil
}

// wrap maps start+offset onto [0, size).
func wrap(start, offset, size int) int {
	return ((start+offset)%size + size) % size
}
