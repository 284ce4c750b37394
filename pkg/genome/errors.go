package genome

import "errors"

var (
	// ErrPositionOutOfRange indicates an insertion point outside [0, Len()].
	ErrPositionOutOfRange = errors.New("insertion position out of range")

	// ErrInvalidLength indicates a non-positive TE length.
	ErrInvalidLength = errors.New("TE length must be positive")

	// ErrUnknownKind indicates an unrecognized genome implementation name.
	ErrUnknownKind = errors.New("unknown genome kind")
)

// ErrCorruptChain is reported by LinkedGenome.Verify when walking the chain
// from the anchor does not yield positions 0, 1, 2, ... back to the anchor.
var ErrCorruptChain = errors.New("linked genome chain is corrupt")
