package random

import (
	"errors"

	"github.com/hun756/axrone/random/distributions"
)

// Sentinel errors for Random Core parameter validation, following the same
// package-level error variable convention as the events package (spec.md
// §7: "the Random Core raises synchronously for invalid parameters ... it
// never returns sentinel values" meaning zero-value results — here that
// still means a genuine Go error return, not a panic).
var (
	// ErrPoolDepleted is wrapped into the error Sample returns when a
	// sampling-without-replacement request asks for more elements than are
	// available; callers can match it with errors.Is.
	ErrPoolDepleted = errors.New("random: sample pool depleted")

	// ErrNoMatch is the value a Filter stream panics with when no value
	// satisfies the predicate within the configured attempt budget;
	// Sequence.TryTake recovers it into an error return.
	ErrNoMatch = errors.New("random: no matching value found within attempt budget")
)

// OutOfRangeError and DomainError are re-exported from distributions,
// where they are defined, so distribution construction and Generator-level
// validation share one error vocabulary. distributions cannot import
// random (random already imports distributions), so the canonical
// definitions live there.
type (
	OutOfRangeError = distributions.OutOfRangeError
	DomainError     = distributions.DomainError
)
