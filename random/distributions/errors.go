package distributions

import "fmt"

// OutOfRangeError reports a parameter outside its declared domain (e.g. a
// probability outside [0,1], or min > max). Defined here rather than in
// the random package so construction-time validation (spec.md §7: "the
// Random Core raises synchronously for invalid parameters at construction
// of each distribution") can live next to the distributions it guards;
// random re-exports it as random.OutOfRangeError.
type OutOfRangeError struct {
	Param string
	Value any
	Want  string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("distributions: parameter %q = %v is out of range, want %s", e.Param, e.Value, e.Want)
}

// DomainError reports a structurally invalid distribution parameter (e.g.
// an empty pick input, a non-positive total weight).
type DomainError struct {
	Distribution string
	Reason       string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("distributions: %s: %s", e.Distribution, e.Reason)
}
