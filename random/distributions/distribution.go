// Package distributions implements the sampling algorithms layered on top
// of a random.Engine's uniform draws (spec.md §4.10).
package distributions

// Source is the minimal engine surface a distribution needs: uniform
// draws in [0,1) and raw 64-bit words for rejection sampling. Defined
// locally (rather than importing random.Engine) so this package stays
// decoupled from engine construction and state management.
type Source interface {
	NextFloat64() float64
	NextU64() uint64
	NextU32() uint32
}
