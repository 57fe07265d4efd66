package distributions

import "fmt"

// Integer samples an inclusive integer range [Min, Max].
type Integer struct {
	Min, Max int64
}

// integerRejectionThreshold is the range size above which Sample switches
// from the direct floor formula to rejection sampling on 64-bit draws
// (spec.md §4.10: "ranges > 2^32 via rejection sampling").
const integerRejectionThreshold = uint64(1) << 32

// NewInteger validates Min <= Max before constructing Integer.
func NewInteger(min, max int64) (Integer, error) {
	if min > max {
		return Integer{}, &OutOfRangeError{Param: "max", Value: max, Want: fmt.Sprintf(">= min (%v)", min)}
	}
	return Integer{Min: min, Max: max}, nil
}

func (r Integer) Sample(src Source) int64 {
	span := uint64(r.Max-r.Min) + 1
	if span <= integerRejectionThreshold {
		return r.Min + int64(float64(span)*src.NextFloat64())
	}
	// Rejection sampling: discard draws in the partial final bucket to
	// keep every outcome equiprobable.
	limit := (^uint64(0) / span) * span
	for {
		v := src.NextU64()
		if v < limit {
			return r.Min + int64(v%span)
		}
	}
}

func (r Integer) Probability(x int64) float64 {
	if x < r.Min || x > r.Max {
		return 0
	}
	return 1 / float64(r.Max-r.Min+1)
}

func (r Integer) CumulativeProbability(x int64) float64 {
	switch {
	case x < r.Min:
		return 0
	case x >= r.Max:
		return 1
	default:
		return float64(x-r.Min+1) / float64(r.Max-r.Min+1)
	}
}

func (r Integer) Mean() float64 { return float64(r.Min+r.Max) / 2 }
func (r Integer) Variance() float64 {
	n := float64(r.Max - r.Min + 1)
	return (n*n - 1) / 12
}
