package distributions

import "math"

// Geometric samples the number of failures before the first success, each
// with probability P (spec.md §4.10).
type Geometric struct {
	P float64
}

func (g Geometric) Sample(src Source) int {
	u := src.NextFloat64()
	return int(math.Floor(math.Log1p(-u) / math.Log1p(-g.P)))
}

func (g Geometric) Probability(k int) float64 {
	if k < 0 {
		return 0
	}
	return math.Pow(1-g.P, float64(k)) * g.P
}

func (g Geometric) CumulativeProbability(k int) float64 {
	if k < 0 {
		return 0
	}
	return 1 - math.Pow(1-g.P, float64(k+1))
}

func (g Geometric) Mean() float64     { return (1 - g.P) / g.P }
func (g Geometric) Variance() float64 { return (1 - g.P) / (g.P * g.P) }
