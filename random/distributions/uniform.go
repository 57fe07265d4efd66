package distributions

import "fmt"

// Uniform samples a continuous value in [Min, Max).
type Uniform struct {
	Min, Max float64
}

// NewUniform validates Min < Max before constructing Uniform (spec.md §7:
// parameters are validated synchronously at construction).
func NewUniform(min, max float64) (Uniform, error) {
	if !(min < max) {
		return Uniform{}, &OutOfRangeError{Param: "max", Value: max, Want: fmt.Sprintf("> min (%v)", min)}
	}
	return Uniform{Min: min, Max: max}, nil
}

func (u Uniform) Sample(src Source) float64 {
	return u.Min + (u.Max-u.Min)*src.NextFloat64()
}

func (u Uniform) Probability(x float64) float64 {
	if x < u.Min || x >= u.Max {
		return 0
	}
	return 1 / (u.Max - u.Min)
}

func (u Uniform) CumulativeProbability(x float64) float64 {
	switch {
	case x < u.Min:
		return 0
	case x >= u.Max:
		return 1
	default:
		return (x - u.Min) / (u.Max - u.Min)
	}
}

func (u Uniform) Quantile(p float64) float64 {
	return u.Min + p*(u.Max-u.Min)
}

func (u Uniform) Mean() float64     { return (u.Min + u.Max) / 2 }
func (u Uniform) Variance() float64 { d := u.Max - u.Min; return d * d / 12 }
func (u Uniform) StdDev() float64   { return (u.Max - u.Min) / 3.4641016151377544 } // sqrt(12)
