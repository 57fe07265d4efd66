package distributions

import "math"

// Exponential samples Exp(Lambda) via inverse-CDF (spec.md §4.10).
type Exponential struct {
	Lambda float64
}

// NewExponential validates Lambda > 0 before constructing Exponential.
func NewExponential(lambda float64) (Exponential, error) {
	if !(lambda > 0) {
		return Exponential{}, &OutOfRangeError{Param: "lambda", Value: lambda, Want: "> 0"}
	}
	return Exponential{Lambda: lambda}, nil
}

func (e Exponential) Sample(src Source) float64 {
	u := src.NextFloat64()
	return -math.Log(1-u) / e.Lambda
}

func (e Exponential) Probability(x float64) float64 {
	if x < 0 {
		return 0
	}
	return e.Lambda * math.Exp(-e.Lambda*x)
}

func (e Exponential) CumulativeProbability(x float64) float64 {
	if x < 0 {
		return 0
	}
	return 1 - math.Exp(-e.Lambda*x)
}

func (e Exponential) Quantile(p float64) float64 {
	return -math.Log(1-p) / e.Lambda
}

func (e Exponential) Mean() float64     { return 1 / e.Lambda }
func (e Exponential) Variance() float64 { return 1 / (e.Lambda * e.Lambda) }
func (e Exponential) StdDev() float64   { return 1 / e.Lambda }
