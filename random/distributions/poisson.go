package distributions

import (
	"math"
	"sync"
)

// poissonAtkinsonThreshold is the λ at or above which Sample switches from
// Knuth's product-of-uniforms to Atkinson's rejection method (spec.md
// §4.10).
const poissonAtkinsonThreshold = 10.0

// Poisson samples Poisson(Lambda).
type Poisson struct {
	Lambda float64
}

// NewPoisson validates Lambda > 0 before constructing Poisson.
func NewPoisson(lambda float64) (Poisson, error) {
	if !(lambda > 0) {
		return Poisson{}, &OutOfRangeError{Param: "lambda", Value: lambda, Want: "> 0"}
	}
	return Poisson{Lambda: lambda}, nil
}

func (p Poisson) Sample(src Source) int {
	if p.Lambda < poissonAtkinsonThreshold {
		return p.sampleKnuth(src)
	}
	return p.sampleAtkinson(src)
}

func (p Poisson) sampleKnuth(src Source) int {
	l := math.Exp(-p.Lambda)
	k := 0
	product := 1.0
	for {
		product *= src.NextFloat64()
		if product <= l {
			return k
		}
		k++
	}
}

// sampleAtkinson implements Atkinson's rejection algorithm using a
// logistic envelope, with factorial terms from a memoized factorial
// cache.
func (p Poisson) sampleAtkinson(src Source) int {
	c := 0.767 - 3.36/p.Lambda
	beta := math.Pi / math.Sqrt(3*p.Lambda)
	alpha := beta * p.Lambda
	k := math.Log(c) - p.Lambda - math.Log(beta)

	for {
		u := src.NextFloat64()
		x := (alpha - math.Log((1-u)/u)) / beta
		n := math.Floor(x + 0.5)
		if n < 0 {
			continue
		}
		v := src.NextFloat64()
		y := alpha - beta*x
		lhs := y + math.Log(v/math.Pow(1+math.Exp(y), 2))
		rhs := k + n*math.Log(p.Lambda) - logFactorial(int(n))
		if lhs <= rhs {
			return int(n)
		}
	}
}

var (
	factorialCacheMu sync.RWMutex
	factorialCache   = map[int]float64{0: 0, 1: 0}
)

// logFactorial memoizes ln(n!), capping at 170 (170! is the last value
// that fits a float64 before overflowing to +Inf; spec.md §4.10).
// factorialCache is shared across every Poisson sample, including
// concurrent ones drawn from separate dispatcher callbacks, so access to
// it is guarded by factorialCacheMu.
func logFactorial(n int) float64 {
	if n > 170 {
		return math.Inf(1)
	}
	factorialCacheMu.RLock()
	v, ok := factorialCache[n]
	factorialCacheMu.RUnlock()
	if ok {
		return v
	}
	prev := logFactorial(n - 1)
	v = prev + math.Log(float64(n))
	factorialCacheMu.Lock()
	factorialCache[n] = v
	factorialCacheMu.Unlock()
	return v
}

func (p Poisson) Probability(k int) float64 {
	if k < 0 {
		return 0
	}
	return math.Exp(float64(k)*math.Log(p.Lambda) - p.Lambda - logFactorial(k))
}

func (p Poisson) Mean() float64     { return p.Lambda }
func (p Poisson) Variance() float64 { return p.Lambda }
func (p Poisson) StdDev() float64   { return math.Sqrt(p.Lambda) }
