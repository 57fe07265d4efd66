package distributions

import (
	"math"
	"testing"
)

// fixedSource returns preset floats/words for deterministic distribution tests.
type fixedSource struct {
	floats []float64
	fi     int
	words  []uint64
	wi     int
}

func (f *fixedSource) NextFloat64() float64 {
	v := f.floats[f.fi%len(f.floats)]
	f.fi++
	return v
}

func (f *fixedSource) NextU64() uint64 {
	v := f.words[f.wi%len(f.words)]
	f.wi++
	return v
}

func (f *fixedSource) NextU32() uint32 {
	return uint32(f.NextU64())
}

func TestUniformSampleWithinBounds(t *testing.T) {
	src := &fixedSource{floats: []float64{0, 0.5, 0.999}}
	u := Uniform{Min: 10, Max: 20}
	for i := 0; i < 3; i++ {
		v := u.Sample(src)
		if v < 10 || v >= 20 {
			t.Fatalf("uniform sample out of range: %v", v)
		}
	}
}

func TestUniformMeanVariance(t *testing.T) {
	u := Uniform{Min: 0, Max: 10}
	if u.Mean() != 5 {
		t.Fatalf("expected mean 5, got %v", u.Mean())
	}
	if math.Abs(u.Variance()-100.0/12) > 1e-9 {
		t.Fatalf("unexpected variance: %v", u.Variance())
	}
}

func TestIntegerSampleSmallRangeInBounds(t *testing.T) {
	src := &fixedSource{floats: []float64{0, 0.25, 0.99}}
	r := Integer{Min: 5, Max: 9}
	for i := 0; i < 3; i++ {
		v := r.Sample(src)
		if v < 5 || v > 9 {
			t.Fatalf("integer sample out of range: %v", v)
		}
	}
}

func TestBernoulliRespectsProbability(t *testing.T) {
	b := Bernoulli{P: 0.5}
	src := &fixedSource{floats: []float64{0.1, 0.9}}
	if !b.Sample(src) {
		t.Fatal("expected true for draw below p")
	}
	if b.Sample(src) {
		t.Fatal("expected false for draw above p")
	}
}

func TestExponentialIsNonNegative(t *testing.T) {
	e := Exponential{Lambda: 2}
	src := &fixedSource{floats: []float64{0.3, 0.7, 0.99}}
	for i := 0; i < 3; i++ {
		v := e.Sample(src)
		if v < 0 {
			t.Fatalf("exponential sample negative: %v", v)
		}
	}
}

func TestGeometricMeanFormula(t *testing.T) {
	g := Geometric{P: 0.25}
	want := (1 - g.P) / g.P
	if g.Mean() != want {
		t.Fatalf("expected mean %v, got %v", want, g.Mean())
	}
}

func TestBinomialSampleWithinBounds(t *testing.T) {
	floats := make([]float64, 0, 200)
	for i := 0; i < 200; i++ {
		floats = append(floats, 0.5)
	}
	src := &fixedSource{floats: floats}

	small := Binomial{N: 10, P: 0.5}
	v := small.Sample(src)
	if v < 0 || v > 10 {
		t.Fatalf("small binomial out of bounds: %v", v)
	}

	large := Binomial{N: 200, P: 0.5}
	v2 := large.Sample(src)
	if v2 < 0 || v2 > 200 {
		t.Fatalf("large binomial out of bounds: %v", v2)
	}
}

func TestPoissonSampleNonNegative(t *testing.T) {
	floats := make([]float64, 0, 50)
	for i := 0; i < 50; i++ {
		floats = append(floats, 0.4)
	}
	src := &fixedSource{floats: floats}

	small := Poisson{Lambda: 3}
	if v := small.Sample(src); v < 0 {
		t.Fatalf("poisson (knuth) sample negative: %v", v)
	}
}

func TestNormalBoxMullerStandardProducesFiniteValues(t *testing.T) {
	src := &fixedSource{floats: []float64{0.4, 0.6, 0.3, 0.7}}
	n := NewNormal(0, 1, BoxMullerStandard)
	for i := 0; i < 4; i++ {
		v := n.Sample(src)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("normal sample not finite: %v", v)
		}
	}
}

func TestNormalCDFAtMeanIsHalf(t *testing.T) {
	n := NewNormal(0, 1, BoxMullerStandard)
	if math.Abs(n.CumulativeProbability(0)-0.5) > 1e-9 {
		t.Fatalf("expected CDF(mean) == 0.5, got %v", n.CumulativeProbability(0))
	}
}

func TestNormalQuantileInvertsCDF(t *testing.T) {
	n := NewNormal(0, 1, BoxMullerStandard)
	p := 0.8
	x := n.Quantile(p)
	got := n.CumulativeProbability(x)
	if math.Abs(got-p) > 1e-3 {
		t.Fatalf("quantile/CDF round trip mismatch: want %v got %v", p, got)
	}
}
