package random

import (
	"encoding/hex"
	"fmt"

	"github.com/hun756/axrone/random/distributions"
)

// sampleSetRejectionThreshold is the fraction of n below which Sample
// builds a set via rejection rather than running a partial Fisher-Yates
// (spec.md §4.11).
const sampleSetRejectionThreshold = 0.15

// sequenceFilterMaxAttempts bounds Sequence.Filter before it gives up with
// ErrNoMatch (spec.md §4.11).
const sequenceFilterMaxAttempts = 100

// Generator is the user-facing facade over a single Engine: every
// higher-level draw (floats, picks, shuffles, UUIDs, sequences) goes
// through it so callers never touch an Engine directly.
type Generator struct {
	engine Engine
}

// New wraps an already-constructed engine in a Generator.
func New(engine Engine) *Generator {
	return &Generator{engine: engine}
}

// Create builds a Generator from an engine kind and seed in one step.
func Create(kind EngineKind, seed Seed) *Generator {
	return New(NewEngine(kind, seed))
}

func (g *Generator) Engine() Engine { return g.engine }

func (g *Generator) Float() float64 {
	return g.engine.NextFloat64()
}

func (g *Generator) FloatBetween(min, max float64) float64 {
	return distributions.Uniform{Min: min, Max: max}.Sample(g.engine)
}

// Int returns an inclusive random integer in [min, max].
func (g *Generator) Int(min, max int64) int64 {
	return distributions.Integer{Min: min, Max: max}.Sample(g.engine)
}

// Boolean draws a Bernoulli(p) outcome, raising synchronously if p is
// outside [0, 1] rather than returning a degenerate always-true/always-false
// distribution (spec.md §7).
func (g *Generator) Boolean(p float64) (bool, error) {
	b, err := distributions.NewBernoulli(p)
	if err != nil {
		return false, err
	}
	return b.Sample(g.engine), nil
}

// Pick returns a uniformly chosen element of arr.
func Pick[T any](g *Generator, arr []T) (T, error) {
	var zero T
	if len(arr) == 0 {
		return zero, &DomainError{Distribution: "pick", Reason: "empty input"}
	}
	idx := g.Int(0, int64(len(arr))-1)
	return arr[idx], nil
}

// WeightedPair is one (value, weight) entry for Weighted.
type WeightedPair[T any] struct {
	Value  T
	Weight float64
}

// Weighted performs a weighted-random pick. Weights must be non-negative
// and sum to a positive total (spec.md §4.11).
func Weighted[T any](g *Generator, pairs []WeightedPair[T]) (T, error) {
	var zero T
	total := 0.0
	for _, p := range pairs {
		if p.Weight < 0 {
			return zero, &OutOfRangeError{Param: "weight", Value: p.Weight, Want: ">= 0"}
		}
		total += p.Weight
	}
	if total <= 0 {
		return zero, &DomainError{Distribution: "weighted", Reason: "total weight must be positive"}
	}
	target := g.Float() * total
	acc := 0.0
	for _, p := range pairs {
		acc += p.Weight
		if target < acc {
			return p.Value, nil
		}
	}
	return pairs[len(pairs)-1].Value, nil
}

// Shuffle returns a new slice containing arr's elements in Fisher-Yates
// random order; arr itself is left untouched.
func Shuffle[T any](g *Generator, arr []T) []T {
	out := make([]T, len(arr))
	copy(out, arr)
	for i := len(out) - 1; i > 0; i-- {
		j := g.Int(0, int64(i))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Sample draws k distinct elements from arr without replacement. Below
// sampleSetRejectionThreshold*n it builds a set via rejection; otherwise
// it runs a partial Fisher-Yates (spec.md §4.11).
func Sample[T any](g *Generator, arr []T, k int) ([]T, error) {
	n := len(arr)
	if k < 0 {
		return nil, &OutOfRangeError{Param: "k", Value: k, Want: fmt.Sprintf("0..%d", n)}
	}
	if k > n {
		return nil, fmt.Errorf("random: requested %d elements from a pool of %d: %w", k, n, ErrPoolDepleted)
	}
	if k == 0 {
		return []T{}, nil
	}

	if float64(k) < sampleSetRejectionThreshold*float64(n) {
		chosen := make(map[int64]struct{}, k)
		out := make([]T, 0, k)
		for len(out) < k {
			idx := g.Int(0, int64(n)-1)
			if _, ok := chosen[idx]; ok {
				continue
			}
			chosen[idx] = struct{}{}
			out = append(out, arr[idx])
		}
		return out, nil
	}

	work := make([]T, n)
	copy(work, arr)
	for i := 0; i < k; i++ {
		j := g.Int(int64(i), int64(n)-1)
		work[i], work[j] = work[j], work[i]
	}
	return work[:k], nil
}

// UUID returns a version-4 RFC 4122 UUID string.
func (g *Generator) UUID() string {
	b := g.Bytes(16)
	b[6] = (b[6] & 0x0F) | 0x40
	b[8] = (b[8] & 0x3F) | 0x80
	return fmt.Sprintf("%s-%s-%s-%s-%s",
		hex.EncodeToString(b[0:4]),
		hex.EncodeToString(b[4:6]),
		hex.EncodeToString(b[6:8]),
		hex.EncodeToString(b[8:10]),
		hex.EncodeToString(b[10:16]),
	)
}

func (g *Generator) Bytes(n int) []byte {
	out := make([]byte, n)
	i := 0
	for i+4 <= n {
		v := g.engine.NextU32()
		out[i] = byte(v)
		out[i+1] = byte(v >> 8)
		out[i+2] = byte(v >> 16)
		out[i+3] = byte(v >> 24)
		i += 4
	}
	if i < n {
		v := g.engine.NextU32()
		for ; i < n; i++ {
			out[i] = byte(v)
			v >>= 8
		}
	}
	return out
}

// String draws a random string of length n from charset. When len(charset)
// is a power of two, it masks a 32-bit draw per character; otherwise it
// reduces modulo (spec.md §4.11).
func (g *Generator) String(n int, charset string) string {
	clen := len(charset)
	out := make([]byte, n)
	if clen > 0 && clen&(clen-1) == 0 {
		mask := uint32(clen - 1)
		for i := range out {
			out[i] = charset[g.engine.NextU32()&mask]
		}
		return string(out)
	}
	for i := range out {
		out[i] = charset[int(g.engine.NextU32())%clen]
	}
	return string(out)
}

// Fork derives a child Generator whose engine state is the parent's state
// XOR-shifted by the parent's output counter plus one, so parent and child
// diverge immediately, even before the parent has drawn anything
// (spec.md §4.11).
func (g *Generator) Fork() *Generator {
	state := g.engine.State()
	child := g.engine.Clone()
	shifted := make([]uint64, len(state.Words))
	for i, w := range state.Words {
		shifted[i] = w ^ ((state.Counter + 1) << uint(1+i%63))
	}
	child.SetState(EngineState{Kind: state.Kind, Words: shifted, Counter: 0})
	return New(child)
}

// SetEngine replaces the generator's engine with one of kind, preserving
// as much state as possible by handing it the current state directly. On
// a state-shape mismatch it derives a fresh seed from the current state
// vector instead (spec.md §4.11).
func (g *Generator) SetEngine(kind EngineKind) {
	cur := g.engine.State()
	next := NewEngine(kind, deriveSeedFromState(cur))
	if kind == cur.Kind {
		next.SetState(cur)
	}
	g.engine = next
}

// Seq wraps gen (typically a closure over g) as a lazy stream.
func Seq[T any](gen func() T) Sequence[T] {
	return NewSequence(gen)
}

func deriveSeedFromState(s EngineState) Seed {
	acc := s.Counter
	for _, w := range s.Words {
		acc ^= w
	}
	v := int64(acc)
	return IntSeed(v)
}
