package random

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// cryptoEngine delegates to the platform CSPRNG. It has no meaningful
// get_state/set_state/clone or jump_ahead — each draw is independent of any
// prior one — so without a fallback engine those operations only carry the
// call counter rather than reproducing a stream, which spec.md §4.8 only
// promises for the seeded algorithmic engines.
type cryptoEngine struct {
	fallback Engine // non-nil only if the platform source is unavailable
	counter  uint64
}

func newCryptoEngine(seed Seed) Engine {
	var probe [8]byte
	if _, err := rand.Read(probe[:]); err != nil {
		// Platform CSPRNG unavailable: fall back to Xoshiro256++ seeded
		// from wall clock (spec.md §4.8).
		return &cryptoEngine{fallback: newXoshiro256PP(walClockSeed())}
	}
	return &cryptoEngine{}
}

func walClockSeed() Seed {
	return IntSeed(time.Now().UnixNano())
}

func (e *cryptoEngine) readU64() uint64 {
	if e.fallback != nil {
		return e.fallback.NextU64()
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// The platform source failed after construction succeeded; fall
		// back permanently rather than return a zeroed draw.
		e.fallback = newXoshiro256PP(walClockSeed())
		return e.fallback.NextU64()
	}
	return binary.LittleEndian.Uint64(b[:])
}

func (e *cryptoEngine) NextU64() uint64 {
	e.counter++
	return e.readU64()
}

func (e *cryptoEngine) NextU32() uint32 {
	return uint32(e.NextU64() >> 32)
}

func (e *cryptoEngine) NextFloat64() float64 {
	return float64(e.NextU64()>>11) * (1.0 / (1 << 53))
}

// JumpAhead is a no-op for the CSPRNG path: every draw is already
// independent, so "skipping ahead" has no observable effect beyond the
// fallback engine, where it delegates.
func (e *cryptoEngine) JumpAhead(steps uint64) {
	if e.fallback != nil {
		e.fallback.JumpAhead(steps)
	}
	e.counter += steps
}

func (e *cryptoEngine) State() EngineState {
	if e.fallback != nil {
		s := e.fallback.State()
		s.Kind = CryptoKind
		return s
	}
	return EngineState{Kind: CryptoKind, Counter: e.counter}
}

func (e *cryptoEngine) SetState(s EngineState) {
	if e.fallback != nil {
		e.fallback.SetState(EngineState{Kind: Xoshiro256PP, Words: s.Words, Counter: s.Counter})
	}
	e.counter = s.Counter
}

func (e *cryptoEngine) Clone() Engine {
	c := &cryptoEngine{counter: e.counter}
	if e.fallback != nil {
		c.fallback = e.fallback.Clone()
	}
	return c
}

func (e *cryptoEngine) Kind() EngineKind { return CryptoKind }
