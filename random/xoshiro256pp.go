package random

import "math/bits"

// xoshiro256PPJump is the precomputed jump polynomial (spec.md §4.8).
var xoshiro256PPJump = [4]uint64{
	0x180EC6D33CFD0ABA, 0xD5A61266F0C9392C,
	0xA9582618E03FC9AA, 0x39ABDC4529B1661C,
}

const xoshiro256ppJumpStride = 1 << 20

type xoshiro256pp struct {
	s       [4]uint64
	counter uint64
}

func newXoshiro256PP(seed Seed) Engine {
	w := expandSeedWords(seed, 4)
	e := &xoshiro256pp{s: [4]uint64{w[0], w[1], w[2], w[3]}}
	for i := 0; i < 32; i++ {
		e.step()
	}
	e.counter = 0
	return e
}

func (e *xoshiro256pp) step() uint64 {
	s := &e.s
	result := bits.RotateLeft64(s[0]+s[3], 23) + s[0]

	t := s[1] << 17
	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)

	e.counter++
	return result
}

func (e *xoshiro256pp) NextU64() uint64 { return e.step() }
func (e *xoshiro256pp) NextU32() uint32 { return uint32(e.step() >> 32) }
func (e *xoshiro256pp) NextFloat64() float64 {
	return float64(e.NextU64()>>11) * (1.0 / (1 << 53))
}

func (e *xoshiro256pp) jumpOnce() {
	var ns [4]uint64
	for _, word := range xoshiro256PPJump {
		for b := 0; b < 64; b++ {
			if word&(uint64(1)<<uint(b)) != 0 {
				for i := 0; i < 4; i++ {
					ns[i] ^= e.s[i]
				}
			}
			e.step()
		}
	}
	e.s = ns
}

func (e *xoshiro256pp) JumpAhead(steps uint64) {
	for steps >= xoshiro256ppJumpStride {
		e.jumpOnce()
		steps -= xoshiro256ppJumpStride
	}
	for ; steps > 0; steps-- {
		e.step()
	}
}

func (e *xoshiro256pp) State() EngineState {
	return EngineState{Kind: Xoshiro256PP, Words: append([]uint64{}, e.s[:]...), Counter: e.counter}
}

func (e *xoshiro256pp) SetState(s EngineState) {
	copy(e.s[:], s.Words)
	e.counter = s.Counter
}

func (e *xoshiro256pp) Clone() Engine {
	c := *e
	return &c
}

func (e *xoshiro256pp) Kind() EngineKind { return Xoshiro256PP }
