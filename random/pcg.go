package random

import "math/bits"

const pcgMultiplier uint64 = 6364136223846793005

type pcgXSHRR struct {
	state   uint64
	inc     uint64
	counter uint64
}

func newPCG(seed Seed) Engine {
	w := expandSeedWords(seed, 2)
	e := &pcgXSHRR{inc: w[1] | 1} // increment must be odd
	e.state = e.state*pcgMultiplier + e.inc
	e.state += w[0]
	e.state = e.state*pcgMultiplier + e.inc
	for i := 0; i < 16; i++ {
		e.step()
	}
	e.counter = 0
	return e
}

func (e *pcgXSHRR) step() uint32 {
	state := e.state
	e.state = state*pcgMultiplier + e.inc
	e.counter++

	xorshifted := uint32(((state >> 18) ^ state) >> 27)
	rot := uint(state >> 59)
	return bits.RotateLeft32(xorshifted, -int(rot))
}

func (e *pcgXSHRR) NextU32() uint32 { return e.step() }

func (e *pcgXSHRR) NextU64() uint64 {
	hi := uint64(e.step())
	lo := uint64(e.step())
	return hi<<32 | lo
}

func (e *pcgXSHRR) NextFloat64() float64 {
	return float64(e.NextU32()) * (1.0 / (1 << 32))
}

// advanceLCG64 is the classic O'Neill log-time exponentiation for an LCG:
// closed-form state after `delta` steps of state = state*mult + plus.
func advanceLCG64(state, delta, mult, plus uint64) uint64 {
	accMult := uint64(1)
	accPlus := uint64(0)
	for delta > 0 {
		if delta&1 != 0 {
			accMult *= mult
			accPlus = accPlus*mult + plus
		}
		plus = (mult + 1) * plus
		mult *= mult
		delta >>= 1
	}
	return accMult*state + accPlus
}

func (e *pcgXSHRR) JumpAhead(steps uint64) {
	e.state = advanceLCG64(e.state, steps, pcgMultiplier, e.inc)
	e.counter += steps
}

func (e *pcgXSHRR) State() EngineState {
	return EngineState{Kind: PCGXSHRR, Words: []uint64{e.state, e.inc}, Counter: e.counter}
}

func (e *pcgXSHRR) SetState(s EngineState) {
	e.state, e.inc = s.Words[0], s.Words[1]
	e.counter = s.Counter
}

func (e *pcgXSHRR) Clone() Engine {
	c := *e
	return &c
}

func (e *pcgXSHRR) Kind() EngineKind { return PCGXSHRR }
