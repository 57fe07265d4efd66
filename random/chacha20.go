package random

import "math/bits"

// chaChaSigma are the standard ChaCha20 constant words, "expand 32-byte k"
// read as four little-endian u32s (spec.md §4.8).
var chaChaSigma = [4]uint32{0x61707865, 0x3320646E, 0x79622D32, 0x6B206574}

type chaCha20Engine struct {
	key     [8]uint32
	nonce   [2]uint32
	counter uint64 // occupies state words 12-13
	buf     [16]uint32
	pos     int // next unconsumed word index in buf
	// outCounter mirrors spec.md's "counter is always reset to 0 after
	// warmup" bookkeeping; it tracks NextU32 calls, not the block counter.
	outCounter uint64
}

func newChaCha20(seed Seed) Engine {
	words := expandSeedWords(seed, 5)
	e := &chaCha20Engine{}
	for i := 0; i < 4; i++ {
		e.key[2*i] = uint32(words[i])
		e.key[2*i+1] = uint32(words[i] >> 32)
	}
	e.nonce[0] = uint32(words[4])
	e.nonce[1] = uint32(words[4] >> 32)
	e.pos = 16 // empty buffer; first NextU32 triggers the initial block
	return e
}

func quarterRound(a, b, c, d *uint32) {
	*a += *b
	*d ^= *a
	*d = bits.RotateLeft32(*d, 16)
	*c += *d
	*b ^= *c
	*b = bits.RotateLeft32(*b, 12)
	*a += *b
	*d ^= *a
	*d = bits.RotateLeft32(*d, 8)
	*c += *d
	*b ^= *c
	*b = bits.RotateLeft32(*b, 7)
}

func (e *chaCha20Engine) refill() {
	var state [16]uint32
	copy(state[0:4], chaChaSigma[:])
	copy(state[4:12], e.key[:])
	state[12] = uint32(e.counter)
	state[13] = uint32(e.counter >> 32)
	state[14] = e.nonce[0]
	state[15] = e.nonce[1]

	working := state
	for round := 0; round < 10; round++ {
		quarterRound(&working[0], &working[4], &working[8], &working[12])
		quarterRound(&working[1], &working[5], &working[9], &working[13])
		quarterRound(&working[2], &working[6], &working[10], &working[14])
		quarterRound(&working[3], &working[7], &working[11], &working[15])

		quarterRound(&working[0], &working[5], &working[10], &working[15])
		quarterRound(&working[1], &working[6], &working[11], &working[12])
		quarterRound(&working[2], &working[7], &working[8], &working[13])
		quarterRound(&working[3], &working[4], &working[9], &working[14])
	}

	for i := range e.buf {
		e.buf[i] = working[i] + state[i]
	}
	e.counter++
	e.pos = 0
}

func (e *chaCha20Engine) NextU32() uint32 {
	if e.pos >= 16 {
		e.refill()
	}
	w := e.buf[e.pos]
	e.pos++
	e.outCounter++
	return w
}

func (e *chaCha20Engine) NextU64() uint64 {
	lo := uint64(e.NextU32())
	hi := uint64(e.NextU32())
	return hi<<32 | lo
}

func (e *chaCha20Engine) NextFloat64() float64 {
	return float64(e.NextU32()) * (1.0 / (1 << 32))
}

func (e *chaCha20Engine) JumpAhead(steps uint64) {
	// Block-aligned skip is closed-form (just advance the block counter);
	// any partial-block remainder within the current buffer is iterated.
	for steps > 0 && e.pos < 16 {
		e.NextU32()
		steps--
	}
	if steps == 0 {
		return
	}
	blocks := steps / 16
	e.counter += blocks
	steps -= blocks * 16
	e.refill()
	for ; steps > 0; steps-- {
		e.NextU32()
	}
}

// State captures the full internal register set plus the live keystream
// buffer: buffer position and contents follow the block counter so that
// SetState can resume mid-block instead of forcing a refill of the next
// block (spec.md §8's get_state/set_state round-trip invariant).
func (e *chaCha20Engine) State() EngineState {
	words := make([]uint64, 0, 23)
	for i := 0; i < 4; i++ {
		words = append(words, uint64(e.key[2*i])|uint64(e.key[2*i+1])<<32)
	}
	words = append(words, uint64(e.nonce[0])|uint64(e.nonce[1])<<32)
	words = append(words, e.counter)
	words = append(words, uint64(e.pos))
	for _, w := range e.buf {
		words = append(words, uint64(w))
	}
	return EngineState{Kind: ChaCha20Kind, Words: words, Counter: e.outCounter}
}

func (e *chaCha20Engine) SetState(s EngineState) {
	for i := 0; i < 4; i++ {
		e.key[2*i] = uint32(s.Words[i])
		e.key[2*i+1] = uint32(s.Words[i] >> 32)
	}
	e.nonce[0] = uint32(s.Words[4])
	e.nonce[1] = uint32(s.Words[4] >> 32)
	e.counter = s.Words[5]
	e.outCounter = s.Counter
	e.pos = int(s.Words[6])
	for i := range e.buf {
		e.buf[i] = uint32(s.Words[7+i])
	}
}

func (e *chaCha20Engine) Clone() Engine {
	c := *e
	return &c
}

func (e *chaCha20Engine) Kind() EngineKind { return ChaCha20Kind }
