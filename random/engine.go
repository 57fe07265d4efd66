package random

// Engine is a deterministic integer stream generator: the single
// abstraction every PRNG algorithm in this package implements (spec.md
// §4.8). All six concrete engines below — Xoroshiro128++, Xoshiro256++,
// SplitMix64, PCG-XSH-RR, ChaCha20, and the platform CSPRNG — satisfy it,
// letting Generator and the distributions package stay engine-agnostic.
type Engine interface {
	// NextU32 returns the next 32-bit output, advancing engine state.
	NextU32() uint32
	// NextU64 returns the next 64-bit output, advancing engine state.
	NextU64() uint64
	// NextFloat64 returns a value in [0,1), derived from NextU32 or
	// NextU64 depending on the engine's natural output width.
	NextFloat64() float64
	// JumpAhead skips steps outputs. Engines with a closed-form jump use
	// it for large steps; otherwise it iterates.
	JumpAhead(steps uint64)
	// State returns a snapshot sufficient to exactly reproduce the
	// engine's future output sequence via SetState.
	State() EngineState
	// SetState restores a snapshot previously returned by State.
	SetState(s EngineState)
	// Clone returns an independent deep copy of the engine.
	Clone() Engine
	// Kind identifies which algorithm this engine implements.
	Kind() EngineKind
}

// EngineKind names one of the six concrete engine algorithms.
type EngineKind int

const (
	Xoroshiro128PP EngineKind = iota
	Xoshiro256PP
	PCGXSHRR
	SplitMix64Kind
	ChaCha20Kind
	CryptoKind
)

func (k EngineKind) String() string {
	switch k {
	case Xoroshiro128PP:
		return "xoroshiro128++"
	case Xoshiro256PP:
		return "xoshiro256++"
	case PCGXSHRR:
		return "pcg-xsh-rr"
	case SplitMix64Kind:
		return "splitmix64"
	case ChaCha20Kind:
		return "chacha20"
	case CryptoKind:
		return "crypto"
	default:
		return "unknown"
	}
}

// EngineState is an opaque, engine-specific state snapshot. Words carries
// the engine's internal register/counter words (length and meaning vary by
// Kind); Counter is the warmup-reset output counter spec.md §4.8 requires
// ("Counter is always reset to 0 after warmup").
type EngineState struct {
	Kind    EngineKind
	Words   []uint64
	Counter uint64
}

// NewEngine constructs a fresh engine of kind, seeded from seed via
// HashSeed (seed.go), and runs its mandated warmup discards.
func NewEngine(kind EngineKind, seed Seed) Engine {
	switch kind {
	case Xoroshiro128PP:
		return newXoroshiro128PP(seed)
	case Xoshiro256PP:
		return newXoshiro256PP(seed)
	case PCGXSHRR:
		return newPCG(seed)
	case SplitMix64Kind:
		return newSplitMix64(seed)
	case ChaCha20Kind:
		return newChaCha20(seed)
	case CryptoKind:
		return newCryptoEngine(seed)
	default:
		panic("random: unknown engine kind")
	}
}
