package random

// splitMix64Step advances state by the Weyl increment and returns one
// SplitMix64 output (spec.md §4.8).
func splitMix64Step(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// expandSeedWords derives n state words from seed: HashSeed collapses the
// seed source to a 4-lane accumulator, then SplitMix64 expands it to
// however many words the target engine's state needs. This is the standard
// way to seed a shift-register engine from a single entropy source. The
// all-zero state forbidden for shift-register engines (spec.md §4.8) is
// guarded here rather than per-engine.
func expandSeedWords(seed Seed, n int) []uint64 {
	lanes := HashSeed(seed)
	state := lanes[0] ^ lanes[1] ^ lanes[2] ^ lanes[3]
	words := make([]uint64, n)
	allZero := true
	for i := range words {
		words[i] = splitMix64Step(&state)
		if words[i] != 0 {
			allZero = false
		}
	}
	if allZero {
		for i := range words {
			words[i] = sha512IV[i%4]
		}
	}
	return words
}
