package random

import "testing"

func TestHashSeedIsDeterministic(t *testing.T) {
	a := HashSeed(IntSeed(42))
	b := HashSeed(IntSeed(42))
	if a != b {
		t.Fatalf("HashSeed not deterministic: %v != %v", a, b)
	}
}

func TestHashSeedDistinguishesInputs(t *testing.T) {
	a := HashSeed(IntSeed(1))
	b := HashSeed(IntSeed(2))
	if a == b {
		t.Fatal("distinct int seeds hashed to the same accumulator")
	}
}

func TestHashSeedNeverAllZero(t *testing.T) {
	h := HashSeed(BytesSeed(make([]byte, 64)))
	if h[0] == 0 && h[1] == 0 && h[2] == 0 && h[3] == 0 {
		t.Fatal("HashSeed produced an all-zero accumulator")
	}
}

func TestHashSeedStringAndBytesMatch(t *testing.T) {
	a := HashSeed(StringSeed("seed"))
	b := HashSeed(BytesSeed([]byte("seed")))
	// Same underlying bytes, same chunking - these should actually match
	// since StringSeed just casts to []byte internally.
	if a != b {
		t.Fatal("string and equivalent byte seed hashed differently")
	}
}
