package random

import (
	"encoding/binary"
	"math/bits"
	"os"
	"time"
)

// Seed is the union of accepted seed source shapes (spec.md §4.9): an
// integer, a string, or a raw byte slice. Exactly one field should be set;
// the zero value (all fields empty) selects the null-seed path in
// HashSeed.
type Seed struct {
	Int    *int64
	Str    string
	Bytes  []byte
	isNull bool
}

// IntSeed wraps an integer seed source.
func IntSeed(v int64) Seed { return Seed{Int: &v} }

// StringSeed wraps a string seed source.
func StringSeed(v string) Seed { return Seed{Str: v} }

// BytesSeed wraps a raw byte/word seed source.
func BytesSeed(v []byte) Seed { return Seed{Bytes: v} }

// NullSeed requests the clock/PID/entropy-derived seed described in
// spec.md §4.9 ("Null seed: combine wall-clock millis, process
// identifier ... and an 8-byte platform-entropy nibble").
func NullSeed() Seed { return Seed{isNull: true} }

// sha512IV is the SHA-512 initial hash value, used both as the hash
// accumulator's starting state (spec.md §4.9) and as the fixed
// diversification constant substituted for an all-zero collapsed seed
// (spec.md §4.8).
var sha512IV = [4]uint64{
	0x6A09E667F3BCC908, 0xBB67AE8584CAA73B,
	0x3C6EF372FE94F82B, 0xA54FF53A5F1D36F1,
}

// rawBytes linearizes a Seed into the byte stream HashSeed folds.
func (s Seed) rawBytes() []byte {
	switch {
	case s.isNull:
		return nullSeedBytes()
	case s.Int != nil:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(*s.Int))
		return b
	case s.Str != "":
		return []byte(s.Str)
	case s.Bytes != nil:
		return s.Bytes
	default:
		return nullSeedBytes()
	}
}

func nullSeedBytes() []byte {
	b := make([]byte, 24)
	binary.LittleEndian.PutUint64(b[0:8], uint64(time.Now().UnixMilli()))
	binary.LittleEndian.PutUint32(b[8:12], uint32(os.Getpid()))
	// 8-byte platform-entropy nibble: a wall-clock nanosecond reading
	// stands in for the host-specific entropy source spec.md leaves
	// unspecified beyond "platform-entropy".
	binary.LittleEndian.PutUint64(b[12:20], uint64(time.Now().UnixNano()))
	return b
}

// HashSeed folds seed's byte representation into a 4×u64 accumulator
// initialized to the SHA-512 IV, in 32-byte chunks (a short final chunk is
// zero-padded), applying the spec.md §4.9 mixer once per chunk and 16 more
// times after input is consumed. A seed that collapses to an all-zero accumulator (forbidden
// for shift-register engines per §4.8) is replaced with sha512IV itself.
func HashSeed(seed Seed) [4]uint64 {
	s := sha512IV
	data := seed.rawBytes()

	for len(data) > 0 {
		chunk := data
		if len(chunk) > 32 {
			chunk = data[:32]
		}
		var words [4]uint64
		for i := 0; i < 4; i++ {
			lo := i * 8
			hi := lo + 8
			if hi > len(chunk) {
				var buf [8]byte
				if lo < len(chunk) {
					copy(buf[:], chunk[lo:])
				}
				words[i] = binary.LittleEndian.Uint64(buf[:])
			} else {
				words[i] = binary.LittleEndian.Uint64(chunk[lo:hi])
			}
		}
		s[0] ^= words[0]
		s[1] ^= words[1]
		s[2] ^= words[2]
		s[3] ^= words[3]
		mixSeedLanes(&s)

		if len(data) <= 32 {
			break
		}
		data = data[32:]
	}

	for i := 0; i < 16; i++ {
		mixSeedLanes(&s)
	}

	if s[0] == 0 && s[1] == 0 && s[2] == 0 && s[3] == 0 {
		return sha512IV
	}
	return s
}

// mixSeedLanes applies the exact rotate/XOR mixer spec.md §4.9 specifies.
func mixSeedLanes(s *[4]uint64) {
	s[0] ^= s[1] ^ s[2] ^ s[3]
	s[1] = bits.RotateLeft64(s[1], 11)
	s[2] = bits.RotateLeft64(s[2], 23)
	s[3] = bits.RotateLeft64(s[3], 7)
	t := s[1] << 29
	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 25)
}
