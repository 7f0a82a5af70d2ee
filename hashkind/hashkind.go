// Package hashkind implements the pluggable hash functions bound to a
// sketch collector at construction time. Every variant is a pure function
// of a single 32-bit key; none allocate or retain state between calls.
package hashkind

import (
	"fmt"
	"math/bits"
)

// Kind selects which hash function a collector hashes tuples with. The
// zero value is Ident, which is debug-only and must never be used for a
// production geometry (see Hash).
type Kind uint

const (
	Ident Kind = iota
	Sip
	Murmur3_32
	Murmur3_64
	Murmur3_128
	end
)

var names = [...]string{
	Ident:       "IDENT",
	Sip:         "SIP",
	Murmur3_32:  "MURMUR3_32",
	Murmur3_64:  "MURMUR3_64",
	Murmur3_128: "MURMUR3_128",
}

// String returns the CLI-facing name of the hash kind, or "<undef>" for an
// out-of-range value.
func (k Kind) String() string {
	if k < end {
		return names[k]
	}
	return "<undef>"
}

// Width reports the number of significant bits Hash populates for this
// kind. Sketch geometry bit-carving must stay within this width.
func (k Kind) Width() int {
	switch k {
	case Murmur3_32:
		return 32
	case Sip, Murmur3_64:
		return 64
	case Murmur3_128:
		return 128
	default: // Ident
		return 32
	}
}

// Parse maps a CLI-facing name back to a Kind. It returns false if name is
// not one of the known variants, mirroring the original's
// value_of<hash_e>() returning hash_e::end on lookup failure.
func Parse(name string) (Kind, bool) {
	for i, n := range names {
		if n == name {
			return Kind(i), true
		}
	}
	return end, false
}

// Hash128 is a pair of 64-bit limbs holding the result of a hash
// computation, widest case 128 bits. Narrower hash kinds only populate
// the low-order bits of Lo (and leave Hi zero).
type Hash128 struct {
	Lo uint64
	Hi uint64
}

// Clz returns the number of leading zero bits over the full 128-bit
// operand, testing the high limb first per spec (§9): an all-zero operand
// returns the full operand width (128), not 0.
func (h Hash128) Clz() int {
	if h.Hi != 0 {
		return bits.LeadingZeros64(h.Hi)
	}
	return 64 + bits.LeadingZeros64(h.Lo)
}

// Hash computes the hash of key under the given kind. The result's
// significant width is kind.Width() bits; callers must not read bits
// beyond that from the returned Hash128.
func Hash(kind Kind, key uint32) Hash128 {
	switch kind {
	case Ident:
		return Hash128{Lo: uint64(key)}
	case Sip:
		return Hash128{Lo: sipHash24(key)}
	case Murmur3_32:
		return Hash128{Lo: uint64(murmur3_32(key))}
	case Murmur3_64:
		h1, _ := murmur3_128(key)
		return Hash128{Lo: h1}
	case Murmur3_128:
		h1, h2 := murmur3_128(key)
		return Hash128{Lo: h1, Hi: h2}
	default:
		panic(fmt.Sprintf("hashkind: unknown kind %d", kind))
	}
}
