package sketch

import "math/bits"

// The bit-carving rules in Collect operate on hash values up to 128 bits
// wide (Murmur3-128), held as a pair of 64-bit limbs like hashkind.Hash128
// and passed to these helpers high limb first. These helpers implement the
// handful of 128-bit operations the per-tuple update kernel needs —
// shift, increment, decrement, width masking, and leading-zero count —
// without pulling in a big-integer dependency for what is, per call, a
// handful of single-word operations.

// shl128 shifts (hi,lo) left by n bits (0 ≤ n < 64), discarding bits that
// overflow past bit 127.
func shl128(hi, lo uint64, n uint) (uint64, uint64) {
	if n == 0 {
		return hi, lo
	}
	return (hi << n) | (lo >> (64 - n)), lo << n
}

// shr128 shifts (hi,lo) right by n bits (0 ≤ n ≤ 128).
func shr128(hi, lo uint64, n uint) (uint64, uint64) {
	switch {
	case n == 0:
		return hi, lo
	case n >= 128:
		return 0, 0
	case n >= 64:
		return 0, hi >> (n - 64)
	default:
		return hi >> n, (lo >> n) | (hi << (64 - n))
	}
}

// add1_128 increments (hi,lo) by one, carrying into hi on low-limb wrap.
func add1_128(hi, lo uint64) (uint64, uint64) {
	lo++
	if lo == 0 {
		hi++
	}
	return hi, lo
}

// sub1_128 decrements (hi,lo) by one, borrowing from hi on low-limb wrap.
func sub1_128(hi, lo uint64) (uint64, uint64) {
	if lo == 0 {
		hi--
	}
	lo--
	return hi, lo
}

// mask128 clears every bit at position ≥ w, leaving a value that fits in w
// significant bits (0 ≤ w ≤ 128).
func mask128(hi, lo uint64, w int) (uint64, uint64) {
	switch {
	case w >= 128:
		return hi, lo
	case w > 64:
		m := uint64(1)<<uint(w-64) - 1
		return hi & m, lo
	case w == 64:
		return 0, lo
	case w == 0:
		return 0, 0
	default:
		m := uint64(1)<<uint(w) - 1
		return 0, lo & m
	}
}

// clzW returns the count of leading zero bits in (hi,lo) when viewed as a
// w-bit quantity (bits ≥ w are assumed already zero, e.g. via mask128).
func clzW(hi, lo uint64, w int) int {
	if hi != 0 {
		return bits.LeadingZeros64(hi) - (128 - w)
	}
	return 64 + bits.LeadingZeros64(lo) - (128 - w)
}
