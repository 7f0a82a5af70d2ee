package hashkind

import "math/bits"

// sipHash24 computes SipHash-2-4 of a single 4-byte key as a one-block
// message, matching hashes.hpp's SipHash class: fixed IVs, a single
// two compression rounds over the sole message block (length-tagged in its top
// byte per the reference), the 0xff finalization-trigger XOR into v2, four
// finalization rounds, and the v0^v1^v1^v2 fold preserved bit-for-bit even
// though v1^v1 cancels to zero.
func sipHash24(key uint32) uint64 {
	const (
		iv0 = 0x736f6d6570736575
		iv1 = 0x646f72616e646f6d
		iv2 = 0x6c7967656e657261
		iv3 = 0x7465646279746573
	)

	v0, v1, v2, v3 := uint64(iv0), uint64(iv1), uint64(iv2), uint64(iv3)

	b := (uint64(4) << 56) | uint64(key)

	v3 ^= b
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0 ^= b

	v2 ^= 0xff

	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)

	return v0 ^ v1 ^ v1 ^ v2
}

func sipRound(v0, v1, v2, v3 uint64) (uint64, uint64, uint64, uint64) {
	v0 += v1
	v1 = bits.RotateLeft64(v1, 13)
	v1 ^= v0
	v0 = bits.RotateLeft64(v0, 32)

	v2 += v3
	v3 = bits.RotateLeft64(v3, 16)
	v3 ^= v2

	v0 += v3
	v3 = bits.RotateLeft64(v3, 21)
	v3 ^= v0

	v2 += v1
	v1 = bits.RotateLeft64(v1, 17)
	v1 ^= v2
	v2 = bits.RotateLeft64(v2, 32)

	return v0, v1, v2, v3
}
