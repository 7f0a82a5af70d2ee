package hashkind

import "math/bits"

// murmur3_32 computes MurmurHash3_x86_32 of a single 4-byte little-endian
// key with the fixed seed 42, matching hashes.hpp's Murmur3_32 exactly: one
// block, no tail, no length-xor-fold beyond the block count (4).
func murmur3_32(key uint32) uint32 {
	const (
		c1   = 0xcc9e2d51
		c2   = 0x1b873593
		seed = 42
	)

	h1 := uint32(seed)

	k1 := key
	k1 *= c1
	k1 = bits.RotateLeft32(k1, 15)
	k1 *= c2

	h1 ^= k1
	h1 = bits.RotateLeft32(h1, 13)
	h1 = h1*5 + 0xe6546b64

	h1 ^= 4 // length in bytes
	h1 = fmix32(h1)
	return h1
}

func fmix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// murmur3_128 computes MurmurHash3_x64_128 of a single 4-byte little-endian
// key with the fixed seed 0xDEADF00D, matching hashes.hpp's Murmur3_128: one
// partial block (k1 only, k2 stays 0 since the 4-byte key fills none of the
// second 8-byte lane), both halves finalized and cross-added.
func murmur3_128(key uint32) (h1, h2 uint64) {
	const (
		c1   = 0x87c37b91114253d5
		c2   = 0x4cf5ad432745937f
		seed = 0xDEADF00D
	)

	h1 = uint64(seed)
	h2 = uint64(seed)

	k1 := uint64(key)
	k1 *= c1
	k1 = bits.RotateLeft64(k1, 31)
	k1 *= c2
	h1 ^= k1

	h1 ^= 4
	h2 ^= 4

	h1 += h2
	h2 += h1

	h1 = fmix64(h1)
	h2 = fmix64(h2)

	h1 += h2
	h2 += h1
	return h1, h2
}

func fmix64(k uint64) uint64 {
	const (
		c3 = 0xff51afd7ed558ccd
		c4 = 0xc4ceb9fe1a85ec53
	)
	k ^= k >> 33
	k *= c3
	k ^= k >> 33
	k *= c4
	k ^= k >> 33
	return k
}
