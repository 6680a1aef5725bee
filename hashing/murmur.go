// Package hashing provides the program fingerprints used as shader-cache
// keys: MurmurHash3 in its 32-bit and x64 128-bit variants.
package hashing

import "github.com/spaolacci/murmur3"

// HashValue32 is a 32-bit program fingerprint.
type HashValue32 = uint32

// HashValue128 is a 128-bit program fingerprint.
type HashValue128 struct {
	H1 uint64
	H2 uint64
}

// Murmur3_32 returns the MurmurHash3 32-bit hash of data with the given
// seed. Callers hash the raw program bytes as stored, before the halfword
// unswap, so the fingerprint matches the in-memory binary.
func Murmur3_32(data []byte, seed uint32) HashValue32 {
	return murmur3.Sum32WithSeed(data, seed)
}

// Murmur3_128 returns the MurmurHash3 x64 128-bit hash of data with the
// given seed.
func Murmur3_128(data []byte, seed uint32) HashValue128 {
	h1, h2 := murmur3.Sum128WithSeed(data, seed)
	return HashValue128{H1: h1, H2: h2}
}
