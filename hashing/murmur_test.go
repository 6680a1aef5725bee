package hashing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nohbdy/rsxfrag/hashing"
)

var _ = Describe("Murmur3", func() {
	Describe("32-bit variant", func() {
		It("should match the standard test vectors", func() {
			Expect(hashing.Murmur3_32(nil, 0)).To(Equal(uint32(0x00000000)))
			Expect(hashing.Murmur3_32([]byte{0x00}, 0)).To(Equal(uint32(0x514E28B7)))
			Expect(hashing.Murmur3_32([]byte("hello"), 0)).To(Equal(uint32(0x248BFA47)))
			Expect(hashing.Murmur3_32([]byte("hello, world"), 0)).To(Equal(uint32(0x149BBB7F)))
		})

		It("should be stable across calls", func() {
			data := []byte("fragment program bytes")
			Expect(hashing.Murmur3_32(data, 0)).To(Equal(hashing.Murmur3_32(data, 0)))
		})

		It("should differ for single-bit flips", func() {
			data := make([]byte, 64)
			for i := range data {
				data[i] = byte(i)
			}
			base := hashing.Murmur3_32(data, 0)

			collisions := 0
			for i := range data {
				for bit := 0; bit < 8; bit++ {
					data[i] ^= 1 << bit
					if hashing.Murmur3_32(data, 0) == base {
						collisions++
					}
					data[i] ^= 1 << bit
				}
			}
			Expect(collisions).To(BeZero())
		})

		It("should depend on the seed", func() {
			data := []byte("seeded")
			Expect(hashing.Murmur3_32(data, 0)).ToNot(Equal(hashing.Murmur3_32(data, 1)))
		})
	})

	Describe("128-bit variant", func() {
		It("should match the standard test vectors", func() {
			Expect(hashing.Murmur3_128(nil, 0)).To(Equal(hashing.HashValue128{}))

			h := hashing.Murmur3_128([]byte("hello"), 0)
			Expect(h.H1).To(Equal(uint64(0xCBD8A7B341BD9B02)))
			Expect(h.H2).To(Equal(uint64(0x5B1E906A48AE1D19)))
		})

		It("should be stable across calls", func() {
			data := []byte("fragment program bytes")
			Expect(hashing.Murmur3_128(data, 0)).To(Equal(hashing.Murmur3_128(data, 0)))
		})
	})
})
