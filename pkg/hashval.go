package hashval

import (
	"encoding/binary"
	"fmt"
)

// HashVal is a 128-bit content hash stored as four 32-bit words.
// The zero value is the empty hash. HashVal is a plain value: copy it,
// compare it with ==, and use it as a map key.
type HashVal struct {
	hv [WordCount]uint32
}

// NewHashVal builds a HashVal from its four words
func NewHashVal(w0, w1, w2, w3 uint32) HashVal {
	return HashVal{hv: [WordCount]uint32{w0, w1, w2, w3}}
}

// HashValFromDigest packs a 16-byte digest into words, big-endian,
// regardless of host byte order.
func HashValFromDigest(md [DigestSize]byte) HashVal {
	var h HashVal
	for i := 0; i < WordCount; i++ {
		h.hv[i] = binary.BigEndian.Uint32(md[i*4:])
	}
	return h
}

// Words returns a copy of the four words
func (h HashVal) Words() [WordCount]uint32 {
	return h.hv
}

// Word returns word i (0..3)
func (h HashVal) Word(i int) uint32 {
	return h.hv[i]
}

// IsZero returns true if this is the empty hash
func (h HashVal) IsZero() bool {
	return h.hv == [WordCount]uint32{}
}

// Clear resets the value to the empty hash
func (h *HashVal) Clear() {
	*h = HashVal{}
}

// Equal returns true if both values have identical words
func (h HashVal) Equal(other HashVal) bool {
	return h.hv == other.hv
}

// Compare orders values by word 0 first, then 1, 2, 3.
// Returns -1, 0 or 1.
func (h HashVal) Compare(other HashVal) int {
	for i := 0; i < WordCount; i++ {
		if h.hv[i] != other.hv[i] {
			if h.hv[i] < other.hv[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether h sorts before other
func (h HashVal) Less(other HashVal) bool {
	return h.Compare(other) < 0
}

// MergeHash folds the value into a running 64-bit FNV-1a hash.
// Pass 0 to start a new hash.
func (h HashVal) MergeHash(seed uint64) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	if seed == 0 {
		seed = offset64
	}
	for _, w := range h.hv {
		for shift := 24; shift >= 0; shift -= 8 {
			seed ^= uint64(byte(w >> shift))
			seed *= prime64
		}
	}
	return seed
}

// Bytes returns the digest bytes in big-endian word order
func (h HashVal) Bytes() [DigestSize]byte {
	var b [DigestSize]byte
	for i, w := range h.hv {
		binary.BigEndian.PutUint32(b[i*4:], w)
	}
	return b
}

// SetBytes sets the value from 16 big-endian digest bytes
func (h *HashVal) SetBytes(b []byte) error {
	if len(b) != DigestSize {
		return fmt.Errorf("%w: got %d bytes, expected %d", ErrDigestSize, len(b), DigestSize)
	}
	var md [DigestSize]byte
	copy(md[:], b)
	*h = HashValFromDigest(md)
	return nil
}

// String returns the hex form
func (h HashVal) String() string {
	return h.AsHex()
}
