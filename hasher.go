// Hash algorithm implementations for filter indexing.
//
// IndexingStrategy depends on an external 128-bit hash by contract only
// (spec §4.2, §9): the low 64 bits split into hash1/hash2 for primary
// indexing and fingerprinting, and a separate 32-bit hash of a fingerprint
// for computing the alternate bucket. Three concrete algorithms are
// registered, selectable by ordinal exactly like the document store this
// package was adapted from selects among xxHash3, FNV-1a, and Blake2b for
// its own identifiers.
package probably

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hasher128 produces the digests an indexing strategy needs: a 128-bit
// digest of an element's bytes, and a 32-bit digest of a fingerprint used
// to compute an alternate bucket offset.
type Hasher128 interface {
	// Hash128 returns a 128-bit digest of b as two 64-bit halves.
	Hash128(b []byte) (hi, lo uint64)
	// Hash32 returns a 32-bit digest of b.
	Hash32(b []byte) uint32
}

// xxh3Hasher128 is the default hasher: fastest of the three, native
// 128-bit output via xxh3.Hash128.
type xxh3Hasher128 struct{}

func (xxh3Hasher128) Hash128(b []byte) (hi, lo uint64) {
	h := xxh3.Hash128(b)
	return h.Hi, h.Lo
}

func (xxh3Hasher128) Hash32(b []byte) uint32 {
	return uint32(xxh3.Hash(b))
}

// blake2bHasher128 trades speed for distribution quality: blake2b supports
// arbitrary digest sizes, so both digests are native rather than truncated.
type blake2bHasher128 struct{}

func (blake2bHasher128) Hash128(b []byte) (hi, lo uint64) {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write(b)
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:])
}

func (blake2bHasher128) Hash32(b []byte) uint32 {
	h, _ := blake2b.New(4, nil) // 4 bytes = 32 bits
	h.Write(b)
	return binary.BigEndian.Uint32(h.Sum(nil))
}

// fnvHasher128 has no external dependency: the 128-bit digest is built
// from two FNV-1a 64-bit sums, the upper one salted with a leading 0xff
// byte; the 32-bit digest comes from FNV-1a's
// native 32-bit variant.
type fnvHasher128 struct{}

func (fnvHasher128) Hash128(b []byte) (hi, lo uint64) {
	lower := fnv.New64a()
	lower.Write(b)
	lo = lower.Sum64()

	upper := fnv.New64a()
	upper.Write([]byte{0xff})
	upper.Write(b)
	hi = upper.Sum64()
	return hi, lo
}

func (fnvHasher128) Hash32(b []byte) uint32 {
	h := fnv.New32a()
	h.Write(b)
	return h.Sum32()
}
