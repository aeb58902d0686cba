// IndexingStrategy: turns an element's hash into a bucket index, a
// fingerprint, and the alternate bucket for that fingerprint.
//
// Ported from the original's single registered strategy, generalized to
// register one Strategy per Hasher128 so the hash algorithm choice is
// baked into the serialized strategy ordinal: filters with different
// ordinals are never index-compatible, even if their dimensions match,
// because a fingerprint computed under one hash means nothing indexed
// under another.
package probably

import (
	"encoding/binary"
	"fmt"
)

// Strategy computes bucket indices and fingerprints for a Cuckoo filter.
// Every Strategy must be reversible: altIndex(altIndex(i, fp, b), fp, b)
// == i for all i in [0,b) and all fp != 0, which is what lets eviction
// walk a fingerprint back and forth between its two candidate buckets.
type Strategy interface {
	Ordinal() int8
	Name() string
	// HashElement splits the low 64 bits of the element's digest: hash1 is
	// bits 0..31 (sign-extended) and feeds index, hash2 is bits 32..63 and
	// feeds fingerprint.
	HashElement(b []byte) (hash1, hash2 int64)
	// Fingerprint derives a non-zero f-bit fingerprint from hash2.
	Fingerprint(hash2 int64, bitsPerEntry int) uint32
	// Index computes the primary bucket for hash1 in a table of
	// numBuckets buckets.
	Index(hash1 int64, numBuckets int64) int64
	// AltIndex computes the alternate bucket for fingerprint fp given its
	// current bucket index.
	AltIndex(index int64, fp uint32, numBuckets int64) int64
}

// cuckooStrategy is the shared implementation; only the embedded hasher
// and ordinal vary across registered strategies.
type cuckooStrategy struct {
	hasher  Hasher128
	ordinal int8
	name    string
}

func (s *cuckooStrategy) Ordinal() int8 { return s.ordinal }
func (s *cuckooStrategy) Name() string  { return s.name }

func (s *cuckooStrategy) HashElement(b []byte) (hash1, hash2 int64) {
	_, lo := s.hasher.Hash128(b)
	return int64(int32(uint32(lo))), int64(lo >> 32)
}

// Fingerprint scans hash2 in non-overlapping f-bit windows from the low
// end, returning the first non-zero window found. If every window is
// zero, 1 is returned: zero is reserved as the empty-slot sentinel, so a
// fingerprint must never be zero.
func (s *cuckooStrategy) Fingerprint(hash2 int64, bitsPerEntry int) uint32 {
	windows := 64 / bitsPerEntry
	if windows == 0 {
		windows = 1
	}
	m := uint64(mask(0, bitsPerEntry))
	u := uint64(hash2)
	for i := 0; i < windows; i++ {
		candidate := uint32((u >> uint(i*bitsPerEntry)) & m)
		if candidate != 0 {
			return candidate
		}
	}
	return 1
}

// Index reduces hash1 into [0,numBuckets) treating hash1 as an unsigned
// 64-bit value, matching the unsigned-remainder convention Guava's own
// hashing utilities use for bucket placement.
func (s *cuckooStrategy) Index(hash1 int64, numBuckets int64) int64 {
	return int64(uint64(hash1) % uint64(numBuckets))
}

// AltIndex walks a fingerprint to its partner bucket: the offset added to
// index is the odd 32-bit hash of the fingerprint's bytes, signed by the
// parity of index. Because the offset is odd and the sign flips with
// parity, applying AltIndex twice returns the original index.
func (s *cuckooStrategy) AltIndex(index int64, fp uint32, numBuckets int64) int64 {
	var fpBytes [4]byte
	binary.BigEndian.PutUint32(fpBytes[:], fp)
	h := int64(s.hasher.Hash32(fpBytes[:]))
	offset := parsign(index) * odd(h)
	return modNonNegative(protectedSum(index, offset, numBuckets), numBuckets)
}

// parsign returns +1 for even i, -1 for odd i.
func parsign(i int64) int64 {
	if i%2 == 0 {
		return 1
	}
	return -1
}

// odd forces x's low bit on, guaranteeing a non-zero, odd offset.
func odd(x int64) int64 {
	return x | 1
}

// protectedSum computes a+b, wrapping the result into a range that
// mod(_, m) can still resolve correctly if a+b would overflow int64.
// Overflow is only possible when a and b share a sign; canSum reports
// whether the naive sum's sign still agrees with that shared sign.
func protectedSum(a, b, m int64) int64 {
	r := a + b
	if canSum(a, b) {
		return r
	}
	return r - m
}

func canSum(a, b int64) bool {
	return (a^b) < 0 || (a^(a+b)) >= 0
}

// modNonNegative returns a mod m in [0,m), unlike Go's %, which can yield
// a negative result for a negative a.
func modNonNegative(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

var strategies = map[int8]Strategy{
	0: &cuckooStrategy{hasher: xxh3Hasher128{}, ordinal: 0, name: "XXH3_128"},
	1: &cuckooStrategy{hasher: blake2bHasher128{}, ordinal: 1, name: "BLAKE2B_128"},
	2: &cuckooStrategy{hasher: fnvHasher128{}, ordinal: 2, name: "FNV1A_128"},
}

// DefaultStrategy is used when no WithStrategy option is given.
func DefaultStrategy() Strategy { return strategies[0] }

// strategyForOrdinal looks up a registered strategy by its serialized
// ordinal, failing for unknown ordinals so a corrupt or future-versioned
// serial form is rejected instead of silently misinterpreted.
func strategyForOrdinal(ordinal int8) (Strategy, error) {
	s, ok := strategies[ordinal]
	if !ok {
		return nil, fmt.Errorf("%w: unknown strategy ordinal %d", ErrDeserialize, ordinal)
	}
	return s, nil
}
