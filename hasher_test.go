package probably

import "testing"

func TestHasher128Deterministic(t *testing.T) {
	for name, h := range map[string]Hasher128{
		"xxh3":    xxh3Hasher128{},
		"blake2b": blake2bHasher128{},
		"fnv":     fnvHasher128{},
	} {
		a1, a2 := h.Hash128([]byte("repeatable"))
		b1, b2 := h.Hash128([]byte("repeatable"))
		if a1 != b1 || a2 != b2 {
			t.Fatalf("%s: Hash128 not deterministic", name)
		}
		if h.Hash32([]byte("x")) != h.Hash32([]byte("x")) {
			t.Fatalf("%s: Hash32 not deterministic", name)
		}
	}
}

func TestHasher128DistinguishesInputs(t *testing.T) {
	for name, h := range map[string]Hasher128{
		"xxh3":    xxh3Hasher128{},
		"blake2b": blake2bHasher128{},
		"fnv":     fnvHasher128{},
	} {
		hi1, lo1 := h.Hash128([]byte("alpha"))
		hi2, lo2 := h.Hash128([]byte("beta"))
		if hi1 == hi2 && lo1 == lo2 {
			t.Fatalf("%s: distinct inputs hashed identically", name)
		}
	}
}
