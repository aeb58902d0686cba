package probably

import (
	"math"
	"math/rand"
	"testing"
)

func TestAltIndexIsReversible(t *testing.T) {
	const numBuckets = int64(1) << 40
	rng := rand.New(rand.NewSource(1))
	for _, s := range strategies {
		for i := 0; i < 1000; i++ {
			index := int64(rng.Uint64() % uint64(numBuckets))
			fp := uint32(rng.Uint32())
			if fp == 0 {
				fp = 1
			}
			alt := s.AltIndex(index, fp, numBuckets)
			back := s.AltIndex(alt, fp, numBuckets)
			if back != index {
				t.Fatalf("%s: AltIndex not reversible: index=%d fp=%d alt=%d back=%d", s.Name(), index, fp, alt, back)
			}
			if alt < 0 || alt >= numBuckets {
				t.Fatalf("%s: AltIndex out of range: %d", s.Name(), alt)
			}
		}
	}
}

// TestAltIndexIsReversibleNearOverflow repeats the reversibility check with
// numBuckets close to math.MaxInt64, the only region where index+offset can
// actually overflow int64 and force protectedSum's correction branch
// (canSum returning false) to run. 1<<40 never gets close enough to
// exercise that branch.
func TestAltIndexIsReversibleNearOverflow(t *testing.T) {
	const numBuckets = int64(math.MaxInt64 - 1)
	rng := rand.New(rand.NewSource(1))
	for _, s := range strategies {
		for i := 0; i < 1000; i++ {
			index := int64(rng.Uint64() % uint64(numBuckets))
			fp := uint32(rng.Uint32())
			if fp == 0 {
				fp = 1
			}
			alt := s.AltIndex(index, fp, numBuckets)
			back := s.AltIndex(alt, fp, numBuckets)
			if back != index {
				t.Fatalf("%s: AltIndex not reversible near overflow: index=%d fp=%d alt=%d back=%d", s.Name(), index, fp, alt, back)
			}
			if alt < 0 || alt >= numBuckets {
				t.Fatalf("%s: AltIndex out of range near overflow: %d", s.Name(), alt)
			}
		}
	}
}

func TestProtectedSumOverflowBranchIsExercised(t *testing.T) {
	const m = int64(math.MaxInt64 - 1)
	a := int64(math.MaxInt64 - 100)
	b := int64(200)
	if canSum(a, b) {
		t.Fatal("test setup error: expected a+b to overflow int64")
	}
	got := protectedSum(a, b, m)
	want := (a + b) - m
	if got != want {
		t.Fatalf("protectedSum(%d,%d,%d) = %d, want %d", a, b, m, got, want)
	}
}

func TestFingerprintNeverZero(t *testing.T) {
	for _, s := range strategies {
		for _, f := range []int{1, 4, 8, 32} {
			for h := int64(0); h < 500; h++ {
				if fp := s.Fingerprint(h, f); fp == 0 {
					t.Fatalf("%s f=%d h=%d: fingerprint is 0", s.Name(), f, h)
				}
			}
		}
	}
}

func TestIndexInRange(t *testing.T) {
	const numBuckets = int64(1) << 20
	for _, s := range strategies {
		for _, h1 := range []int64{0, -1, 1, 1 << 62, -(1 << 62)} {
			idx := s.Index(h1, numBuckets)
			if idx < 0 || idx >= numBuckets {
				t.Fatalf("%s: Index(%d) = %d out of range", s.Name(), h1, idx)
			}
		}
	}
}

func TestProtectedSumMatchesPlainSumWhenNoOverflow(t *testing.T) {
	if protectedSum(10, 20, 1000) != 30 {
		t.Fatal("protectedSum without overflow changed the result")
	}
	if protectedSum(-10, -20, 1000) != -30 {
		t.Fatal("protectedSum without overflow changed the result for negatives")
	}
}

func TestModNonNegative(t *testing.T) {
	if got := modNonNegative(-1, 10); got != 9 {
		t.Fatalf("modNonNegative(-1,10) = %d, want 9", got)
	}
	if got := modNonNegative(15, 10); got != 5 {
		t.Fatalf("modNonNegative(15,10) = %d, want 5", got)
	}
}

func TestStrategyForOrdinal(t *testing.T) {
	if _, err := strategyForOrdinal(0); err != nil {
		t.Fatal(err)
	}
	if _, err := strategyForOrdinal(99); err == nil {
		t.Fatal("expected error for unknown ordinal")
	}
}
