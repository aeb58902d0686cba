//go:build slow

package probably

import (
	"strconv"
	"testing"
)

// TestCuckooFilterKnownFalsePositiveProfile implements spec scenario 1 at
// its documented n=1,000,000 scale: insert the decimal string of every even
// integer in [0, 2,000,000), confirm no false negatives, then check the
// false-positive behavior over the odd integers in that range.
//
// The literal false-positive set the original reports for odds in
// [1, 900) ({5, 315, 389, 443, 445, 615, 621, 703, 789, 861, 899}) is an
// artifact of Murmur3_128 — the original's hard-wired hash. This module's
// default strategy hashes with xxh3 instead (§5), so that exact set does
// not carry over; spec.md itself calls the set "strategy-specific". What
// does carry over is that the set, and the overall false-positive rate,
// must be deterministic for a given strategy and PRNG seed (§9 "fresh,
// per-filter, constant-seeded PRNG"): two identically constructed filters
// must agree on every query. That determinism, plus the documented
// currentFpp tolerance, is what this test checks.
//
// Gated behind the "slow" tag since it hashes two million strings.
func TestCuckooFilterKnownFalsePositiveProfile(t *testing.T) {
	const n = 1_000_000

	build := func() *CuckooFilter[[]byte] {
		f := newTestCuckoo(t, n, 0.03)
		for i := 0; i < 2*n; i += 2 {
			if !f.Add([]byte(strconv.Itoa(i))) {
				t.Fatalf("Add(%d) failed before saturation", i)
			}
		}
		return f
	}

	f := build()
	for i := 0; i < 2*n; i += 2 {
		if !f.Contains([]byte(strconv.Itoa(i))) {
			t.Fatalf("false negative for inserted even integer %d", i)
		}
	}

	falsePositives := 0
	total := 0
	for i := 1; i < 2*n; i += 2 {
		total++
		if f.Contains([]byte(strconv.Itoa(i))) {
			falsePositives++
		}
	}

	observed := float64(falsePositives) / float64(total)
	current := f.CurrentFpp()
	const tolerance = 3.7e-4
	if diff := observed - current; diff > tolerance || diff < -tolerance {
		t.Fatalf("observed fpp %.6f vs currentFpp %.6f exceeds the documented ±3.7e-4 tolerance", observed, current)
	}

	named := func(src *CuckooFilter[[]byte]) []int {
		var hits []int
		for i := 1; i < 900; i += 2 {
			if src.Contains([]byte(strconv.Itoa(i))) {
				hits = append(hits, i)
			}
		}
		return hits
	}

	first := named(f)
	second := named(build())
	if len(first) != len(second) {
		t.Fatalf("false-positive set for odds in [1,900) is not reproducible: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("false-positive set for odds in [1,900) is not reproducible: %v vs %v", first, second)
		}
	}
}
