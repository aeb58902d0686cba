// CuckooFilter: an approximate-membership set with deletion, bounded by
// an insertion capacity beyond which Add starts failing rather than
// growing the table.
//
// Internally every element maps to a fingerprint and two candidate
// buckets (C2, strategy.go). Insertion tries both buckets, then falls
// back to the eviction walk in insertWithEviction — the only place in
// this file capable of mutating more than one slot per call, which is
// why it tracks its own undo log.
package probably

import (
	"fmt"
	"math/rand"
)

// maxKicks bounds the eviction walk an insertion may perform before it
// gives up and rolls back. 500 matches the original's tuning: high
// enough that failure means the table is genuinely near capacity, not
// that the walk was cut short.
const maxKicks = 500

// CuckooFilter is a generic Cuckoo filter over elements of type T.
type CuckooFilter[T any] struct {
	table    *bitPackedTable
	funnel   Funnel[T]
	strategy Strategy
	capacity int64
	fpp      float64
	kicker   *rand.Rand
}

// Option configures a CuckooFilter at construction time.
type Option func(*filterConfig)

type filterConfig struct {
	strategy Strategy
}

// WithStrategy selects the indexing strategy (and therefore the hash
// algorithm and serialized ordinal) a filter uses. Defaults to
// DefaultStrategy.
func WithStrategy(s Strategy) Option {
	return func(c *filterConfig) { c.strategy = s }
}

// NewCuckooFilter constructs an empty filter sized for capacity elements
// at the given target false-positive probability.
func NewCuckooFilter[T any](funnel Funnel[T], capacity int64, fpp float64, opts ...Option) (*CuckooFilter[T], error) {
	checkNotNil(funnel, "funnel")
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity (%d) must be > 0", ErrInvalidArgument, capacity)
	}
	if fpp < MinFpp || fpp > MaxFpp {
		return nil, fmt.Errorf("%w: fpp (%v) must be in [%v,%v]", ErrInvalidArgument, fpp, MinFpp, MaxFpp)
	}

	cfg := &filterConfig{strategy: DefaultStrategy()}
	for _, opt := range opts {
		opt(cfg)
	}

	b := optimalEntriesPerBucket(fpp)
	f := optimalBitsPerEntry(fpp, b)
	numBuckets := optimalNumberOfBuckets(capacity, b)
	table, err := newBitPackedTable(numBuckets, b, f)
	if err != nil {
		return nil, err
	}

	return &CuckooFilter[T]{
		table:    table,
		funnel:   funnel,
		strategy: cfg.strategy,
		capacity: capacity,
		fpp:      fpp,
		kicker:   rand.New(rand.NewSource(1)),
	}, nil
}

func (f *CuckooFilter[T]) hashOf(e T, sink *HashSink) (hash1, hash2 int64) {
	sink.reset()
	f.funnel.Put(e, sink)
	return f.strategy.HashElement(sink.Bytes())
}

func (f *CuckooFilter[T]) tryInsert(fp uint32, bucket int64) bool {
	return f.table.swapFirst(fp, emptyEntry, bucket)
}

// insert places fp starting from bucket i1, trying its alternate bucket
// next, and finally an eviction walk from one of the two at random.
func (f *CuckooFilter[T]) insert(fp uint32, i1 int64) bool {
	if f.tryInsert(fp, i1) {
		return true
	}
	i2 := f.strategy.AltIndex(i1, fp, f.table.numBuckets)
	if f.tryInsert(fp, i2) {
		return true
	}
	start := i1
	if f.kicker.Intn(2) == 1 {
		start = i2
	}
	return f.insertWithEviction(fp, start)
}

type evictionStep struct {
	bucket  int64
	slot    int
	priorFp uint32
}

// insertWithEviction walks fingerprints between candidate buckets for up
// to maxKicks steps. Every step is recorded as it happens; on
// failure the steps are undone in reverse, restoring the table to the
// exact state it had when insertWithEviction was called.
func (f *CuckooFilter[T]) insertWithEviction(fp uint32, bucket int64) bool {
	var history []evictionStep
	n := f.table.entriesPerBucket

	for kicks := 0; kicks < maxKicks; kicks++ {
		slot := f.kicker.Intn(n)
		prior := f.table.swapAt(fp, bucket, slot)
		history = append(history, evictionStep{bucket, slot, prior})

		fp = prior
		bucket = f.strategy.AltIndex(bucket, fp, f.table.numBuckets)
		if f.tryInsert(fp, bucket) {
			return true
		}
	}

	for i := len(history) - 1; i >= 0; i-- {
		step := history[i]
		f.table.swapAt(step.priorFp, step.bucket, step.slot)
	}
	return false
}

// Add inserts e, returning false without modifying the filter if the
// table is saturated.
func (f *CuckooFilter[T]) Add(e T) bool {
	checkNotNil(e, "element")
	var sink HashSink
	h1, h2 := f.hashOf(e, &sink)
	fp := f.strategy.Fingerprint(h2, f.table.bitsPerEntry)
	i1 := f.strategy.Index(h1, f.table.numBuckets)
	return f.insert(fp, i1)
}

// Contains reports whether e was possibly added. False positives are
// possible; false negatives are not.
func (f *CuckooFilter[T]) Contains(e T) bool {
	checkNotNil(e, "element")
	var sink HashSink
	h1, h2 := f.hashOf(e, &sink)
	fp := f.strategy.Fingerprint(h2, f.table.bitsPerEntry)
	i1 := f.strategy.Index(h1, f.table.numBuckets)
	i2 := f.strategy.AltIndex(i1, fp, f.table.numBuckets)
	return f.table.hasEntry(fp, i1) || f.table.hasEntry(fp, i2)
}

// Remove deletes one occurrence of e's fingerprint, reporting whether one
// was found. Removing an element that was never added (or already
// removed) voids the filter's one-sided error guarantee for whatever
// unrelated element happens to share that fingerprint and bucket.
func (f *CuckooFilter[T]) Remove(e T) bool {
	checkNotNil(e, "element")
	var sink HashSink
	h1, h2 := f.hashOf(e, &sink)
	fp := f.strategy.Fingerprint(h2, f.table.bitsPerEntry)
	i1 := f.strategy.Index(h1, f.table.numBuckets)
	i2 := f.strategy.AltIndex(i1, fp, f.table.numBuckets)
	return f.table.swapFirst(emptyEntry, fp, i1) || f.table.swapFirst(emptyEntry, fp, i2)
}

// AddAllCollection adds every element, or none: if any insertion would
// saturate the table the whole batch is rolled back and (false, nil) is
// returned.
func (f *CuckooFilter[T]) AddAllCollection(elements []T) (bool, error) {
	checkNotNil(elements, "elements")
	trial := f.table.copy()
	live := f.table
	f.table = trial
	for _, e := range elements {
		if !f.Add(e) {
			f.table = live
			return false, nil
		}
	}
	return true, nil
}

// RemoveAllCollection removes every element found, reporting whether all
// of them were found. Unlike AddAllCollection this is not rolled back on
// partial failure: removal never fails for capacity reasons, only
// because an element was absent.
func (f *CuckooFilter[T]) RemoveAllCollection(elements []T) (bool, error) {
	checkNotNil(elements, "elements")
	allRemoved := true
	for _, e := range elements {
		if !f.Remove(e) {
			allRemoved = false
		}
	}
	return allRemoved, nil
}

// ContainsAllCollection reports whether every element is possibly
// present.
func (f *CuckooFilter[T]) ContainsAllCollection(elements []T) (bool, error) {
	checkNotNil(elements, "elements")
	for _, e := range elements {
		if !f.Contains(e) {
			return false, nil
		}
	}
	return true, nil
}

// samePeer reports whether other wraps the same *CuckooFilter[T] as f.
func (f *CuckooFilter[T]) samePeer(other Filter[T]) bool {
	cf, ok := other.(*CuckooFilter[T])
	return ok && cf == f
}

func (f *CuckooFilter[T]) asCompatiblePeer(other Filter[T]) (*CuckooFilter[T], error) {
	cf, ok := other.(*CuckooFilter[T])
	if !ok || !f.table.isCompatible(cf.table) || f.funnel.Ordinal() != cf.funnel.Ordinal() ||
		f.strategy.Ordinal() != cf.strategy.Ordinal() {
		return nil, fmt.Errorf("%w: peer is not a dimensionally compatible cuckoo filter", ErrIncompatible)
	}
	return cf, nil
}

// AddAllFilter unions other into f: every occupied fingerprint in other
// is inserted into f at the same bucket index. The union is atomic —
// either every fingerprint fits, or f is left unchanged and (false, nil)
// is returned. Unioning a filter with itself is a programming error, not
// a saturation condition.
func (f *CuckooFilter[T]) AddAllFilter(other Filter[T]) (bool, error) {
	checkNotNil(other, "other")
	if f.samePeer(other) {
		return false, fmt.Errorf("%w: cannot union a cuckoo filter with itself", ErrInvalidArgument)
	}
	cf, err := f.asCompatiblePeer(other)
	if err != nil {
		return false, err
	}

	trial := f.table.copy()
	live := f.table
	f.table = trial

	ok := true
outer:
	for bucket := int64(0); bucket < cf.table.numBuckets; bucket++ {
		for slot := 0; slot < cf.table.entriesPerBucket; slot++ {
			fp := cf.table.readEntry(bucket, slot)
			if fp == emptyEntry {
				continue
			}
			if !f.insert(fp, bucket) {
				ok = false
				break outer
			}
		}
	}
	if !ok {
		f.table = live
		return false, nil
	}
	return true, nil
}

// RemoveAllFilter removes, for every occupied fingerprint in other, one
// matching occurrence from f — a multiset difference. For each peer
// fingerprint, removal is tried at its bucket index first and at that
// bucket's alternate index second, since a fingerprint equal in value
// may have migrated to its alternate bucket in f through a different
// eviction history than in other. Removing a filter from itself clears f
// instead of attempting to read and mutate the same table concurrently.
func (f *CuckooFilter[T]) RemoveAllFilter(other Filter[T]) (bool, error) {
	checkNotNil(other, "other")
	if f.samePeer(other) {
		f.Clear()
		return true, nil
	}
	cf, err := f.asCompatiblePeer(other)
	if err != nil {
		return false, err
	}

	allRemoved := true
	for bucket := int64(0); bucket < cf.table.numBuckets; bucket++ {
		for slot := 0; slot < cf.table.entriesPerBucket; slot++ {
			fp := cf.table.readEntry(bucket, slot)
			if fp == emptyEntry {
				continue
			}
			removed := f.table.swapFirst(emptyEntry, fp, bucket)
			if !removed {
				alt := f.strategy.AltIndex(bucket, fp, f.table.numBuckets)
				removed = f.table.swapFirst(emptyEntry, fp, alt)
			}
			if !removed {
				allRemoved = false
			}
		}
	}
	return allRemoved, nil
}

// ContainsAllFilter reports whether other is a multiset subset of f: for
// every fingerprint fp occupying a slot in other at bucket b, the number
// of occurrences of fp across {b, altIndex(b,fp)} in f must be at least
// the number of occurrences of fp across that same pair in other. A
// filter always contains itself.
func (f *CuckooFilter[T]) ContainsAllFilter(other Filter[T]) (bool, error) {
	checkNotNil(other, "other")
	if f.samePeer(other) {
		return true, nil
	}
	cf, err := f.asCompatiblePeer(other)
	if err != nil {
		return false, err
	}

	for bucket := int64(0); bucket < cf.table.numBuckets; bucket++ {
		for slot := 0; slot < cf.table.entriesPerBucket; slot++ {
			fp := cf.table.readEntry(bucket, slot)
			if fp == emptyEntry {
				continue
			}
			want := pairCount(cf.table, f.strategy, bucket, fp)
			have := pairCount(f.table, f.strategy, bucket, fp)
			if have < want {
				return false, nil
			}
		}
	}
	return true, nil
}

// pairCount counts fp's occurrences across its two candidate buckets —
// bucket and its alternate — in t. Counting both rather than just bucket
// is what makes multiset comparisons insensitive to which of a
// fingerprint's two valid buckets it happened to land in after
// insertion or eviction.
func pairCount(t *bitPackedTable, s Strategy, bucket int64, fp uint32) int {
	alt := s.AltIndex(bucket, fp, t.numBuckets)
	if alt == bucket {
		return t.countEntry(fp, bucket)
	}
	return t.countEntry(fp, bucket) + t.countEntry(fp, alt)
}

// Equivalent reports whether other holds the same multiset of
// fingerprints as f — ported from the original's equivalent, which
// compares per-fingerprint occurrence counts rather than raw table
// bytes, since two filters can hold an identical multiset while
// differing in which of each fingerprint's two candidate buckets it
// physically occupies (a consequence of eviction history, not of the
// sets being unequal).
func (f *CuckooFilter[T]) Equivalent(other Filter[T]) bool {
	cf, ok := other.(*CuckooFilter[T])
	if !ok || !f.table.isCompatible(cf.table) || f.table.size != cf.table.size ||
		f.strategy.Ordinal() != cf.strategy.Ordinal() {
		return false
	}
	for bucket := int64(0); bucket < f.table.numBuckets; bucket++ {
		for slot := 0; slot < f.table.entriesPerBucket; slot++ {
			fp := f.table.readEntry(bucket, slot)
			if fp == emptyEntry {
				continue
			}
			if pairCount(f.table, f.strategy, bucket, fp) != pairCount(cf.table, f.strategy, bucket, fp) {
				return false
			}
		}
	}
	return true
}

// IsCompatible reports whether other could participate in a union,
// difference, or containment check with f: same strategy, same funnel
// encoding, same table geometry.
func (f *CuckooFilter[T]) IsCompatible(other Filter[T]) bool {
	cf, ok := other.(*CuckooFilter[T])
	if !ok {
		return false
	}
	return f.strategy.Ordinal() == cf.strategy.Ordinal() &&
		f.funnel.Ordinal() == cf.funnel.Ordinal() &&
		f.table.isCompatible(cf.table)
}

// Clear removes every element.
func (f *CuckooFilter[T]) Clear() { f.table.clear() }

// Copy returns an independent filter with identical contents.
func (f *CuckooFilter[T]) Copy() Filter[T] {
	return &CuckooFilter[T]{
		table:    f.table.copy(),
		funnel:   f.funnel,
		strategy: f.strategy,
		capacity: f.capacity,
		fpp:      f.fpp,
		kicker:   rand.New(rand.NewSource(1)),
	}
}

// Size returns the current element count, truncated to int32 for parity
// with the original API; prefer SizeLong for filters built with a large
// capacity.
func (f *CuckooFilter[T]) Size() int32 { return int32(f.table.size) }

// SizeLong returns the current element count.
func (f *CuckooFilter[T]) SizeLong() int64 { return f.table.size }

// IsEmpty reports whether the filter holds no elements.
func (f *CuckooFilter[T]) IsEmpty() bool { return f.table.size == 0 }

// Capacity returns the capacity the filter was constructed with.
func (f *CuckooFilter[T]) Capacity() int64 { return f.capacity }

// Fpp returns the false-positive probability the filter was constructed
// with.
func (f *CuckooFilter[T]) Fpp() float64 { return f.fpp }

// CurrentFpp estimates the false-positive probability at the filter's
// present load, which is lower than Fpp until the table fills up.
func (f *CuckooFilter[T]) CurrentFpp() float64 {
	return fppAtGivenLoad(f.table.load(), f.table.entriesPerBucket, f.table.bitsPerEntry)
}
