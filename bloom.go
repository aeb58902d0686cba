// BloomFilter: a Filter[T] adapter over an externally supplied bit-array
// Bloom primitive, included for API parity with CuckooFilter — same
// element-based surface, same constructor shape, no internal bit-packing
// of our own this time.
//
// A Bloom filter has no notion of "this exact fingerprint in this exact
// slot", so it cannot support deletion or multiset difference/
// containment the way the cuckoo filter's table can. RemoveAllCollection,
// RemoveAllFilter and ContainsAllFilter return ErrUnsupported; Remove has
// no error result, so it always reports false, leaves the filter
// unchanged and returns no ErrUnsupported.
package probably

import (
	"fmt"

	"github.com/bits-and-blooms/bloom/v3"
)

// BloomFilter is a generic Bloom filter over elements of type T, backed
// by github.com/bits-and-blooms/bloom/v3.
type BloomFilter[T any] struct {
	filter   *bloom.BloomFilter
	funnel   Funnel[T]
	capacity int64
	fpp      float64
	size     int64
}

// NewBloomFilter constructs an empty Bloom filter sized for capacity
// elements at the given target false-positive probability.
func NewBloomFilter[T any](funnel Funnel[T], capacity int64, fpp float64) (*BloomFilter[T], error) {
	checkNotNil(funnel, "funnel")
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity (%d) must be > 0", ErrInvalidArgument, capacity)
	}
	if fpp < MinFpp || fpp > MaxFpp {
		return nil, fmt.Errorf("%w: fpp (%v) must be in [%v,%v]", ErrInvalidArgument, fpp, MinFpp, MaxFpp)
	}
	return &BloomFilter[T]{
		filter:   bloom.NewWithEstimates(uint(capacity), fpp),
		funnel:   funnel,
		capacity: capacity,
		fpp:      fpp,
	}, nil
}

func (f *BloomFilter[T]) bytesOf(e T) []byte {
	var sink HashSink
	f.funnel.Put(e, &sink)
	return sink.Bytes()
}

// Add inserts e. Bloom filters never saturate, so this always returns
// true; the bool return exists only for Filter[T] parity with
// CuckooFilter.Add, where false means "rejected, table unchanged".
func (f *BloomFilter[T]) Add(e T) bool {
	checkNotNil(e, "element")
	f.filter.Add(f.bytesOf(e))
	f.size++
	return true
}

// Contains reports whether e was possibly added.
func (f *BloomFilter[T]) Contains(e T) bool {
	checkNotNil(e, "element")
	return f.filter.Test(f.bytesOf(e))
}

// Remove is unsupported: a Bloom filter cannot clear the bits a single
// element set without risking false negatives for every other element
// that shares one of those bits.
func (f *BloomFilter[T]) Remove(T) bool { return false }

// AddAllCollection adds every element, always succeeding.
func (f *BloomFilter[T]) AddAllCollection(elements []T) (bool, error) {
	checkNotNil(elements, "elements")
	for _, e := range elements {
		f.Add(e)
	}
	return true, nil
}

// AddAllFilter unions other into f in place, delegating to the backing
// library's bit-array merge.
func (f *BloomFilter[T]) AddAllFilter(other Filter[T]) (bool, error) {
	checkNotNil(other, "other")
	bf, ok := other.(*BloomFilter[T])
	if !ok {
		return false, fmt.Errorf("%w: peer is not a compatible bloom filter", ErrIncompatible)
	}
	if bf == f {
		return false, fmt.Errorf("%w: cannot union a bloom filter with itself", ErrInvalidArgument)
	}
	if err := f.filter.Merge(bf.filter); err != nil {
		return false, fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	f.size += bf.size
	return true, nil
}

// RemoveAllCollection is unsupported; see Remove.
func (f *BloomFilter[T]) RemoveAllCollection([]T) (bool, error) {
	return false, ErrUnsupported
}

// RemoveAllFilter is unsupported; see Remove.
func (f *BloomFilter[T]) RemoveAllFilter(Filter[T]) (bool, error) {
	return false, ErrUnsupported
}

// ContainsAllCollection reports whether every element is possibly
// present.
func (f *BloomFilter[T]) ContainsAllCollection(elements []T) (bool, error) {
	checkNotNil(elements, "elements")
	for _, e := range elements {
		if !f.Contains(e) {
			return false, nil
		}
	}
	return true, nil
}

// ContainsAllFilter is unsupported: the backing library exposes no
// reliable notion of bit-set containment independent of false-positive
// bits contributed by unrelated elements, so this would either be wrong
// or indistinguishable from IsCompatible.
func (f *BloomFilter[T]) ContainsAllFilter(Filter[T]) (bool, error) {
	return false, ErrUnsupported
}

// Equivalent reports whether other is a bloom filter with identical
// bits.
func (f *BloomFilter[T]) Equivalent(other Filter[T]) bool {
	bf, ok := other.(*BloomFilter[T])
	if !ok {
		return false
	}
	return f.filter.Equal(bf.filter)
}

// IsCompatible reports whether other could participate in AddAllFilter
// with f: same concrete type, same bit-array dimensions and hash count.
func (f *BloomFilter[T]) IsCompatible(other Filter[T]) bool {
	bf, ok := other.(*BloomFilter[T])
	if !ok {
		return false
	}
	return f.filter.Cap() == bf.filter.Cap() && f.filter.K() == bf.filter.K() && f.funnel.Ordinal() == bf.funnel.Ordinal()
}

// Clear discards every element by zeroing the backing bit array in place.
func (f *BloomFilter[T]) Clear() {
	f.filter.ClearAll()
	f.size = 0
}

// Copy returns an independent filter with identical bits.
func (f *BloomFilter[T]) Copy() Filter[T] {
	dup := f.filter.Copy()
	return &BloomFilter[T]{
		filter:   dup,
		funnel:   f.funnel,
		capacity: f.capacity,
		fpp:      f.fpp,
		size:     f.size,
	}
}

// Size returns the number of elements added, truncated to int32.
func (f *BloomFilter[T]) Size() int32 { return int32(f.size) }

// SizeLong returns the number of elements added. Unlike CuckooFilter,
// this is an insertion count, not a distinct-occupancy count: a Bloom
// filter has no way to tell two insertions of the same element apart.
func (f *BloomFilter[T]) SizeLong() int64 { return f.size }

// IsEmpty reports whether no element has been added.
func (f *BloomFilter[T]) IsEmpty() bool { return f.size == 0 }

// Capacity returns the capacity the filter was constructed with.
func (f *BloomFilter[T]) Capacity() int64 { return f.capacity }

// Fpp returns the false-positive probability the filter was constructed
// with.
func (f *BloomFilter[T]) Fpp() float64 { return f.fpp }

// CurrentFpp estimates the actual false-positive probability at the
// filter's current occupancy.
func (f *BloomFilter[T]) CurrentFpp() float64 {
	return bloom.EstimateFalsePositiveRate(f.filter.Cap(), f.filter.K(), uint(f.size))
}
