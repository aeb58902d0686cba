package probably

// Filter is the contract shared by every probabilistic membership filter
// in this package: an approximate set with one-sided error on Contains,
// plus multiset union, difference, and containment against a compatible
// peer of the same concrete type.
//
// All mutating methods are single-writer; a writer concurrent with any
// other call, reader or writer, on the same filter is a race.
type Filter[T any] interface {
	Add(e T) bool
	Contains(e T) bool
	Remove(e T) bool

	AddAllCollection(elements []T) (bool, error)
	AddAllFilter(other Filter[T]) (bool, error)
	RemoveAllCollection(elements []T) (bool, error)
	RemoveAllFilter(other Filter[T]) (bool, error)
	ContainsAllCollection(elements []T) (bool, error)
	ContainsAllFilter(other Filter[T]) (bool, error)

	Equivalent(other Filter[T]) bool
	IsCompatible(other Filter[T]) bool

	Clear()
	Copy() Filter[T]

	Size() int32
	SizeLong() int64
	IsEmpty() bool
	Capacity() int64
	Fpp() float64
	CurrentFpp() float64
}

var (
	_ Filter[[]byte] = (*CuckooFilter[[]byte])(nil)
	_ Filter[[]byte] = (*BloomFilter[[]byte])(nil)
)
