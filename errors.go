// Package probably provides probabilistic membership filters: a Cuckoo
// filter with bounded-eviction insertion, deletion, and multiset
// set-theoretic operations against a compatible peer, plus a Bloom filter
// adapter that satisfies the same contract for API parity.
//
// Both filter types implement Filter[T]: an approximate containment test
// with one-sided error — a positive answer from Contains might be wrong,
// a negative answer never is. Mutation is single-writer; concurrent readers
// without a writer are safe, a writer concurrent with any reader is not.
package probably

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for programmatic handling via errors.Is. Invalid
// arguments and incompatible peers are checked before any mutation.
// Saturation during Add is not an error — it is signaled by a false
// return with the table left bit-identical to its pre-call state.
// Soundness loss after an out-of-protocol Remove is not signaled at all;
// it is a documented consequence, not a runtime condition.
var (
	ErrNullArgument    = errors.New("probably: null argument")
	ErrInvalidArgument = errors.New("probably: invalid argument")
	ErrIncompatible    = errors.New("probably: incompatible filter")
	ErrUnsupported     = errors.New("probably: operation not supported by this filter")
	ErrDeserialize     = errors.New("probably: malformed serial form")
)

// checkNotNil panics if v is nil, or a nil pointer/slice/map/chan/func
// hiding behind the any interface. Generic code over T any can't compare
// e == nil directly, so reflection is the only way to honor the
// "null-argument" precondition uniformly across element, funnel, and
// peer-filter arguments. A violation here is a programmer error, not a
// recoverable condition — the nearest Go analogue to the unchecked
// NullPointerException the original threw for the same cases. The panic
// value wraps ErrNullArgument so callers that recover can still match it
// with errors.Is.
func checkNotNil(v any, what string) {
	if v == nil {
		panic(fmt.Errorf("%w: %s must not be nil", ErrNullArgument, what))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer, reflect.Interface:
		if rv.IsNil() {
			panic(fmt.Errorf("%w: %s must not be nil", ErrNullArgument, what))
		}
	}
}
