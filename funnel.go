// Element-serializer contract.
//
// A Funnel describes how to decompose a value of type T into the bytes
// that get hashed for indexing. The same funnel identity must be used for
// every operation on a given filter, and for a serialization round trip;
// equality of funnels is by ordinal, not by structural comparison, since
// two funnels with identical code could still disagree about byte layout
// in the future.
package probably

import "encoding/binary"

// Funnel writes the byte representation of a value into w for hashing, and
// identifies itself by a stable ordinal so two filters can be checked for
// a shared element encoding without comparing funnel values structurally.
type Funnel[T any] interface {
	Put(value T, w *HashSink)
	Ordinal() int8
}

// HashSink accumulates the bytes a Funnel contributes for one element.
// It is a thin, reusable buffer rather than a raw io.Writer so funnels
// can write fixed-width numeric fields without allocating per call.
type HashSink struct {
	buf []byte
}

// Bytes returns the accumulated bytes contributed so far.
func (s *HashSink) Bytes() []byte { return s.buf }

func (s *HashSink) reset() { s.buf = s.buf[:0] }

// WriteBytes appends raw bytes to the sink.
func (s *HashSink) WriteBytes(b []byte) { s.buf = append(s.buf, b...) }

// WriteString appends the bytes of a string to the sink.
func (s *HashSink) WriteString(v string) { s.buf = append(s.buf, v...) }

// WriteUint64 appends the big-endian bytes of v to the sink.
func (s *HashSink) WriteUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

// BytesFunnel funnels []byte elements by contributing their raw bytes.
type BytesFunnel struct{}

func (BytesFunnel) Put(value []byte, w *HashSink) { w.WriteBytes(value) }
func (BytesFunnel) Ordinal() int8                 { return 0 }

// StringFunnel funnels string elements by contributing their UTF-8 bytes.
type StringFunnel struct{}

func (StringFunnel) Put(value string, w *HashSink) { w.WriteString(value) }
func (StringFunnel) Ordinal() int8                 { return 1 }

// Uint64Funnel funnels uint64 elements by contributing their big-endian
// byte representation.
type Uint64Funnel struct{}

func (Uint64Funnel) Put(value uint64, w *HashSink) { w.WriteUint64(value) }
func (Uint64Funnel) Ordinal() int8                 { return 2 }
