// SerialCodec: a fixed-field big-endian wire format for a CuckooFilter,
// plus an optional zstd-compressed variant for callers persisting large
// filters.
//
// The format carries no funnel identity: a deserialized filter is only
// as sound as the funnel the caller supplies to ReadCuckooFilterFrom,
// since T is fixed at the call site and can't be recovered from bytes
// alone. Supplying the wrong funnel (or the right funnel with
// incompatible Put logic) is a caller error, not something the wire
// format can detect.
package probably

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"

	"github.com/klauspost/compress/zstd"
)

// WriteTo serializes f in the order: strategy ordinal (1 byte), capacity
// (8), fpp (8), size (8), checksum (8), numBuckets (8), entriesPerBucket
// (4), bitsPerEntry (4), data word count (4), then that many 8-byte
// words — all big-endian.
func (f *CuckooFilter[T]) WriteTo(w io.Writer) (int64, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(f.strategy.Ordinal()))
	for _, v := range []any{
		f.capacity,
		f.fpp,
		f.table.size,
		f.table.checksum,
		f.table.numBuckets,
		int32(f.table.entriesPerBucket),
		int32(f.table.bitsPerEntry),
		int32(len(f.table.data)),
	} {
		if err := binary.Write(buf, binary.BigEndian, v); err != nil {
			return 0, err
		}
	}
	for _, word := range f.table.data {
		if err := binary.Write(buf, binary.BigEndian, word); err != nil {
			return 0, err
		}
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// ReadCuckooFilterFrom deserializes a filter written by WriteTo,
// reconstructing it against the supplied funnel.
func ReadCuckooFilterFrom[T any](r io.Reader, funnel Funnel[T]) (*CuckooFilter[T], error) {
	checkNotNil(funnel, "funnel")

	var ordinal [1]byte
	if _, err := io.ReadFull(r, ordinal[:]); err != nil {
		return nil, fmt.Errorf("%w: reading strategy ordinal: %v", ErrDeserialize, err)
	}
	strategy, err := strategyForOrdinal(int8(ordinal[0]))
	if err != nil {
		return nil, err
	}

	var capacity, size, checksum, numBuckets int64
	var fpp float64
	var entriesPerBucket, bitsPerEntry, dataLen int32
	fields := []any{&capacity, &fpp, &size, &checksum, &numBuckets, &entriesPerBucket, &bitsPerEntry, &dataLen}
	for _, field := range fields {
		if err := binary.Read(r, binary.BigEndian, field); err != nil {
			return nil, fmt.Errorf("%w: reading header: %v", ErrDeserialize, err)
		}
	}

	table, err := newBitPackedTable(numBuckets, int(entriesPerBucket), int(bitsPerEntry))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid table dimensions: %v", ErrDeserialize, err)
	}
	if int32(len(table.data)) != dataLen {
		return nil, fmt.Errorf("%w: data word count %d does not match dimensions (expected %d)", ErrDeserialize, dataLen, len(table.data))
	}
	for i := range table.data {
		if err := binary.Read(r, binary.BigEndian, &table.data[i]); err != nil {
			return nil, fmt.Errorf("%w: reading data word %d: %v", ErrDeserialize, i, err)
		}
	}
	table.size = size
	table.checksum = checksum

	return &CuckooFilter[T]{
		table:    table,
		funnel:   funnel,
		strategy: strategy,
		capacity: capacity,
		fpp:      fpp,
		kicker:   rand.New(rand.NewSource(1)),
	}, nil
}

// WriteCompressedTo serializes f through a zstd encoder tuned for
// throughput over ratio, since filters are re-serialized far more often
// than they are shipped over a slow link.
func (f *CuckooFilter[T]) WriteCompressedTo(w io.Writer) (int64, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return 0, err
	}
	n, err := f.WriteTo(enc)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// ReadCompressedCuckooFilterFrom reverses WriteCompressedTo.
func ReadCompressedCuckooFilterFrom[T any](r io.Reader, funnel Funnel[T]) (*CuckooFilter[T], error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return ReadCuckooFilterFrom(dec, funnel)
}
