package encoding

import (
	"encoding/binary"
	"iter"

	"github.com/arloliu/timetag/internal/pool"
)

// VarintEncoder encodes int64 values as independent zigzag varints. Histogram
// counts are unordered and mostly small, so no delta is taken.
type VarintEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

var _ ColumnEncoder[int64] = (*VarintEncoder)(nil)

// NewVarintEncoder creates a varint encoder backed by a pooled buffer.
func NewVarintEncoder() *VarintEncoder {
	return &VarintEncoder{
		buf: pool.GetColumnBuffer(),
	}
}

// Write appends v.
func (e *VarintEncoder) Write(v int64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.buf.B = binary.AppendUvarint(e.buf.B, zigzag(v))
	e.count++
}

// WriteSlice appends values in order.
func (e *VarintEncoder) WriteSlice(values []int64) {
	e.buf.Grow(len(values) * 3)

	for _, v := range values {
		e.buf.B = binary.AppendUvarint(e.buf.B, zigzag(v))
	}
	e.count += len(values)
}

// Bytes returns the encoded column.
func (e *VarintEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of values written.
func (e *VarintEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *VarintEncoder) Size() int {
	return e.buf.Len()
}

// Reset discards the encoded column.
func (e *VarintEncoder) Reset() {
	e.buf.Reset()
	e.count = 0
}

// Finish returns the buffer to its pool.
func (e *VarintEncoder) Finish() {
	pool.PutColumnBuffer(e.buf)
	e.buf = nil
}

// VarintDecoder decodes columns written by VarintEncoder.
type VarintDecoder struct{}

var _ ColumnDecoder[int64] = VarintDecoder{}

// NewVarintDecoder creates a varint decoder.
func NewVarintDecoder() VarintDecoder {
	return VarintDecoder{}
}

// All yields up to count decoded values.
func (d VarintDecoder) All(data []byte, count int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		offset := 0
		for range count {
			v, next, err := readVarint(data, offset)
			if err != nil {
				return
			}
			offset = next

			if !yield(v) {
				return
			}
		}
	}
}

// DecodeInto fills dst from data.
func (d VarintDecoder) DecodeInto(dst []int64, data []byte) error {
	offset := 0
	for i := range dst {
		v, next, err := readVarint(data, offset)
		if err != nil {
			return err
		}
		offset = next
		dst[i] = v
	}

	return checkConsumed(data, offset)
}
