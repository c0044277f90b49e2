package encoding

import (
	"encoding/binary"
	"iter"

	"github.com/arloliu/timetag/internal/pool"
)

// DeltaEncoder encodes sorted int64 values such as bin edges with delta-of-delta
// compression.
//
// The first value is stored as a zigzag varint, the second as the zigzag varint of
// its delta, and every later value as the zigzag varint of the change in delta.
// Evenly spaced values therefore cost one byte each.
type DeltaEncoder struct {
	prev      int64
	prevDelta int64
	buf       *pool.ByteBuffer
	count     int
}

var _ ColumnEncoder[int64] = (*DeltaEncoder)(nil)

// NewDeltaEncoder creates a delta-of-delta encoder backed by a pooled buffer.
func NewDeltaEncoder() *DeltaEncoder {
	return &DeltaEncoder{
		buf: pool.GetColumnBuffer(),
	}
}

// Write appends v.
func (e *DeltaEncoder) Write(v int64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	var enc int64
	switch e.count {
	case 0:
		enc = v
	case 1:
		e.prevDelta = v - e.prev
		enc = e.prevDelta
	default:
		delta := v - e.prev
		enc = delta - e.prevDelta
		e.prevDelta = delta
	}

	e.buf.B = binary.AppendUvarint(e.buf.B, zigzag(enc))
	e.prev = v
	e.count++
}

// WriteSlice appends values in order.
func (e *DeltaEncoder) WriteSlice(values []int64) {
	// most edges need one or two bytes
	e.buf.Grow(len(values) * 2)

	for _, v := range values {
		e.Write(v)
	}
}

// Bytes returns the encoded column.
func (e *DeltaEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of values written.
func (e *DeltaEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *DeltaEncoder) Size() int {
	return e.buf.Len()
}

// Reset discards the encoded column.
func (e *DeltaEncoder) Reset() {
	e.buf.Reset()
	e.prev = 0
	e.prevDelta = 0
	e.count = 0
}

// Finish returns the buffer to its pool.
func (e *DeltaEncoder) Finish() {
	pool.PutColumnBuffer(e.buf)
	e.buf = nil
}

// DeltaDecoder decodes columns written by DeltaEncoder.
type DeltaDecoder struct{}

var _ ColumnDecoder[int64] = DeltaDecoder{}

// NewDeltaDecoder creates a delta-of-delta decoder.
func NewDeltaDecoder() DeltaDecoder {
	return DeltaDecoder{}
}

// All yields up to count decoded values.
func (d DeltaDecoder) All(data []byte, count int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		var cur, delta int64
		offset := 0

		for i := 0; i < count; i++ {
			v, next, err := readVarint(data, offset)
			if err != nil {
				return
			}
			offset = next

			switch i {
			case 0:
				cur = v
			case 1:
				delta = v
				cur += delta
			default:
				delta += v
				cur += delta
			}

			if !yield(cur) {
				return
			}
		}
	}
}

// DecodeInto fills dst from data.
func (d DeltaDecoder) DecodeInto(dst []int64, data []byte) error {
	var cur, delta int64
	offset := 0

	for i := range dst {
		v, next, err := readVarint(data, offset)
		if err != nil {
			return err
		}
		offset = next

		switch i {
		case 0:
			cur = v
		case 1:
			delta = v
			cur += delta
		default:
			delta += v
			cur += delta
		}
		dst[i] = cur
	}

	return checkConsumed(data, offset)
}
