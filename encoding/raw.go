package encoding

import (
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/timetag/endian"
	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/internal/pool"
)

// RawEncoder stores float64 values as 8-byte IEEE 754 words in the given byte order.
type RawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnEncoder[float64] = (*RawEncoder)(nil)

// NewRawEncoder creates a raw float64 encoder backed by a pooled buffer.
func NewRawEncoder(engine endian.EndianEngine) *RawEncoder {
	return &RawEncoder{
		engine: engine,
		buf:    pool.GetColumnBuffer(),
	}
}

// Write appends v.
func (e *RawEncoder) Write(v float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(v))
	e.count++
}

// WriteSlice appends values in order.
func (e *RawEncoder) WriteSlice(values []float64) {
	e.buf.Grow(len(values) * 8)

	for _, v := range values {
		e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(v))
	}
	e.count += len(values)
}

// Bytes returns the encoded column.
func (e *RawEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of values written.
func (e *RawEncoder) Len() int {
	return e.count
}

// Size returns the encoded size in bytes.
func (e *RawEncoder) Size() int {
	return e.buf.Len()
}

// Reset discards the encoded column.
func (e *RawEncoder) Reset() {
	e.buf.Reset()
	e.count = 0
}

// Finish returns the buffer to its pool.
func (e *RawEncoder) Finish() {
	pool.PutColumnBuffer(e.buf)
	e.buf = nil
}

// RawDecoder decodes columns written by RawEncoder.
type RawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnDecoder[float64] = RawDecoder{}

// NewRawDecoder creates a raw float64 decoder for the given byte order.
func NewRawDecoder(engine endian.EndianEngine) RawDecoder {
	return RawDecoder{engine: engine}
}

// All yields up to count decoded values.
func (d RawDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i := 0; i < count && (i+1)*8 <= len(data); i++ {
			if !yield(math.Float64frombits(d.engine.Uint64(data[i*8:]))) {
				return
			}
		}
	}
}

// DecodeInto fills dst from data, which must hold exactly 8*len(dst) bytes.
func (d RawDecoder) DecodeInto(dst []float64, data []byte) error {
	if len(data) != len(dst)*8 {
		return fmt.Errorf("raw column of %d bytes for %d values: %w", len(data), len(dst), errs.ErrInvalidBlob)
	}

	for i := range dst {
		dst[i] = math.Float64frombits(d.engine.Uint64(data[i*8:]))
	}

	return nil
}
