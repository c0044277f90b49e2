package encoding

import "iter"

// ColumnEncoder encodes a column of values into an internal buffer.
type ColumnEncoder[T comparable] interface {
	// Bytes returns the encoded column. The slice is valid until the next Write,
	// WriteSlice or Finish and must not be modified.
	Bytes() []byte

	// Len returns the number of values written.
	Len() int

	// Size returns the encoded size in bytes.
	Size() int

	// Reset discards the encoded data so the encoder can start a new column,
	// keeping its buffer.
	Reset()

	// Finish returns the buffer to its pool. The encoder must not be used afterwards.
	Finish()

	// Write appends a single value.
	Write(v T)

	// WriteSlice appends values in order.
	WriteSlice(values []T)
}

// ColumnDecoder decodes a column produced by the matching ColumnEncoder.
type ColumnDecoder[T comparable] interface {
	// All yields up to count values decoded from data. It stops early on
	// malformed or short input.
	All(data []byte, count int) iter.Seq[T]

	// DecodeInto fills dst with exactly len(dst) values and requires data to hold
	// nothing else.
	DecodeInto(dst []T, data []byte) error
}
