// Package endian provides byte order utilities for the timetag binary formats.
//
// Time-tag streams are written by acquisition hardware in little-endian order with
// record widths that are not always a power of two: the V2 stream packs each event
// into 48 bits. This package pairs the standard library's ByteOrder and
// AppendByteOrder into one EndianEngine and adds 48-bit accessors on top of it.
//
//	engine := endian.GetLittleEndianEngine()
//	word := endian.Uint48(engine, record[:6])
//	buf = endian.AppendUint48(engine, buf, word)
//
// All functions are safe for concurrent use; engines are stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Uint48Mask keeps the low 48 bits of a word.
const Uint48Mask = uint64(1)<<48 - 1

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsLittleEndian reports whether engine orders bytes least significant first.
func IsLittleEndian(engine EndianEngine) bool {
	return engine == binary.LittleEndian
}

// Uint48 decodes a 48-bit unsigned integer from the first 6 bytes of b.
// It panics if len(b) < 6.
func Uint48(engine EndianEngine, b []byte) uint64 {
	_ = b[5] // bounds check hint

	if IsLittleEndian(engine) {
		return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 |
			uint64(b[3])<<24 | uint64(b[4])<<32 | uint64(b[5])<<40
	}

	return uint64(b[5]) | uint64(b[4])<<8 | uint64(b[3])<<16 |
		uint64(b[2])<<24 | uint64(b[1])<<32 | uint64(b[0])<<40
}

// PutUint48 encodes the low 48 bits of v into the first 6 bytes of b.
// It panics if len(b) < 6.
func PutUint48(engine EndianEngine, b []byte, v uint64) {
	_ = b[5]

	if IsLittleEndian(engine) {
		for i := range 6 {
			b[i] = byte(v >> (8 * i))
		}

		return
	}

	for i := range 6 {
		b[5-i] = byte(v >> (8 * i))
	}
}

// AppendUint48 appends the 6-byte encoding of the low 48 bits of v to b.
func AppendUint48(engine EndianEngine, b []byte, v uint64) []byte {
	var tmp [6]byte
	PutUint48(engine, tmp[:], v)

	return append(b, tmp[:]...)
}
