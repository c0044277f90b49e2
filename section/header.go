package section

import (
	"fmt"

	"github.com/arloliu/timetag/endian"
	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/format"
)

// Header is the fixed-size section at the start of a histogram blob.
type Header struct {
	Flags       uint8                  // byte 5
	Compression format.CompressionType // byte 6
	// BinCount is the number of histogram bins; the edges column holds BinCount+1 values.
	BinCount uint32 // byte offset 8-11
	// CountsOffset is the payload offset of the counts column.
	CountsOffset uint32 // byte offset 12-15
	// NormalizedOffset is the payload offset of the normalized column, or PayloadSize.
	NormalizedOffset uint32 // byte offset 16-19
	// PayloadSize is the uncompressed payload length.
	PayloadSize uint32 // byte offset 20-23
	// Checksum is the xxHash64 of the payload as stored.
	Checksum uint64 // byte offset 24-31
}

// HasFloatEdges reports whether the edges column holds float64 values.
func (h *Header) HasFloatEdges() bool {
	return h.Flags&FlagFloatEdges != 0
}

// HasNormalized reports whether the payload carries a normalized column.
func (h *Header) HasNormalized() bool {
	return h.Flags&FlagNormalized != 0
}

// Engine returns the byte order of the blob's multi-byte fields.
func (h *Header) Engine() endian.EndianEngine {
	if h.Flags&FlagBigEndian != 0 {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Validate checks the internal consistency of the header fields.
func (h *Header) Validate() error {
	if h.Flags&^flagMask != 0 {
		return fmt.Errorf("unknown header flags 0x%02x: %w", h.Flags, errs.ErrInvalidBlob)
	}

	if !h.Compression.Valid() {
		return fmt.Errorf("compression type 0x%02x: %w", uint8(h.Compression), errs.ErrInvalidBlob)
	}

	if h.CountsOffset > h.NormalizedOffset || h.NormalizedOffset > h.PayloadSize {
		return fmt.Errorf("column offsets %d, %d exceed payload size %d: %w",
			h.CountsOffset, h.NormalizedOffset, h.PayloadSize, errs.ErrInvalidBlob)
	}

	if !h.HasNormalized() && h.NormalizedOffset != h.PayloadSize {
		return fmt.Errorf("%d bytes after counts without normalized column: %w",
			h.PayloadSize-h.NormalizedOffset, errs.ErrInvalidBlob)
	}

	return nil
}

// Parse parses the header from exactly HeaderSize bytes.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("header of %d bytes: %w", len(data), errs.ErrInvalidBlob)
	}

	if [4]byte(data[0:4]) != Magic {
		return fmt.Errorf("bad magic %q: %w", data[0:4], errs.ErrInvalidBlob)
	}

	if data[4] != Version {
		return fmt.Errorf("unsupported blob version %d: %w", data[4], errs.ErrInvalidBlob)
	}

	h.Flags = data[5]
	h.Compression = format.CompressionType(data[6])

	engine := h.Engine()
	h.BinCount = engine.Uint32(data[8:12])
	h.CountsOffset = engine.Uint32(data[12:16])
	h.NormalizedOffset = engine.Uint32(data[16:20])
	h.PayloadSize = engine.Uint32(data[20:24])
	h.Checksum = engine.Uint64(data[24:32])

	return h.Validate()
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], Magic[:])
	b[4] = Version
	b[5] = h.Flags
	b[6] = uint8(h.Compression)

	engine := h.Engine()
	engine.PutUint32(b[8:12], h.BinCount)
	engine.PutUint32(b[12:16], h.CountsOffset)
	engine.PutUint32(b[16:20], h.NormalizedOffset)
	engine.PutUint32(b[20:24], h.PayloadSize)
	engine.PutUint64(b[24:32], h.Checksum)

	return b
}

// ParseHeader parses the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("blob of %d bytes: %w", len(data), errs.ErrInvalidBlob)
	}

	var h Header
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
