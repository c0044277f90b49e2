package compress

import (
	"fmt"

	"github.com/golang/snappy"
)

// SnappyCompressor compresses payloads with the Snappy block format.
type SnappyCompressor struct{}

var _ Codec = (*SnappyCompressor)(nil)

// NewSnappyCompressor creates a Snappy codec.
func NewSnappyCompressor() SnappyCompressor {
	return SnappyCompressor{}
}

// Compress compresses data as one Snappy block.
func (c SnappyCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return snappy.Encode(nil, data), nil
}

// Decompress decodes a Snappy block whose decoded length must be size.
func (c SnappyCompressor) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkSize("snappy", 0, size)
	}

	n, err := snappy.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompression failed: %w", err)
	}

	if err := checkSize("snappy", n, size); err != nil {
		return nil, err
	}

	out, err := snappy.Decode(make([]byte, size), data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompression failed: %w", err)
	}

	return out, nil
}
