package blob

import (
	"fmt"

	"github.com/arloliu/timetag/compress"
	"github.com/arloliu/timetag/encoding"
	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/internal/hash"
	"github.com/arloliu/timetag/search"
	"github.com/arloliu/timetag/section"
)

// Info describes a blob without decoding its columns.
type Info struct {
	Header section.Header
	// StoredSize is the payload size as stored, after compression.
	StoredSize int
}

// Ratio returns the stored payload size relative to the uncompressed size, or 0
// for an empty payload.
func (i Info) Ratio() float64 {
	if i.Header.PayloadSize == 0 {
		return 0
	}

	return float64(i.StoredSize) / float64(i.Header.PayloadSize)
}

// Inspect parses the header of data and verifies the payload checksum.
//
// Returns:
//   - errs.ErrInvalidBlob if the header is malformed
//   - errs.ErrChecksumMismatch if the payload does not match the header checksum
func Inspect(data []byte) (Info, error) {
	hdr, err := section.ParseHeader(data)
	if err != nil {
		return Info{}, err
	}

	stored := data[section.HeaderSize:]
	if !hash.Verify(stored, hdr.Checksum) {
		return Info{}, fmt.Errorf("payload of %d bytes: %w", len(stored), errs.ErrChecksumMismatch)
	}

	return Info{Header: hdr, StoredSize: len(stored)}, nil
}

// Decode reads a histogram from data. T must match the edge type the blob was
// encoded with: a float64-based type for float edges, an int64-based type otherwise.
//
// Returns:
//   - errs.ErrInvalidBlob if the blob is malformed, truncated or of the other edge type
//   - errs.ErrChecksumMismatch if the payload is corrupt
func Decode[T search.Number](data []byte) (Histogram[T], error) {
	info, err := Inspect(data)
	if err != nil {
		return Histogram[T]{}, err
	}
	hdr := info.Header

	if hdr.HasFloatEdges() != floatEdges[T]() {
		return Histogram[T]{}, fmt.Errorf("float edges %t, decoding as %T: %w", hdr.HasFloatEdges(), *new(T), errs.ErrInvalidBlob)
	}

	codec, err := compress.GetCodec(hdr.Compression)
	if err != nil {
		return Histogram[T]{}, fmt.Errorf("%w: %w", errs.ErrInvalidBlob, err)
	}

	payload, err := codec.Decompress(data[section.HeaderSize:], int(hdr.PayloadSize))
	if err != nil {
		return Histogram[T]{}, fmt.Errorf("%w: %w", errs.ErrInvalidBlob, err)
	}

	n := int(hdr.BinCount)
	countsCol := payload[hdr.CountsOffset:hdr.NormalizedOffset]
	// every count takes at least one byte
	if n == 0 || n > len(countsCol) {
		return Histogram[T]{}, fmt.Errorf("%d bins in a %d-byte counts column: %w", n, len(countsCol), errs.ErrInvalidBlob)
	}

	engine := hdr.Engine()
	h := Histogram[T]{
		Edges:  make([]T, n+1),
		Counts: make([]int64, n),
	}

	edgesCol := payload[:hdr.CountsOffset]
	if hdr.HasFloatEdges() {
		edges := make([]float64, n+1)
		if err := encoding.NewRawDecoder(engine).DecodeInto(edges, edgesCol); err != nil {
			return Histogram[T]{}, fmt.Errorf("edges column: %w", err)
		}
		for i, e := range edges {
			h.Edges[i] = T(e)
		}
	} else {
		edges := make([]int64, n+1)
		if err := encoding.NewDeltaDecoder().DecodeInto(edges, edgesCol); err != nil {
			return Histogram[T]{}, fmt.Errorf("edges column: %w", err)
		}
		for i, e := range edges {
			h.Edges[i] = T(e)
		}
	}

	if err := encoding.NewVarintDecoder().DecodeInto(h.Counts, countsCol); err != nil {
		return Histogram[T]{}, fmt.Errorf("counts column: %w", err)
	}

	if hdr.HasNormalized() {
		h.Normalized = make([]float64, n)
		if err := encoding.NewRawDecoder(engine).DecodeInto(h.Normalized, payload[hdr.NormalizedOffset:]); err != nil {
			return Histogram[T]{}, fmt.Errorf("normalized column: %w", err)
		}
	}

	return h, nil
}
