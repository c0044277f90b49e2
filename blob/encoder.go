package blob

import (
	"fmt"
	"math"

	"github.com/arloliu/timetag/compress"
	"github.com/arloliu/timetag/encoding"
	"github.com/arloliu/timetag/endian"
	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/format"
	"github.com/arloliu/timetag/internal/hash"
	"github.com/arloliu/timetag/internal/options"
	"github.com/arloliu/timetag/search"
	"github.com/arloliu/timetag/section"
)

// EncoderConfig holds the settings applied by Encode.
type EncoderConfig struct {
	compression format.CompressionType
	bigEndian   bool
}

func newEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		compression: format.CompressionZstd,
	}
}

// EncoderOption configures Encode.
type EncoderOption = options.Option[*EncoderConfig]

// WithCompression sets the payload codec. The default is format.CompressionZstd.
func WithCompression(c format.CompressionType) EncoderOption {
	return options.New(func(cfg *EncoderConfig) error {
		if !c.Valid() {
			return fmt.Errorf("compression type 0x%02x: %w", uint8(c), errs.ErrInvalidArgument)
		}
		cfg.compression = c

		return nil
	})
}

// WithLittleEndian stores multi-byte fields little-endian, the default.
func WithLittleEndian() EncoderOption {
	return options.NoError(func(cfg *EncoderConfig) {
		cfg.bigEndian = false
	})
}

// WithBigEndian stores multi-byte fields big-endian.
// It rarely needs to be used unless interoperability with big-endian systems is required.
func WithBigEndian() EncoderOption {
	return options.NoError(func(cfg *EncoderConfig) {
		cfg.bigEndian = true
	})
}

// Encode serializes h into a new blob.
//
// Returns:
//   - errs.ErrInsufficientBinEdges or errs.ErrLengthMismatch if h is inconsistent
//   - errs.ErrInvalidArgument for unordered edges, an invalid option or a payload over 4 GiB
func Encode[T search.Number](h Histogram[T], opts ...EncoderOption) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	cfg := newEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidArgument, err)
	}

	hdr := section.Header{
		Compression: cfg.compression,
		BinCount:    uint32(len(h.Counts)), //nolint:gosec
	}
	if cfg.bigEndian {
		hdr.Flags |= section.FlagBigEndian
	}
	engine := hdr.Engine()

	edgesCol := encodeEdges(h.Edges, engine, &hdr)

	counts := encoding.NewVarintEncoder()
	defer counts.Finish()
	counts.WriteSlice(h.Counts)

	var normalized *encoding.RawEncoder
	if h.Normalized != nil {
		hdr.Flags |= section.FlagNormalized
		normalized = encoding.NewRawEncoder(engine)
		defer normalized.Finish()
		normalized.WriteSlice(h.Normalized)
	}

	size := len(edgesCol) + counts.Size()
	if normalized != nil {
		size += normalized.Size()
	}
	if size > math.MaxUint32 {
		return nil, fmt.Errorf("payload of %d bytes: %w", size, errs.ErrInvalidArgument)
	}

	payload := make([]byte, 0, size)
	payload = append(payload, edgesCol...)
	hdr.CountsOffset = uint32(len(payload)) //nolint:gosec
	payload = append(payload, counts.Bytes()...)
	hdr.NormalizedOffset = uint32(len(payload)) //nolint:gosec
	if normalized != nil {
		payload = append(payload, normalized.Bytes()...)
	}
	hdr.PayloadSize = uint32(len(payload)) //nolint:gosec

	stored, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	hdr.Checksum = hash.Checksum(stored)

	out := make([]byte, 0, section.HeaderSize+len(stored))
	out = append(out, hdr.Bytes()...)
	out = append(out, stored...)

	return out, nil
}

// encodeEdges encodes the edges column and marks float edges in hdr. The returned
// slice is a copy owned by the caller.
func encodeEdges[T search.Number](edges []T, engine endian.EndianEngine, hdr *section.Header) []byte {
	if floatEdges[T]() {
		hdr.Flags |= section.FlagFloatEdges

		enc := encoding.NewRawEncoder(engine)
		defer enc.Finish()
		for _, e := range edges {
			enc.Write(float64(e))
		}

		return append([]byte(nil), enc.Bytes()...)
	}

	enc := encoding.NewDeltaEncoder()
	defer enc.Finish()
	for _, e := range edges {
		enc.Write(int64(e))
	}

	return append([]byte(nil), enc.Bytes()...)
}
