package compress

import (
	"fmt"

	"github.com/arloliu/timetag/format"
)

// Compressor compresses a complete encoded payload.
//
// The returned slice is owned by the caller. The input slice is not modified, though
// the None codec returns it unchanged.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload compressed by the matching Compressor.
//
// size is the uncompressed length recorded alongside the payload. Implementations
// return an error when data is corrupt or decompresses to any other length.
type Decompressor interface {
	Decompress(data []byte, size int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:   NewNoOpCompressor(),
	format.CompressionZstd:   NewZstdCompressor(),
	format.CompressionS2:     NewS2Compressor(),
	format.CompressionLZ4:    NewLZ4Compressor(),
	format.CompressionSnappy: NewSnappyCompressor(),
}

// GetCodec returns the built-in Codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// checkSize verifies a decompressed length against the recorded one.
func checkSize(algo string, got, want int) error {
	if got != want {
		return fmt.Errorf("%s: decompressed %d bytes, want %d", algo, got, want)
	}

	return nil
}
