// Package compress provides the codecs applied to histogram blob payloads.
//
// A blob payload is compressed as a whole after its columns are encoded. The blob
// header records the codec and the uncompressed payload length, so every
// Decompressor receives the expected output size and rejects data that does not
// decompress to exactly that many bytes.
//
// Supported codecs, selected by format.CompressionType:
//   - None: payload stored as is
//   - Zstd: best ratio, klauspost/compress pure Go implementation
//   - S2: klauspost/compress Snappy extension, fast with a good ratio
//   - LZ4: block format, fastest decompression
//   - Snappy: golang/snappy block format, for readers without S2 support
//
// Count columns of correlation histograms are small varints with long runs of
// similar values and compress well with any codec. Raw float64 columns of
// normalized histograms compress poorly; None or LZ4 are usually the better choice
// there.
//
// All codecs are safe for concurrent use.
package compress
