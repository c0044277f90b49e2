// Package encoding provides the column encoders and decoders of histogram blobs.
//
// A histogram blob stores up to three columns, each encoded on its own:
//
//   - Integer bin edges: DeltaEncoder, delta-of-delta with zigzag varints. Linear
//     edges cost one byte per edge after the first two; logarithmic edges grow
//     slowly and stay within one or two bytes.
//   - Bin counts: VarintEncoder, one zigzag varint per count.
//   - Float bin edges and normalized amplitudes: RawEncoder, 8 bytes per value in
//     the blob's byte order.
//
// Encoders write into pooled buffers. Call Finish once the encoded bytes have been
// copied out to return the buffer to its pool.
//
// Decoders expose an iterator over the values and a DecodeInto method that fills a
// caller-sized slice and reports malformed input as errs.ErrInvalidBlob.
package encoding
