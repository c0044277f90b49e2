// Package blob stores correlation histograms in a compact columnar container.
//
// A blob holds the bin edges, the raw counts and optionally the normalized
// amplitudes of one histogram, behind the 32-byte header described in package
// section. Integer edges are delta-of-delta encoded, float edges and normalized
// amplitudes are stored raw, counts are zigzag varints. The encoded columns are
// compressed as one payload and protected by an xxHash64 checksum.
//
// Encoding:
//
//	data, err := blob.Encode(blob.Histogram[int64]{Edges: edges, Counts: hist},
//	    blob.WithCompression(format.CompressionZstd),
//	)
//
// Decoding requires the edge type the blob was written with:
//
//	h, err := blob.Decode[int64](data)
//
// Inspect reads the header and verifies the checksum without decoding columns.
package blob
