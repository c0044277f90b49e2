// Package timetag processes photon time-tag streams from single-photon counting
// hardware.
//
// It decodes raw detector streams into macrotimes, correlates two channels into a
// lag histogram, normalizes and rebins correlation histograms, recovers microtimes
// against a laser sync channel and stores histograms as compact checksummed blobs.
//
// # Basic Usage
//
// Decoding two channels and correlating them:
//
//	left, _, err := timetag.ReadFile("ch1.tt")
//	right, _, err := timetag.ReadFile("ch2.tt")
//
//	edges := make([]int64, 1001)
//	_ = histogram.LinearEdges(edges, 0, 1000, 1, true, false)
//
//	h, err := timetag.Correlogram(edges, left.Macrotimes, right.Macrotimes)
//	data, err := timetag.EncodeHistogram(h)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the stream, correlate,
// histogram, microtime and blob packages for the most common use cases. For
// incremental decoding, custom edge types or reusable output buffers, use those
// packages directly.
package timetag

import (
	"github.com/arloliu/timetag/blob"
	"github.com/arloliu/timetag/correlate"
	"github.com/arloliu/timetag/format"
	"github.com/arloliu/timetag/histogram"
	"github.com/arloliu/timetag/microtime"
	"github.com/arloliu/timetag/search"
	"github.com/arloliu/timetag/stream"
)

var defaultEncoderOptions = []blob.EncoderOption{
	blob.WithLittleEndian(),
	blob.WithCompression(format.CompressionZstd),
}

// ReadFile decodes the whole stream file at path, detecting its format from the header.
//
// Returns the decoded photons and the detected format.
func ReadFile(path string) (*stream.Result, format.Format, error) {
	f, err := stream.DetectFile(path)
	if err != nil {
		return nil, 0, err
	}

	res, err := stream.ReadFile(path, f, stream.Session{})
	if err != nil {
		return nil, 0, err
	}

	return res, f, nil
}

// CrossCorrelate returns the cross-correlation histogram of right against left:
// bin i counts the pairs with edges[i] <= right[j]-left[k] < edges[i+1].
//
// Both sequences must be sorted ascending. Evenly spaced int64 edges of width one
// take the faster shared-cursor path.
func CrossCorrelate[T search.Number](edges, left, right []T) ([]int64, error) {
	if len(edges) < 2 {
		return nil, correlate.VariableBin(nil, edges, left, right)
	}

	hist := make([]int64, len(edges)-1)

	if e, ok := any(edges).([]int64); ok && unitGrid(e) {
		l, _ := any(left).([]int64)
		r, _ := any(right).([]int64)

		return hist, correlate.UnitBin(hist, e, l, r)
	}

	if err := correlate.VariableBin(hist, edges, left, right); err != nil {
		return nil, err
	}

	return hist, nil
}

// unitGrid reports whether consecutive edges are exactly one unit apart.
func unitGrid(edges []int64) bool {
	for i := 1; i < len(edges); i++ {
		if edges[i]-edges[i-1] != 1 {
			return false
		}
	}

	return true
}

// Normalize returns the normalized amplitudes of a cross-correlation histogram of
// nLeft and nRight photons recorded over [tMin, tMax].
func Normalize[T search.Number](hist []int64, edges []T, tMin, tMax T, nLeft, nRight uint64) ([]float64, error) {
	out := make([]float64, len(hist))
	if err := histogram.Normalize(out, hist, edges, tMin, tMax, nLeft, nRight); err != nil {
		return nil, err
	}

	return out, nil
}

// Correlogram cross-correlates left and right over edges and normalizes the result
// over the time span covered by both sequences.
//
// The returned histogram shares edges with the caller.
func Correlogram[T search.Number](edges, left, right []T) (blob.Histogram[T], error) {
	counts, err := CrossCorrelate(edges, left, right)
	if err != nil {
		return blob.Histogram[T]{}, err
	}

	h := blob.Histogram[T]{Edges: edges, Counts: counts}
	if err := NormalizeOver(&h, left, right); err != nil {
		return blob.Histogram[T]{}, err
	}

	return h, nil
}

// Span returns the earliest and latest timestamp of the sorted sequences left and
// right. ok is false when either is empty or the span has zero length.
func Span[T search.Number](left, right []T) (tMin, tMax T, ok bool) {
	if len(left) == 0 || len(right) == 0 {
		return tMin, tMax, false
	}

	tMin = min(left[0], right[0])
	tMax = max(left[len(left)-1], right[len(right)-1])

	return tMin, tMax, tMax > tMin
}

// NormalizeOver sets h.Normalized from h.Counts, taking the acquisition window as
// the Span of left and right. An empty window normalizes every bin to 0.
func NormalizeOver[T search.Number](h *blob.Histogram[T], left, right []T) error {
	tMin, tMax, ok := Span(left, right)
	if !ok {
		h.Normalized = make([]float64, len(h.Counts))

		return nil
	}

	normalized, err := Normalize(h.Counts, h.Edges, tMin, tMax, uint64(len(left)), uint64(len(right)))
	if err != nil {
		return err
	}
	h.Normalized = normalized

	return nil
}

// Rebin merges factor consecutive bins of h, dropping the incomplete tail.
// Normalized amplitudes are not carried over since they do not add up.
func Rebin[T search.Number](h blob.Histogram[T], factor int) (blob.Histogram[T], error) {
	if err := h.Validate(); err != nil {
		return blob.Histogram[T]{}, err
	}

	out := blob.Histogram[T]{
		Edges:  make([]T, histogram.RebinEdgesLen(len(h.Edges), factor)),
		Counts: make([]int64, histogram.RebinLen(len(h.Counts), factor)),
	}

	if err := histogram.Rebin(out.Counts, h.Counts, factor); err != nil {
		return blob.Histogram[T]{}, err
	}

	if err := histogram.RebinEdges(out.Edges, h.Edges, factor); err != nil {
		return blob.Histogram[T]{}, err
	}

	return out, nil
}

// Microtimes returns the microtime of every photon in data relative to the
// preceding laser pulse, with pulses recorded through a sync divider of
// totalSyncDivider.
func Microtimes(pulses, data []int64, totalSyncDivider uint64) ([]int64, error) {
	out := make([]int64, len(data))
	if err := microtime.Generate(out, pulses, data, totalSyncDivider); err != nil {
		return nil, err
	}

	return out, nil
}

// EncodeHistogram serializes h into a blob with the default options: little-endian
// with Zstd compression. Extra options override the defaults.
func EncodeHistogram[T search.Number](h blob.Histogram[T], opts ...blob.EncoderOption) ([]byte, error) {
	all := make([]blob.EncoderOption, 0, len(defaultEncoderOptions)+len(opts))
	all = append(all, defaultEncoderOptions...)
	all = append(all, opts...)

	return blob.Encode(h, all...)
}

// DecodeHistogram reads a histogram blob with edges of type T.
func DecodeHistogram[T search.Number](data []byte) (blob.Histogram[T], error) {
	return blob.Decode[T](data)
}
