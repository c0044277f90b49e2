package timetag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/timetag/blob"
	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/format"
	"github.com/arloliu/timetag/stream"
)

func writeStream(t *testing.T, f format.Format, macrotimes, microtimes []int64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "channel.tt")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w, err := stream.NewWriter(file, f)
	require.NoError(t, err)
	for i, m := range macrotimes {
		var micro uint64
		if microtimes != nil {
			micro = uint64(microtimes[i])
		}
		require.NoError(t, w.WritePhoton(m, micro))
	}
	require.NoError(t, w.Close())

	return path
}

func TestReadFile(t *testing.T) {
	t.Run("V2", func(t *testing.T) {
		want := []int64{1, 5, 1 << 50}
		res, f, err := ReadFile(writeStream(t, format.FormatV2, want, nil))
		require.NoError(t, err)
		require.Equal(t, format.FormatV2, f)
		require.Equal(t, want, res.Macrotimes)
		require.Nil(t, res.Microtimes)
	})

	t.Run("V1", func(t *testing.T) {
		macro := []int64{3, 3, 900}
		micro := []int64{7, 8, 9}
		res, f, err := ReadFile(writeStream(t, format.FormatV1, macro, micro))
		require.NoError(t, err)
		require.Equal(t, format.FormatV1, f)
		require.Equal(t, macro, res.Macrotimes)
		require.Equal(t, micro, res.Microtimes)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := ReadFile(filepath.Join(t.TempDir(), "none.tt"))
		require.ErrorIs(t, err, errs.ErrIO)
	})
}

func TestCrossCorrelate(t *testing.T) {
	left := []int64{0, 10}
	right := []int64{0, 1, 2, 11, 12}

	t.Run("unit edges", func(t *testing.T) {
		hist, err := CrossCorrelate([]int64{0, 1, 2, 3}, left, right)
		require.NoError(t, err)
		require.Equal(t, []int64{1, 2, 2}, hist)
	})

	t.Run("float edges", func(t *testing.T) {
		hist, err := CrossCorrelate([]float64{0, 1, 2, 3}, []float64{0, 10}, []float64{0, 1, 2, 11, 12})
		require.NoError(t, err)
		require.Equal(t, []int64{1, 2, 2}, hist)
	})

	t.Run("wide edges", func(t *testing.T) {
		hist, err := CrossCorrelate([]int64{0, 2, 4}, left, right)
		require.NoError(t, err)
		require.Equal(t, []int64{3, 2}, hist)
	})

	t.Run("too few edges", func(t *testing.T) {
		_, err := CrossCorrelate([]int64{0}, left, right)
		require.ErrorIs(t, err, errs.ErrInsufficientBinEdges)
	})
}

func TestCorrelogram(t *testing.T) {
	edges := []int64{0, 1, 2, 3}

	h, err := Correlogram(edges, []int64{0, 10}, []int64{0, 1, 2, 11, 12})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 2}, h.Counts)
	require.Len(t, h.Normalized, 3)
	for _, v := range h.Normalized {
		require.Greater(t, v, 0.0)
	}
	require.NoError(t, h.Validate())

	empty, err := Correlogram(edges, nil, []int64{1, 2})
	require.NoError(t, err)
	require.Equal(t, []int64{0, 0, 0}, empty.Counts)
	require.Equal(t, []float64{0, 0, 0}, empty.Normalized)
}

func TestRebin(t *testing.T) {
	h := blob.Histogram[int64]{
		Edges:  []int64{0, 1, 2, 3, 4, 5, 6},
		Counts: []int64{1, 2, 3, 4, 5, 6},
	}

	got, err := Rebin(h, 2)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 2, 4, 6}, got.Edges)
	require.Equal(t, []int64{3, 7, 11}, got.Counts)

	got, err = Rebin(h, 4)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 4}, got.Edges)
	require.Equal(t, []int64{10}, got.Counts)

	_, err = Rebin(h, 0)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestMicrotimes(t *testing.T) {
	got, err := Microtimes([]int64{0, 100, 200, 300}, []int64{5, 150, 299}, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{5, 50, 99}, got)

	_, err = Microtimes([]int64{0}, []int64{5}, 1)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestEncodeDecodeHistogram(t *testing.T) {
	h, err := Correlogram([]int64{-2, -1, 0, 1, 2}, []int64{10, 20, 30}, []int64{9, 11, 21, 30})
	require.NoError(t, err)

	data, err := EncodeHistogram(h)
	require.NoError(t, err)

	info, err := blob.Inspect(data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, info.Header.Compression)
	require.True(t, info.Header.HasNormalized())

	got, err := DecodeHistogram[int64](data)
	require.NoError(t, err)
	require.Equal(t, h, got)

	data, err = EncodeHistogram(h, blob.WithCompression(format.CompressionS2))
	require.NoError(t, err)
	info, err = blob.Inspect(data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionS2, info.Header.Compression)
}

func TestSpan(t *testing.T) {
	tMin, tMax, ok := Span([]int64{5, 9}, []int64{2, 7})
	require.True(t, ok)
	require.Equal(t, int64(2), tMin)
	require.Equal(t, int64(9), tMax)

	_, _, ok = Span([]int64{4}, []int64{4})
	require.False(t, ok)

	_, _, ok = Span(nil, []int64{1, 2})
	require.False(t, ok)
}

func TestNormalizeOver_AfterRebin(t *testing.T) {
	left := []int64{0, 100}
	right := []int64{0, 50, 100}

	h, err := Correlogram([]int64{-50, -25, 0, 25, 50, 75, 100}, left, right)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 0, 2, 0, 1, 0}, h.Counts)

	h, err = Rebin(h, 2)
	require.NoError(t, err)
	require.Nil(t, h.Normalized)
	require.NoError(t, NormalizeOver(&h, left, right))

	// span 100, 2x3 photons: A = 50*(100.5-0.5*(lo+hi)), out = count/(A*6e-4)
	require.InDelta(t, 1/3.765, h.Normalized[0], 1e-9)
	require.InDelta(t, 2/2.265, h.Normalized[1], 1e-9)
	require.InDelta(t, 1/0.765, h.Normalized[2], 1e-9)
}
