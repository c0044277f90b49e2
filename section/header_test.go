package section

import (
	"testing"

	"github.com/arloliu/timetag/errs"
	"github.com/arloliu/timetag/format"
	"github.com/stretchr/testify/require"
)

func sampleHeader(flags uint8) Header {
	return Header{
		Flags:            flags,
		Compression:      format.CompressionZstd,
		BinCount:         128,
		CountsOffset:     140,
		NormalizedOffset: 400,
		PayloadSize:      1424,
		Checksum:         0x0123456789abcdef,
	}
}

func TestHeader_RoundTrip(t *testing.T) {
	for _, flags := range []uint8{FlagNormalized, FlagNormalized | FlagFloatEdges, FlagNormalized | FlagBigEndian} {
		h := sampleHeader(flags)
		b := h.Bytes()
		require.Len(t, b, HeaderSize)
		require.Equal(t, []byte("TTHB"), b[0:4])
		require.Equal(t, byte(Version), b[4])

		parsed, err := ParseHeader(append(b, 0xAA, 0xBB))
		require.NoError(t, err)
		require.Equal(t, h, parsed)
	}
}

func TestHeader_ByteOrder(t *testing.T) {
	h := Header{Compression: format.CompressionNone, BinCount: 1, CountsOffset: 2, NormalizedOffset: 3, PayloadSize: 3}

	little := h.Bytes()
	require.Equal(t, []byte{1, 0, 0, 0}, little[8:12])

	h.Flags = FlagBigEndian
	big := h.Bytes()
	require.Equal(t, []byte{0, 0, 0, 1}, big[8:12])
	require.Equal(t, little[0:5], big[0:5])
}

func TestHeader_Accessors(t *testing.T) {
	h := sampleHeader(FlagFloatEdges)
	require.True(t, h.HasFloatEdges())
	require.False(t, h.HasNormalized())

	h.Flags = FlagNormalized
	require.False(t, h.HasFloatEdges())
	require.True(t, h.HasNormalized())
}

func TestParseHeader_Invalid(t *testing.T) {
	valid := sampleHeader(FlagNormalized)

	corrupt := func(mutate func(b []byte)) []byte {
		b := valid.Bytes()
		mutate(b)

		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"short", valid.Bytes()[:HeaderSize-1]},
		{"bad magic", corrupt(func(b []byte) { b[0] = 'X' })},
		{"bad version", corrupt(func(b []byte) { b[4] = 9 })},
		{"unknown flag", corrupt(func(b []byte) { b[5] |= 0x80 })},
		{"unknown compression", corrupt(func(b []byte) { b[6] = 0x7f })},
		{"counts after normalized", corrupt(func(b []byte) { b[12] = 0xff; b[13] = 0xff })},
		{"normalized past payload", corrupt(func(b []byte) { b[18] = 0xff })},
		{"stray normalized bytes", corrupt(func(b []byte) { b[5] = 0 })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.data)
			require.ErrorIs(t, err, errs.ErrInvalidBlob)
		})
	}
}

func TestHeader_ParseExactSize(t *testing.T) {
	var h Header
	require.ErrorIs(t, h.Parse(make([]byte, HeaderSize+1)), errs.ErrInvalidBlob)
}
