package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngines(t *testing.T) {
	require.True(t, IsLittleEndian(GetLittleEndianEngine()))
	require.False(t, IsLittleEndian(GetBigEndianEngine()))
	require.Equal(t, binary.LittleEndian, GetLittleEndianEngine())
	require.Equal(t, binary.BigEndian, GetBigEndianEngine())
}

func TestUint48(t *testing.T) {
	t.Run("little endian layout", func(t *testing.T) {
		b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
		require.Equal(t, uint64(0x060504030201), Uint48(GetLittleEndianEngine(), b))
	})

	t.Run("big endian layout", func(t *testing.T) {
		b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
		require.Equal(t, uint64(0x010203040506), Uint48(GetBigEndianEngine(), b))
	})

	t.Run("matches 64-bit decode of zero-padded word", func(t *testing.T) {
		engine := GetLittleEndianEngine()
		b := make([]byte, 8)
		engine.PutUint64(b, 0xABCDEF123456)
		require.Equal(t, engine.Uint64(b), Uint48(engine, b[:6]))
	})

	t.Run("round trip truncates to 48 bits", func(t *testing.T) {
		for _, engine := range []EndianEngine{GetLittleEndianEngine(), GetBigEndianEngine()} {
			for _, v := range []uint64{0, 1, 0xFFFF, Uint48Mask, Uint48Mask + 1, 0xDEADBEEFCAFEBABE} {
				buf := AppendUint48(engine, nil, v)
				require.Len(t, buf, 6)
				require.Equal(t, v&Uint48Mask, Uint48(engine, buf))
			}
		}
	})

	t.Run("short slice panics", func(t *testing.T) {
		require.Panics(t, func() { Uint48(GetLittleEndianEngine(), make([]byte, 5)) })
	})
}
