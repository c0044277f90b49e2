package compress

import (
	"testing"
)

func BenchmarkCodecs(b *testing.B) {
	data := countColumn(16384)

	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		if err != nil {
			b.Fatal(err)
		}

		compressed, err := codec.Compress(data)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(ct.String()+"/Compress", func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				_, _ = codec.Compress(data)
			}
		})

		b.Run(ct.String()+"/Decompress", func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				_, _ = codec.Decompress(compressed, len(data))
			}
		})
	}
}
