package pitchdelay

import (
	"testing"

	"github.com/cwbudde/algo-pitchdelay/dsp/crossfade"
	"github.com/cwbudde/algo-pitchdelay/dsp/delay"
	"github.com/cwbudde/algo-pitchdelay/dsp/interp"
)

func benchmarkReader(b *testing.B, pitch float64, shape *crossfade.Shape) {
	s, err := delay.NewStore(48000, 1, delay.WithMode(interp.Hermite))
	if err != nil {
		b.Fatal(err)
	}
	r, err := New(
		WithScratch(s, make([]float64, 256)),
		WithCrossfade(ModePitchShift, 2048, shape),
	)
	if err != nil {
		b.Fatal(err)
	}
	r.RequestDelay(0.1, 0)
	r.RequestPitch(pitch)

	buf := make([]float64, 256)
	b.SetBytes(int64(len(buf) * 8))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Push(buf)
		r.Read(buf)
	}
}

func BenchmarkReaderStatic(b *testing.B) {
	benchmarkReader(b, 1, nil)
}

func BenchmarkReaderPitchLinear(b *testing.B) {
	benchmarkReader(b, 1.5, nil)
}

func BenchmarkReaderPitchHann(b *testing.B) {
	shape, err := crossfade.Hann(512)
	if err != nil {
		b.Fatal(err)
	}
	benchmarkReader(b, 1.5, shape)
}
