package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pitchdelay/internal/testutil"
)

func TestNewAnalyzerValidation(t *testing.T) {
	tests := []struct {
		name string
		size int
		rate float64
	}{
		{"too small", 8, 48000},
		{"not power of two", 1000, 48000},
		{"zero rate", 1024, 0},
		{"inf rate", 1024, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAnalyzer(tt.size, tt.rate); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestAnalyzerPeakFrequency(t *testing.T) {
	a, err := NewAnalyzer(4096, 48000)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	for _, freq := range []float64{440, 1000, 1234.5, 9876} {
		sig := testutil.DeterministicSine(freq, 48000, 0.7, 5000)

		got, err := a.PeakFrequency(sig)
		if err != nil {
			t.Fatalf("PeakFrequency: %v", err)
		}

		if math.Abs(got-freq) > 2 {
			t.Errorf("peak = %.2f Hz, want %.2f", got, freq)
		}
	}
}

func TestAnalyzerPowerSpectrum(t *testing.T) {
	a, err := NewAnalyzer(1024, 1024)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	p, err := a.PowerSpectrum(testutil.DeterministicSine(100, 1024, 1, 1024))
	if err != nil {
		t.Fatalf("PowerSpectrum: %v", err)
	}

	if len(p) != 513 {
		t.Fatalf("bins = %d, want 513", len(p))
	}

	for k, v := range p {
		if k >= 99 && k <= 101 {
			continue
		}

		if v > 1e-12*p[100] {
			t.Fatalf("leakage at bin %d: %g", k, v)
		}
	}
}

func TestAnalyzerShortInput(t *testing.T) {
	a, err := NewAnalyzer(256, 48000)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	if _, err := a.PeakFrequency(make([]float64, 100)); !errors.Is(err, ErrShortInput) {
		t.Fatalf("err = %v, want ErrShortInput", err)
	}
}

func TestPowerMatchesMagnitude(t *testing.T) {
	bins := []complex128{3 + 4i, -1, 2i, 0}
	mag := Magnitude(bins)
	pow := Power(bins)

	for i := range bins {
		if math.Abs(mag[i]*mag[i]-pow[i]) > 1e-12 {
			t.Fatalf("bin %d: |X|^2 = %g, power = %g", i, mag[i]*mag[i], pow[i])
		}
	}

	if mag[0] != 5 {
		t.Fatalf("|3+4i| = %g", mag[0])
	}
}

func BenchmarkAnalyzerPeakFrequency(b *testing.B) {
	a, err := NewAnalyzer(4096, 48000)
	if err != nil {
		b.Fatal(err)
	}

	sig := testutil.DeterministicSine(1000, 48000, 1, 4096)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = a.PeakFrequency(sig)
	}
}
