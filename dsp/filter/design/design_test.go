package design

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pitchdelay/dsp/filter/biquad"
)

const fs = 48000.0

func TestPassFilters(t *testing.T) {
	tests := []struct {
		name      string
		c         biquad.Coefficients
		pass, cut float64
	}{
		{"lowpass", Lowpass(1000, DefaultQ, fs), 50, 10000},
		{"highpass", Highpass(1000, DefaultQ, fs), 10000, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if g := tt.c.MagnitudeDB(tt.pass, fs); math.Abs(g) > 0.1 {
				t.Errorf("passband gain %.3f dB", g)
			}
			if g := tt.c.MagnitudeDB(1000, fs); math.Abs(g+3.01) > 0.05 {
				t.Errorf("cutoff gain %.3f dB, want -3.01", g)
			}
			if g := tt.c.MagnitudeDB(tt.cut, fs); g > -35 {
				t.Errorf("stopband gain %.3f dB", g)
			}
		})
	}
}

func TestGainFilters(t *testing.T) {
	tests := []struct {
		name    string
		c       biquad.Coefficients
		at      float64
		want    float64
		flatAt  float64
		flatTol float64
	}{
		{"peak boost", Peak(2000, 6, 1, fs), 2000, 6, 20, 0.05},
		{"peak cut", Peak(2000, -9, 2, fs), 2000, -9, 20000, 0.2},
		{"low shelf", LowShelf(200, -6, DefaultQ, fs), 10, -6, 15000, 0.05},
		{"high shelf", HighShelf(5000, 4, DefaultQ, fs), 22000, 4, 20, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if g := tt.c.MagnitudeDB(tt.at, fs); math.Abs(g-tt.want) > 0.1 {
				t.Errorf("gain at %v Hz = %.3f dB, want %.1f", tt.at, g, tt.want)
			}
			if g := tt.c.MagnitudeDB(tt.flatAt, fs); math.Abs(g) > tt.flatTol {
				t.Errorf("gain at %v Hz = %.3f dB, want 0", tt.flatAt, g)
			}
		})
	}
}

func TestOutOfRangeIsIdentity(t *testing.T) {
	tests := []biquad.Coefficients{
		Lowpass(0, DefaultQ, fs),
		Lowpass(fs/2, DefaultQ, fs),
		Highpass(math.NaN(), DefaultQ, fs),
		Highpass(100, DefaultQ, 0),
		Peak(1000, 0, 1, fs),
		LowShelf(-5, 3, 1, fs),
		HighShelf(1000, 0, 1, fs),
	}
	for i, c := range tests {
		if !c.IsIdentity() {
			t.Errorf("case %d: got %+v, want identity", i, c)
		}
	}
}

func TestBadQFallsBackToDefault(t *testing.T) {
	if Lowpass(1000, 0, fs) != Lowpass(1000, DefaultQ, fs) {
		t.Fatal("q <= 0 should use DefaultQ")
	}
}
