package interp

import (
	"math"
	"testing"
)

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLagrange4ExactOnCubic(t *testing.T) {
	f := func(x float64) float64 { return 0.3*x*x*x - x*x + 2*x - 1 }
	for _, frac := range []float64{0, 0.1, 0.5, 0.9} {
		got := Lagrange4(frac, f(-1), f(0), f(1), f(2))
		if math.Abs(got-f(frac)) > 1e-12 {
			t.Fatalf("frac=%v: got %v want %v", frac, got, f(frac))
		}
	}
}

func TestKernelTaps(t *testing.T) {
	tests := []struct {
		mode  Mode
		taps  int
		after int
	}{
		{mode: Linear, taps: 2, after: 1},
		{mode: Hermite, taps: 4, after: 2},
		{mode: Lagrange3, taps: 4, after: 2},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			k, err := NewKernel(tt.mode)
			if err != nil {
				t.Fatal(err)
			}
			if k.Taps() != tt.taps {
				t.Fatalf("Taps() = %d, want %d", k.Taps(), tt.taps)
			}
			if k.After != tt.after {
				t.Fatalf("After = %d, want %d", k.After, tt.after)
			}
		})
	}
}

func TestNewKernelRejectsUnknownMode(t *testing.T) {
	if _, err := NewKernel(Mode(42)); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestKernelInterpolateDC(t *testing.T) {
	for _, mode := range []Mode{Linear, Hermite, Lagrange3} {
		k, _ := NewKernel(mode)
		samples := []float64{0.7, 0.7, 0.7, 0.7}
		if got := k.Interpolate(0.37, samples[:k.Taps()]); math.Abs(got-0.7) > 1e-12 {
			t.Fatalf("%v: got %v want 0.7", mode, got)
		}
	}
}
