package modulation

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pitchdelay/dsp/interp"
	"github.com/cwbudde/algo-pitchdelay/internal/testutil"
)

func TestFlangerProcessInPlaceMatchesProcessSample(t *testing.T) {
	f1, err := NewFlanger(48000)
	if err != nil {
		t.Fatalf("NewFlanger() error = %v", err)
	}

	f2, err := NewFlanger(48000)
	if err != nil {
		t.Fatalf("NewFlanger() error = %v", err)
	}

	input := make([]float64, 128)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * float64(i) / 29)
	}

	want := make([]float64, len(input))
	copy(want, input)

	for i := range want {
		want[i] = f1.ProcessSample(want[i])
	}

	got := make([]float64, len(input))
	copy(got, input)

	f2.ProcessInPlace(got)

	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > 1e-12 {
			t.Fatalf("sample %d mismatch: got=%g want=%g diff=%g", i, got[i], want[i], diff)
		}
	}
}

func TestFlangerResetRestoresState(t *testing.T) {
	f, err := NewFlanger(48000)
	if err != nil {
		t.Fatalf("NewFlanger() error = %v", err)
	}

	in := make([]float64, 96)
	in[0] = 1

	out1 := make([]float64, len(in))
	for i := range in {
		out1[i] = f.ProcessSample(in[i])
	}

	f.Reset()

	out2 := make([]float64, len(in))
	for i := range in {
		out2[i] = f.ProcessSample(in[i])
	}

	for i := range out1 {
		if diff := math.Abs(out1[i] - out2[i]); diff > 1e-12 {
			t.Fatalf("sample %d mismatch after reset: got=%g want=%g diff=%g", i, out2[i], out1[i], diff)
		}
	}
}

func TestFlangerImpulseAtConfiguredDelayWhenDepthZero(t *testing.T) {
	f, err := NewFlanger(1000,
		WithFlangerBaseDelaySeconds(0.005),
		WithFlangerDepthSeconds(0),
		WithFlangerMix(1),
		WithFlangerFeedback(0),
	)
	if err != nil {
		t.Fatalf("NewFlanger() error = %v", err)
	}

	in := make([]float64, 16)
	in[0] = 1

	out := make([]float64, len(in))
	for i := range in {
		out[i] = f.ProcessSample(in[i])
	}

	for i := range out {
		want := 0.0
		if i == 5 {
			want = 1
		}

		if diff := math.Abs(out[i] - want); diff > 1e-12 {
			t.Fatalf("sample %d mismatch: got=%g want=%g", i, out[i], want)
		}
	}
}

func TestFlangerValidation(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		opts []FlangerOption
	}{
		{name: "zero rate", rate: 0},
		{name: "nan rate", rate: math.NaN()},
		{name: "mix", rate: 48000, opts: []FlangerOption{WithFlangerMix(2)}},
		{name: "lfo rate", rate: 48000, opts: []FlangerOption{WithFlangerRateHz(0)}},
		{name: "negative depth", rate: 48000, opts: []FlangerOption{WithFlangerDepthSeconds(-0.001)}},
		{name: "base too short", rate: 48000, opts: []FlangerOption{WithFlangerBaseDelaySeconds(0.00001)}},
		{name: "feedback", rate: 48000, opts: []FlangerOption{WithFlangerFeedback(1)}},
		{name: "base+depth", rate: 48000, opts: []FlangerOption{
			WithFlangerBaseDelaySeconds(0.009),
			WithFlangerDepthSeconds(0.002),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFlanger(tt.rate, tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFlangerSettersRollBack(t *testing.T) {
	tests := []struct {
		name      string
		base      float64
		depth     float64
		bad, good func(f *Flanger) error
	}{
		{
			name: "depth", base: 0.0087, depth: 0.0012,
			bad:  func(f *Flanger) error { return f.SetDepthSeconds(0.0014) },
			good: func(f *Flanger) error { return f.SetDepthSeconds(0.0011) },
		},
		{
			name: "base", base: 0.004, depth: 0.004,
			bad:  func(f *Flanger) error { return f.SetBaseDelaySeconds(0.007) },
			good: func(f *Flanger) error { return f.SetBaseDelaySeconds(0.0055) },
		},
		{
			name: "feedback", base: 0.002, depth: 0.001,
			bad:  func(f *Flanger) error { return f.SetFeedback(-1.5) },
			good: func(f *Flanger) error { return f.SetFeedback(-0.9) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFlanger(48000,
				WithFlangerBaseDelaySeconds(tt.base),
				WithFlangerDepthSeconds(tt.depth),
			)
			if err != nil {
				t.Fatalf("NewFlanger() error = %v", err)
			}
			fb := f.Feedback()

			if err := tt.bad(f); err == nil {
				t.Fatal("expected error")
			}
			if f.BaseDelaySeconds() != tt.base || f.DepthSeconds() != tt.depth || f.Feedback() != fb {
				t.Fatalf("state changed after failed update: base=%g depth=%g feedback=%g",
					f.BaseDelaySeconds(), f.DepthSeconds(), f.Feedback())
			}
			if err := tt.good(f); err != nil {
				t.Fatalf("valid update after rollback: %v", err)
			}
		})
	}
}

func TestFlangerInterpolationModes(t *testing.T) {
	in := testutil.DeterministicSine(700, 48000, 0.5, 2048)

	for _, mode := range []interp.Mode{interp.Linear, interp.Hermite, interp.Lagrange3} {
		t.Run(mode.String(), func(t *testing.T) {
			f, err := NewFlanger(48000, WithFlangerInterpolation(mode), WithFlangerFeedback(-0.7))
			if err != nil {
				t.Fatalf("NewFlanger() error = %v", err)
			}

			buf := append([]float64(nil), in...)
			f.ProcessInPlace(buf)
			testutil.RequireFinite(t, buf)
		})
	}
}

func TestFlangerSetSampleRateClearsLine(t *testing.T) {
	f, err := NewFlanger(48000, WithFlangerMix(1), WithFlangerFeedback(0), WithFlangerDepthSeconds(0))
	if err != nil {
		t.Fatalf("NewFlanger() error = %v", err)
	}

	f.ProcessInPlace(testutil.DC(1, 200))

	if err := f.SetSampleRate(96000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}

	if got := f.ProcessSample(0); got != 0 {
		t.Fatalf("history survived sample rate change: %g", got)
	}

	if err := f.SetSampleRate(-1); err == nil {
		t.Fatal("expected error")
	}

	if f.SampleRate() != 96000 {
		t.Fatalf("sample rate = %f after failed update", f.SampleRate())
	}
}
