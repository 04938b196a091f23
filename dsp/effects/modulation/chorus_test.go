package modulation

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pitchdelay/dsp/pitchdelay"
	"github.com/cwbudde/algo-pitchdelay/internal/testutil"
)

func newTestChorus(t *testing.T) *Chorus {
	t.Helper()

	c, err := NewChorus()
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	return c
}

func TestChorusDefaults(t *testing.T) {
	c := newTestChorus(t)

	if c.SampleRate() != defaultChorusSampleRate {
		t.Fatalf("sample rate = %f", c.SampleRate())
	}

	if c.Stages() != defaultChorusStages || c.Stage().Len() != defaultChorusStages {
		t.Fatalf("stages = %d, voices = %d", c.Stages(), c.Stage().Len())
	}

	if c.BaseDelay() <= 0 {
		t.Fatalf("base delay must be > 0, got %f", c.BaseDelay())
	}

	if c.Detune() != 0 {
		t.Fatalf("detune = %f, want 0", c.Detune())
	}
}

func TestChorusValidation(t *testing.T) {
	c := newTestChorus(t)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"sample rate", func() error { return c.SetSampleRate(0) }},
		{"speed", func() error { return c.SetSpeedHz(math.NaN()) }},
		{"depth", func() error { return c.SetDepth(-0.001) }},
		{"depth too large", func() error { return c.SetDepth(1) }},
		{"base delay", func() error { return c.SetBaseDelay(0) }},
		{"stages low", func() error { return c.SetStages(0) }},
		{"stages high", func() error { return c.SetStages(MaxChorusStages + 1) }},
		{"mix", func() error { return c.SetMix(1.5) }},
		{"detune", func() error { return c.SetDetune(-1) }},
		{"width", func() error { return c.SetWidth(2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestChorusProcessInPlaceMatchesSample(t *testing.T) {
	c1 := newTestChorus(t)
	c2 := newTestChorus(t)

	for _, c := range []*Chorus{c1, c2} {
		if err := c.SetMix(0.5); err != nil {
			t.Fatalf("SetMix() error = %v", err)
		}
	}

	input := testutil.DeterministicSine(330, defaultChorusSampleRate, 0.8, 4096)

	want := make([]float64, len(input))
	copy(want, input)

	for i := range want {
		want[i] = c1.ProcessSample(want[i])
	}

	got := make([]float64, len(input))
	copy(got, input)

	// Odd block sizes straddle the control period.
	for off := 0; off < len(got); {
		n := min(77, len(got)-off)
		c2.ProcessInPlace(got[off : off+n])
		off += n
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
}

func TestChorusResetRestoresState(t *testing.T) {
	c := newTestChorus(t)

	in := testutil.DeterministicNoise(7, 0.5, 2048)

	out1 := make([]float64, len(in))
	for i := range in {
		out1[i] = c.ProcessSample(in[i])
	}

	c.Reset()

	out2 := make([]float64, len(in))
	for i := range in {
		out2[i] = c.ProcessSample(in[i])
	}

	for i := range out1 {
		if diff := math.Abs(out1[i] - out2[i]); diff > 1e-12 {
			t.Fatalf("sample %d mismatch after reset: got=%g want=%g diff=%g", i, out2[i], out1[i], diff)
		}
	}
}

func TestChorusDryMixPassesInput(t *testing.T) {
	c := newTestChorus(t)
	if err := c.SetMix(0); err != nil {
		t.Fatalf("SetMix() error = %v", err)
	}

	in := testutil.DeterministicNoise(3, 1, 1000)
	buf := append([]float64(nil), in...)
	c.ProcessInPlace(buf)

	testutil.RequireSliceNearlyEqual(t, buf, in, 0)
}

func TestChorusVoicesRampWithoutCrossfade(t *testing.T) {
	c := newTestChorus(t)
	if err := c.SetSpeedHz(2); err != nil {
		t.Fatalf("SetSpeedHz() error = %v", err)
	}

	buf := make([]float64, 64)

	for block := 0; block < 500; block++ {
		c.ProcessInPlace(buf)

		for i := 0; i < c.Stage().Len(); i++ {
			r := c.Stage().Tap(i).Reader()
			if r.State() == pitchdelay.StateCrossfading {
				t.Fatalf("block %d voice %d crossfading", block, i)
			}

			d := r.Grain(r.ActiveIndex()).Delay()
			if d < c.BaseDelay()-1e-9 || d > c.BaseDelay()+c.Depth()+1e-9 {
				t.Fatalf("block %d voice %d delay %f outside modulation range", block, i, d)
			}
		}
	}
}

func TestChorusVoicesSpreadAcrossPhase(t *testing.T) {
	c := newTestChorus(t)

	seen := map[float64]bool{}
	for i := 0; i < c.Stage().Len(); i++ {
		seen[c.Stage().Tap(i).Delay()] = true
	}

	if len(seen) != c.Stages() {
		t.Fatalf("voices share delays: %v", seen)
	}
}

func TestChorusDetuneShiftsOuterVoices(t *testing.T) {
	c := newTestChorus(t)
	if err := c.SetDetune(20); err != nil {
		t.Fatalf("SetDetune() error = %v", err)
	}

	first := c.Stage().Tap(0).Reader()
	mid := c.Stage().Tap(1).Reader()
	last := c.Stage().Tap(2).Reader()

	if !first.IsPitchShifting() || !last.IsPitchShifting() {
		t.Fatal("outer voices should be pitch shifting")
	}

	if mid.IsPitchShifting() {
		t.Fatal("center voice should keep pitch")
	}

	if !(first.PitchRatio() < 1 && last.PitchRatio() > 1) {
		t.Fatalf("ratios = %f, %f", first.PitchRatio(), last.PitchRatio())
	}

	buf := testutil.DeterministicSine(220, defaultChorusSampleRate, 0.5, 1<<14)
	c.ProcessInPlace(buf)
	testutil.RequireFinite(t, buf)

	if err := c.SetDetune(0); err != nil {
		t.Fatalf("SetDetune() error = %v", err)
	}

	if first.IsPitchShifting() {
		t.Fatal("detune 0 should turn pitch shifting off")
	}
}

func TestChorusStereoWidth(t *testing.T) {
	run := func(width float64) (left, right []float64) {
		c := newTestChorus(t)
		if err := c.SetMix(1); err != nil {
			t.Fatalf("SetMix() error = %v", err)
		}

		if err := c.SetWidth(width); err != nil {
			t.Fatalf("SetWidth() error = %v", err)
		}

		left = testutil.DeterministicNoise(11, 0.5, 4096)
		right = append([]float64(nil), left...)
		c.ProcessStereo(left, right)

		return left, right
	}

	l, r := run(0)
	testutil.RequireSliceNearlyEqual(t, l, r, 1e-12)

	l, r = run(1)

	diff, err := testutil.MaxAbsDiff(l, r)
	if err != nil {
		t.Fatal(err)
	}

	if diff < 1e-3 {
		t.Fatalf("wide chorus should differ between channels, max diff %g", diff)
	}
}

func TestChorusSetStagesRebuildsVoices(t *testing.T) {
	c := newTestChorus(t)
	if err := c.SetStages(5); err != nil {
		t.Fatalf("SetStages() error = %v", err)
	}

	if c.Stage().Len() != 5 {
		t.Fatalf("voices = %d, want 5", c.Stage().Len())
	}

	buf := testutil.DeterministicSine(440, defaultChorusSampleRate, 1, 2048)
	c.ProcessInPlace(buf)
	testutil.RequireFinite(t, buf)
}

func BenchmarkChorusProcessInPlace(b *testing.B) {
	c, err := NewChorus()
	if err != nil {
		b.Fatal(err)
	}

	buf := testutil.DeterministicNoise(1, 0.5, 256)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c.ProcessInPlace(buf)
	}
}
