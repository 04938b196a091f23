package taps

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/filter/biquad"
	"github.com/cwbudde/algo-pitchdelay/dsp/filter/design"
	"github.com/cwbudde/algo-pitchdelay/dsp/pitchdelay"
)

const (
	toneHighpass = iota
	toneLowpass
)

// Tap is one reader of a Stage with its tone, level and pan.
type Tap struct {
	reader  *pitchdelay.Reader
	scratch []float64
	tone    *biquad.Chain

	procRate float64
	glide    int

	delay   float64
	pitch   float64
	gain    float64
	pan     float64
	lowCut  float64
	highCut float64

	gainL, gainR float64
}

func newTap(store pitchdelay.Store, procRate float64, cfg config) (*Tap, error) {
	t := &Tap{
		scratch:  make([]float64, cfg.maxBlock),
		tone:     biquad.NewChain([]biquad.Coefficients{biquad.Identity, biquad.Identity}),
		procRate: procRate,
		glide:    cfg.glide,
		pitch:    1,
		gain:     1,
	}
	opts := []pitchdelay.Option{pitchdelay.WithScratch(store, t.scratch)}
	if cfg.xfadeLen > 0 {
		opts = append(opts, pitchdelay.WithCrossfade(pitchdelay.ModeNormal, cfg.xfadeLen, cfg.xfadeShape))
	}
	if cfg.pitchLen > 0 {
		opts = append(opts, pitchdelay.WithCrossfade(pitchdelay.ModePitchShift, cfg.pitchLen, cfg.pitchShape))
	}
	r, err := pitchdelay.New(opts...)
	if err != nil {
		return nil, err
	}
	t.reader = r
	t.gainL, t.gainR = panGains(0)
	return t, nil
}

// Reader returns the tap's reader.
func (t *Tap) Reader() *pitchdelay.Reader { return t.reader }

// Delay returns the requested delay in seconds.
func (t *Tap) Delay() float64 { return t.delay }

// SetDelay glides to seconds over the stage glide length.
func (t *Tap) SetDelay(seconds float64) error {
	return t.SetDelayGlide(seconds, t.glide)
}

// SetDelayGlide moves to seconds over samples processing-rate samples.
// The reader picks a ramp or a crossfade depending on the implied speed.
func (t *Tap) SetDelayGlide(seconds float64, samples int) error {
	if !core.IsFinite(seconds) || seconds < 0 {
		return fmt.Errorf("tap delay must be finite and >= 0: %f", seconds)
	}
	t.delay = seconds
	t.reader.RequestDelay(seconds, max(samples, 0))
	return nil
}

// Modulate requests seconds over samples processing-rate samples from an
// audio-rate control source. Negative delays are raised to 0 and
// non-finite ones are ignored.
func (t *Tap) Modulate(seconds float64, samples int) {
	if !core.IsFinite(seconds) {
		return
	}
	t.delay = max(seconds, 0)
	t.reader.RequestDelay(t.delay, max(samples, 0))
}

// SetDelayNow moves to seconds without a transition. Use it while the
// output is silent, such as before the first block.
func (t *Tap) SetDelayNow(seconds float64) error {
	if !core.IsFinite(seconds) || seconds < 0 {
		return fmt.Errorf("tap delay must be finite and >= 0: %f", seconds)
	}
	t.delay = seconds
	t.reader.JumpTo(seconds)
	return nil
}

// Pitch returns the pitch ratio.
func (t *Tap) Pitch() float64 { return t.pitch }

// SetPitch sets the pitch ratio. 1 is no shift.
func (t *Tap) SetPitch(ratio float64) error {
	if !core.IsFinitePositive(ratio) {
		return fmt.Errorf("tap pitch ratio must be > 0: %f", ratio)
	}
	t.pitch = ratio
	t.reader.RequestPitch(ratio)
	return nil
}

// Gain returns the linear gain.
func (t *Tap) Gain() float64 { return t.gain }

// SetGain sets the linear gain. Negative gains invert polarity.
func (t *Tap) SetGain(g float64) error {
	if !core.IsFinite(g) {
		return fmt.Errorf("tap gain must be finite: %f", g)
	}
	t.gain = g
	t.updatePan()
	return nil
}

// Pan returns the pan position.
func (t *Tap) Pan() float64 { return t.pan }

// SetPan sets the pan position in [-1, 1], -1 is hard left.
func (t *Tap) SetPan(pan float64) error {
	if !(pan >= -1 && pan <= 1) {
		return fmt.Errorf("tap pan must be in [-1, 1]: %f", pan)
	}
	t.pan = pan
	t.updatePan()
	return nil
}

func (t *Tap) updatePan() {
	l, r := panGains(t.pan)
	t.gainL, t.gainR = l*t.gain, r*t.gain
}

// LowCut returns the highpass cutoff in Hz, 0 when off.
func (t *Tap) LowCut() float64 { return t.lowCut }

// SetLowCut sets the highpass cutoff in Hz. 0 turns it off.
func (t *Tap) SetLowCut(hz float64) error {
	if err := t.validateCutoff(hz); err != nil {
		return err
	}
	t.lowCut = hz
	t.tone.SetCoefficients(toneHighpass, design.Highpass(hz, design.DefaultQ, t.procRate))
	return nil
}

// HighCut returns the lowpass cutoff in Hz, 0 when off.
func (t *Tap) HighCut() float64 { return t.highCut }

// SetHighCut sets the lowpass cutoff in Hz. 0 turns it off.
func (t *Tap) SetHighCut(hz float64) error {
	if err := t.validateCutoff(hz); err != nil {
		return err
	}
	t.highCut = hz
	t.tone.SetCoefficients(toneLowpass, design.Lowpass(hz, design.DefaultQ, t.procRate))
	return nil
}

func (t *Tap) validateCutoff(hz float64) error {
	if !(hz >= 0 && hz < t.procRate/2) || math.IsInf(hz, 0) {
		return fmt.Errorf("tap cutoff must be in [0, %f): %f", t.procRate/2, hz)
	}
	return nil
}

// read fills dst with the filtered, unscaled tap output.
func (t *Tap) read(dst []float64, srcPos int) {
	t.reader.ReadAt(dst, srcPos)
	t.tone.ProcessBlock(dst)
}

func (t *Tap) reset() {
	t.reader.JumpTo(t.delay)
	t.tone.Reset()
}
