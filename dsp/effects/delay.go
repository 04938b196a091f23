package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/crossfade"
	"github.com/cwbudde/algo-pitchdelay/dsp/delay"
	"github.com/cwbudde/algo-pitchdelay/dsp/effects/taps"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultDelayTimeSeconds  = 0.25
	defaultDelayFeedback     = 0.35
	defaultDelayMix          = 0.25
	defaultDelayGlideSeconds = 0.05
	defaultDelaySpread       = 1.0
	maxDelayTimeSeconds      = 2.0
	minDelayTimeSeconds      = 0.001
	maxDelayFeedback         = 0.99

	// MaxDelayTaps bounds SetTapCount.
	MaxDelayTaps = 4

	// Reads happen before the block is written, so the feedback loop works
	// in chunks no longer than the shortest delay.
	delayChunk = 32

	delayCrossfadeSamples = 1024
	delayGrainSamples     = 2048
)

// Delay is a multi-tap feedback delay whose time and pitch can change
// while audio runs. Time changes glide as a tape-style ramp when slow
// enough and crossfade otherwise. Tap i repeats at (i+1) times the delay
// time; taps alternate left and right in stereo.
type Delay struct {
	sampleRate float64

	timeSeconds  float64
	feedback     float64
	mix          float64
	tapCount     int
	spread       float64
	semitones    float64
	glideSeconds float64
	lowCut       float64
	highCut      float64

	store *delay.Store
	stage *taps.Stage
	shape *crossfade.Shape

	wet, wetR, fb, mono []float64
}

// NewDelay creates a single-tap delay with practical defaults.
func NewDelay(sampleRate float64) (*Delay, error) {
	return newDelay(sampleRate, 1)
}

// NewDualDelay creates a two-tap ping-pong delay.
func NewDualDelay(sampleRate float64) (*Delay, error) {
	return newDelay(sampleRate, 2)
}

func newDelay(sampleRate float64, tapCount int) (*Delay, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}
	shape, err := crossfade.Hann(256)
	if err != nil {
		return nil, err
	}
	d := &Delay{
		sampleRate:   sampleRate,
		timeSeconds:  defaultDelayTimeSeconds,
		feedback:     defaultDelayFeedback,
		mix:          defaultDelayMix,
		tapCount:     tapCount,
		spread:       defaultDelaySpread,
		glideSeconds: defaultDelayGlideSeconds,
		shape:        shape,
		wet:          make([]float64, delayChunk),
		wetR:         make([]float64, delayChunk),
		fb:           make([]float64, delayChunk),
		mono:         make([]float64, delayChunk),
	}
	if err := d.rebuild(); err != nil {
		return nil, err
	}
	return d, nil
}

// rebuild allocates the store and the taps for the current sample rate and
// tap count, then applies every parameter without transition.
func (d *Delay) rebuild() error {
	store, err := delay.NewStore(d.sampleRate, maxDelayTimeSeconds*MaxDelayTaps,
		delay.WithReadAhead(delayChunk),
		delay.WithMaxBlockSize(delayChunk),
	)
	if err != nil {
		return err
	}
	stage, err := taps.NewStage(store, d.tapCount,
		taps.WithMaxBlockSize(delayChunk),
		taps.WithGlide(d.glideSamples()),
		taps.WithCrossfade(delayCrossfadeSamples, d.shape),
		taps.WithPitchCrossfade(delayGrainSamples, d.shape),
	)
	if err != nil {
		return err
	}
	d.store = store
	d.stage = stage

	ratio := SemitonesToRatio(d.semitones)
	for i := 0; i < d.tapCount; i++ {
		tap := d.stage.Tap(i)
		if err := tap.SetDelayNow(d.tapTime(i)); err != nil {
			return err
		}
		if err := tap.SetPitch(ratio); err != nil {
			return err
		}
		if err := tap.SetLowCut(d.lowCut); err != nil {
			return err
		}
		if err := tap.SetHighCut(d.highCut); err != nil {
			return err
		}
	}
	return d.applyPan()
}

func (d *Delay) tapTime(i int) float64 {
	return d.timeSeconds * float64(i+1)
}

func (d *Delay) glideSamples() int {
	return int(math.Round(d.glideSeconds * d.sampleRate))
}

func (d *Delay) applyPan() error {
	for i := 0; i < d.tapCount; i++ {
		pan := 0.0
		if d.tapCount > 1 {
			pan = d.spread
			if i%2 == 0 {
				pan = -pan
			}
		}
		if err := d.stage.Tap(i).SetPan(pan); err != nil {
			return err
		}
	}
	return nil
}

// SetSampleRate updates sample rate and clears the delay history.
func (d *Delay) SetSampleRate(sampleRate float64) error {
	if !core.IsFinitePositive(sampleRate) {
		return fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}
	d.sampleRate = sampleRate
	return d.rebuild()
}

// SetTime sets the delay time of the first tap in seconds. The change
// glides over the glide time.
func (d *Delay) SetTime(seconds float64) error {
	if seconds < minDelayTimeSeconds || seconds > maxDelayTimeSeconds ||
		math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("delay time must be in [%f, %f]: %f",
			minDelayTimeSeconds, maxDelayTimeSeconds, seconds)
	}
	d.timeSeconds = seconds
	for i := 0; i < d.tapCount; i++ {
		if err := d.stage.Tap(i).SetDelay(d.tapTime(i)); err != nil {
			return err
		}
	}
	return nil
}

// SetGlide sets how long time changes take, in seconds. 0 crossfades.
func (d *Delay) SetGlide(seconds float64) error {
	if !(seconds >= 0 && seconds <= maxDelayTimeSeconds) {
		return fmt.Errorf("delay glide must be in [0, %f]: %f", maxDelayTimeSeconds, seconds)
	}
	d.glideSeconds = seconds
	return d.stage.SetGlide(d.glideSamples())
}

// SetFeedback sets feedback amount in [0, 0.99].
func (d *Delay) SetFeedback(feedback float64) error {
	if !(feedback >= 0 && feedback <= maxDelayFeedback) {
		return fmt.Errorf("delay feedback must be in [0, %v]: %f", maxDelayFeedback, feedback)
	}
	d.feedback = feedback
	return nil
}

// SetMix sets wet amount in [0, 1].
func (d *Delay) SetMix(mix float64) error {
	if !(mix >= 0 && mix <= 1) {
		return fmt.Errorf("delay mix must be in [0, 1]: %f", mix)
	}
	d.mix = mix
	return nil
}

// SetTapCount sets the number of repeats per feedback cycle in
// [1, MaxDelayTaps]. The history is cleared.
func (d *Delay) SetTapCount(n int) error {
	if n < 1 || n > MaxDelayTaps {
		return fmt.Errorf("delay tap count must be in [1, %d]: %d", MaxDelayTaps, n)
	}
	if n == d.tapCount {
		return nil
	}
	d.tapCount = n
	return d.rebuild()
}

// SetSpread sets how far taps are panned apart in [0, 1].
func (d *Delay) SetSpread(spread float64) error {
	if !(spread >= 0 && spread <= 1) {
		return fmt.Errorf("delay spread must be in [0, 1]: %f", spread)
	}
	d.spread = spread
	return d.applyPan()
}

// SetPitch transposes every repeat by semitones in [-24, 24], so repeats
// climb or fall with each feedback cycle.
func (d *Delay) SetPitch(semitones float64) error {
	if !(semitones >= -24 && semitones <= 24) {
		return fmt.Errorf("delay pitch must be in [-24, 24] semitones: %f", semitones)
	}
	d.semitones = semitones
	ratio := SemitonesToRatio(semitones)
	for i := 0; i < d.tapCount; i++ {
		if err := d.stage.Tap(i).SetPitch(ratio); err != nil {
			return err
		}
	}
	return nil
}

// SetTone sets the low and high cut of the repeats in Hz; 0 disables
// a filter. The filters sit inside the feedback loop.
func (d *Delay) SetTone(lowCut, highCut float64) error {
	for i := 0; i < d.tapCount; i++ {
		tap := d.stage.Tap(i)
		if err := tap.SetLowCut(lowCut); err != nil {
			return err
		}
		if err := tap.SetHighCut(highCut); err != nil {
			return err
		}
	}
	d.lowCut, d.highCut = lowCut, highCut
	return nil
}

// Reset clears delay state and settles taps at their target times.
func (d *Delay) Reset() {
	d.store.Reset()
	d.stage.Reset()
}

// ProcessSample processes one sample.
func (d *Delay) ProcessSample(input float64) float64 {
	buf := [1]float64{input}
	d.ProcessInPlace(buf[:])
	return buf[0]
}

// ProcessInPlace applies delay to buf in place.
func (d *Delay) ProcessInPlace(buf []float64) {
	fbGain := d.feedback / float64(d.tapCount)
	for off := 0; off < len(buf); off += delayChunk {
		x := buf[off:min(off+delayChunk, len(buf))]
		n := len(x)
		wet := d.wet[:n]
		fb := d.fb[:n]

		clear(wet)
		d.stage.ProcessMono(wet, 0)

		vecmath.ScaleBlock(fb, wet, fbGain)
		vecmath.AddBlockInPlace(fb, x)
		d.store.Push(fb)

		vecmath.ScaleBlockInPlace(x, 1-d.mix)
		vecmath.ScaleBlockInPlace(wet, d.mix)
		vecmath.AddBlockInPlace(x, wet)
	}
}

// ProcessStereo processes a stereo pair in place. The input is summed to
// mono before entering the delay line; repeats are panned.
func (d *Delay) ProcessStereo(left, right []float64) {
	if len(left) != len(right) {
		panic("delay: left and right lengths differ")
	}
	// Equal-power pans sum to at most sqrt(2) per tap.
	fbGain := d.feedback / (math.Sqrt2 * float64(d.tapCount))
	for off := 0; off < len(left); off += delayChunk {
		end := min(off+delayChunk, len(left))
		l, r := left[off:end], right[off:end]
		n := len(l)
		wl, wr := d.wet[:n], d.wetR[:n]
		fb := d.fb[:n]

		clear(wl)
		clear(wr)
		d.stage.ProcessStereo(wl, wr, 0)

		mono := d.mono[:n]
		vecmath.AddMulBlock(fb, wl, wr, fbGain)
		vecmath.AddMulBlock(mono, l, r, 0.5)
		vecmath.AddBlockInPlace(fb, mono)
		d.store.Push(fb)

		vecmath.ScaleBlockInPlace(l, 1-d.mix)
		vecmath.ScaleBlockInPlace(wl, d.mix)
		vecmath.AddBlockInPlace(l, wl)
		vecmath.ScaleBlockInPlace(r, 1-d.mix)
		vecmath.ScaleBlockInPlace(wr, d.mix)
		vecmath.AddBlockInPlace(r, wr)
	}
}

// SampleRate returns sample rate in Hz.
func (d *Delay) SampleRate() float64 { return d.sampleRate }

// Time returns delay time in seconds.
func (d *Delay) Time() float64 { return d.timeSeconds }

// Glide returns the glide time in seconds.
func (d *Delay) Glide() float64 { return d.glideSeconds }

// Feedback returns feedback amount in [0, 0.99].
func (d *Delay) Feedback() float64 { return d.feedback }

// Mix returns wet amount in [0, 1].
func (d *Delay) Mix() float64 { return d.mix }

// TapCount returns the number of taps.
func (d *Delay) TapCount() int { return d.tapCount }

// Spread returns the stereo spread.
func (d *Delay) Spread() float64 { return d.spread }

// Pitch returns the transposition of repeats in semitones.
func (d *Delay) Pitch() float64 { return d.semitones }

// Tone returns the low and high cut in Hz.
func (d *Delay) Tone() (lowCut, highCut float64) { return d.lowCut, d.highCut }

// Stage exposes the taps for inspection.
func (d *Delay) Stage() *taps.Stage { return d.stage }
