package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/crossfade"
	"github.com/cwbudde/algo-pitchdelay/dsp/delay"
	"github.com/cwbudde/algo-pitchdelay/dsp/effects"
	"github.com/cwbudde/algo-pitchdelay/dsp/effects/taps"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultChorusSampleRate   = 44100.0
	defaultChorusSpeedHz      = 0.35
	defaultChorusDepthSeconds = 0.003
	defaultChorusBaseSeconds  = 0.018
	defaultChorusMix          = 0.18
	defaultChorusStages       = 3
	defaultChorusWidth        = 0.7
	minChorusDelaySeconds     = 0.001
	maxChorusDelaySeconds     = 0.05
	maxChorusDetuneCents      = 50

	// MaxChorusStages bounds SetStages.
	MaxChorusStages = 8

	// Voice delays are updated every chorusControlPeriod samples and ramp
	// linearly in between.
	chorusControlPeriod = 32
	chorusGrainSamples  = 1024
)

// Chorus is a multi-voice modulated-delay chorus and doubler. Each voice is
// a pitch/time reader whose delay follows
//
//	d(t) = baseDelay + depth * 0.5 * (1 + sin(phase + voiceOffset))
//
// Voices can be detuned against each other, which turns the chorus into a
// doubler, and spread across the stereo field.
type Chorus struct {
	sampleRate       float64
	speedHz          float64
	depthSeconds     float64
	baseDelaySeconds float64
	mix              float64
	stages           int
	detuneCents      float64
	width            float64

	lfoPhase float64
	ctrlLeft int

	store *delay.Store
	stage *taps.Stage
	shape *crossfade.Shape

	wet, wetR, mono []float64
}

// NewChorus creates a chorus effect with tuned musical defaults.
func NewChorus() (*Chorus, error) {
	shape, err := crossfade.EqualPower(256)
	if err != nil {
		return nil, err
	}
	c := &Chorus{
		sampleRate:       defaultChorusSampleRate,
		speedHz:          defaultChorusSpeedHz,
		depthSeconds:     defaultChorusDepthSeconds,
		baseDelaySeconds: defaultChorusBaseSeconds,
		mix:              defaultChorusMix,
		stages:           defaultChorusStages,
		width:            defaultChorusWidth,
		shape:            shape,
		wet:              make([]float64, chorusControlPeriod),
		wetR:             make([]float64, chorusControlPeriod),
		mono:             make([]float64, chorusControlPeriod),
	}
	if err := c.rebuild(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Chorus) rebuild() error {
	// Room for the deepest modulation plus the drift of detuned grains.
	maxDelay := 2*maxChorusDelaySeconds + 0.02
	store, err := delay.NewStore(c.sampleRate, maxDelay, delay.WithMaxBlockSize(chorusControlPeriod))
	if err != nil {
		return err
	}
	stage, err := taps.NewStage(store, c.stages,
		taps.WithMaxBlockSize(chorusControlPeriod),
		taps.WithPitchCrossfade(chorusGrainSamples, c.shape),
	)
	if err != nil {
		return err
	}
	c.store = store
	c.stage = stage
	if err := c.applySpread(); err != nil {
		return err
	}
	c.Reset()
	return nil
}

// voicePosition maps voice i to [-1, 1].
func (c *Chorus) voicePosition(i int) float64 {
	if c.stages == 1 {
		return 1
	}
	return 2*float64(i)/float64(c.stages-1) - 1
}

func (c *Chorus) applySpread() error {
	for i := 0; i < c.stages; i++ {
		tap := c.stage.Tap(i)
		pos := c.voicePosition(i)
		pan := c.width * pos
		if c.stages == 1 {
			pan = 0
		}
		if err := tap.SetPan(pan); err != nil {
			return err
		}
		if err := tap.SetPitch(effects.SemitonesToRatio(c.detuneCents * pos / 100)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chorus) voiceDelay(i int, phase float64) float64 {
	offset := 2 * math.Pi * float64(i) / float64(c.stages)
	mod := 0.5 * (1 + math.Sin(phase+offset))
	return c.baseDelaySeconds + c.depthSeconds*mod
}

// updateVoices advances the LFO by one control period and starts the
// ramps towards the new delays.
func (c *Chorus) updateVoices() {
	c.lfoPhase += 2 * math.Pi * c.speedHz * chorusControlPeriod / c.sampleRate
	if c.lfoPhase >= 2*math.Pi {
		c.lfoPhase -= 2 * math.Pi
	}
	for i := 0; i < c.stages; i++ {
		c.stage.Tap(i).Modulate(c.voiceDelay(i, c.lfoPhase), chorusControlPeriod)
	}
}

// SetSampleRate updates sample rate.
func (c *Chorus) SetSampleRate(sampleRate float64) error {
	if !core.IsFinitePositive(sampleRate) {
		return fmt.Errorf("chorus sample rate must be > 0: %f", sampleRate)
	}
	c.sampleRate = sampleRate
	return c.rebuild()
}

// SetSpeedHz updates LFO modulation rate.
func (c *Chorus) SetSpeedHz(speedHz float64) error {
	if !core.IsFinitePositive(speedHz) {
		return fmt.Errorf("chorus speed must be > 0: %f", speedHz)
	}
	c.speedHz = speedHz
	return nil
}

// SetDepth updates modulation depth in seconds.
func (c *Chorus) SetDepth(depth float64) error {
	if !(depth >= 0 && depth <= maxChorusDelaySeconds) {
		return fmt.Errorf("chorus depth must be in [0, %f]: %f", maxChorusDelaySeconds, depth)
	}
	c.depthSeconds = depth
	return nil
}

// SetBaseDelay sets the base delay in seconds.
func (c *Chorus) SetBaseDelay(baseDelay float64) error {
	if !(baseDelay >= minChorusDelaySeconds && baseDelay <= maxChorusDelaySeconds) {
		return fmt.Errorf("chorus base delay must be in [%f, %f]: %f",
			minChorusDelaySeconds, maxChorusDelaySeconds, baseDelay)
	}
	c.baseDelaySeconds = baseDelay
	return nil
}

// SetStages updates the number of chorus voices. The history is cleared.
func (c *Chorus) SetStages(stages int) error {
	if stages <= 0 || stages > MaxChorusStages {
		return fmt.Errorf("chorus stages must be in [1, %d]: %d", MaxChorusStages, stages)
	}
	if stages == c.stages {
		return nil
	}
	c.stages = stages
	return c.rebuild()
}

// SetMix updates wet amount in range [0, 1].
func (c *Chorus) SetMix(mix float64) error {
	if !(mix >= 0 && mix <= 1) {
		return fmt.Errorf("chorus mix must be in [0,1]: %f", mix)
	}
	c.mix = mix
	return nil
}

// SetDetune spreads voice pitches over [-cents, +cents]. A single voice is
// raised by cents.
func (c *Chorus) SetDetune(cents float64) error {
	if !(cents >= 0 && cents <= maxChorusDetuneCents) {
		return fmt.Errorf("chorus detune must be in [0, %d] cents: %f", maxChorusDetuneCents, cents)
	}
	c.detuneCents = cents
	return c.applySpread()
}

// SetWidth sets the stereo spread of the voices in [0, 1].
func (c *Chorus) SetWidth(width float64) error {
	if !(width >= 0 && width <= 1) {
		return fmt.Errorf("chorus width must be in [0,1]: %f", width)
	}
	c.width = width
	return c.applySpread()
}

// Reset clears delay state and modulation phase.
func (c *Chorus) Reset() {
	c.store.Reset()
	c.lfoPhase = 0
	c.ctrlLeft = 0
	for i := 0; i < c.stages; i++ {
		c.stage.Tap(i).Modulate(c.voiceDelay(i, 0), 0)
	}
	// Stage.Reset jumps every tap to its requested delay.
	c.stage.Reset()
}

// ProcessSample processes one sample.
func (c *Chorus) ProcessSample(input float64) float64 {
	buf := [1]float64{input}
	c.ProcessInPlace(buf[:])
	return buf[0]
}

// ProcessInPlace applies chorus to buf in place.
func (c *Chorus) ProcessInPlace(buf []float64) {
	wetGain := c.mix / float64(c.stages)
	for off := 0; off < len(buf); {
		if c.ctrlLeft == 0 {
			c.updateVoices()
			c.ctrlLeft = chorusControlPeriod
		}
		n := min(len(buf)-off, c.ctrlLeft)
		x := buf[off : off+n]
		wet := c.wet[:n]

		c.store.Push(x)
		clear(wet)
		c.stage.ProcessMono(wet, -n)

		vecmath.ScaleBlockInPlace(x, 1-c.mix)
		vecmath.ScaleBlockInPlace(wet, wetGain)
		vecmath.AddBlockInPlace(x, wet)

		c.ctrlLeft -= n
		off += n
	}
}

// ProcessStereo processes a stereo pair in place. The voices read the mono
// sum and are panned by the width setting.
func (c *Chorus) ProcessStereo(left, right []float64) {
	if len(left) != len(right) {
		panic("chorus: left and right lengths differ")
	}
	wetGain := c.mix / float64(c.stages)
	for off := 0; off < len(left); {
		if c.ctrlLeft == 0 {
			c.updateVoices()
			c.ctrlLeft = chorusControlPeriod
		}
		n := min(len(left)-off, c.ctrlLeft)
		l, r := left[off:off+n], right[off:off+n]
		wl, wr := c.wet[:n], c.wetR[:n]
		mono := c.mono[:n]

		vecmath.AddMulBlock(mono, l, r, 0.5)
		c.store.Push(mono)
		clear(wl)
		clear(wr)
		c.stage.ProcessStereo(wl, wr, -n)

		vecmath.ScaleBlockInPlace(l, 1-c.mix)
		vecmath.ScaleBlockInPlace(wl, wetGain)
		vecmath.AddBlockInPlace(l, wl)
		vecmath.ScaleBlockInPlace(r, 1-c.mix)
		vecmath.ScaleBlockInPlace(wr, wetGain)
		vecmath.AddBlockInPlace(r, wr)

		c.ctrlLeft -= n
		off += n
	}
}

// SampleRate returns sample rate in Hz.
func (c *Chorus) SampleRate() float64 { return c.sampleRate }

// SpeedHz returns modulation speed in Hz.
func (c *Chorus) SpeedHz() float64 { return c.speedHz }

// Depth returns modulation depth in seconds.
func (c *Chorus) Depth() float64 { return c.depthSeconds }

// BaseDelay returns the base delay in seconds.
func (c *Chorus) BaseDelay() float64 { return c.baseDelaySeconds }

// Mix returns wet mix amount in [0, 1].
func (c *Chorus) Mix() float64 { return c.mix }

// Stages returns number of chorus voices.
func (c *Chorus) Stages() int { return c.stages }

// Detune returns the voice detune in cents.
func (c *Chorus) Detune() float64 { return c.detuneCents }

// Width returns the stereo width.
func (c *Chorus) Width() float64 { return c.width }

// Stage exposes the voices for inspection.
func (c *Chorus) Stage() *taps.Stage { return c.stage }
