package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/delay"
	"github.com/cwbudde/algo-pitchdelay/dsp/interp"
)

const (
	defaultFlangerRateHz           = 0.25
	defaultFlangerDepthSeconds     = 0.0015
	defaultFlangerBaseDelaySeconds = 0.001
	defaultFlangerFeedback         = 0.25
	defaultFlangerMix              = 0.5

	minFlangerDelaySeconds = 0.0001 // 0.1 ms
	maxFlangerDelaySeconds = 0.0100 // 10 ms
	maxFlangerFeedback     = 0.99
)

// FlangerOption mutates flanger construction parameters.
type FlangerOption func(*Flanger)

// WithFlangerRateHz sets modulation speed in Hz.
func WithFlangerRateHz(rateHz float64) FlangerOption {
	return func(f *Flanger) { f.rateHz = rateHz }
}

// WithFlangerDepthSeconds sets modulation depth in seconds.
func WithFlangerDepthSeconds(depth float64) FlangerOption {
	return func(f *Flanger) { f.depth = depth }
}

// WithFlangerBaseDelaySeconds sets base delay in seconds.
func WithFlangerBaseDelaySeconds(baseDelay float64) FlangerOption {
	return func(f *Flanger) { f.baseDelay = baseDelay }
}

// WithFlangerFeedback sets feedback amount in [-0.99, 0.99].
func WithFlangerFeedback(feedback float64) FlangerOption {
	return func(f *Flanger) { f.feedback = feedback }
}

// WithFlangerMix sets wet amount in [0, 1].
func WithFlangerMix(mix float64) FlangerOption {
	return func(f *Flanger) { f.mix = mix }
}

// WithFlangerInterpolation selects the fractional delay kernel.
func WithFlangerInterpolation(mode interp.Mode) FlangerOption {
	return func(f *Flanger) { f.mode = mode }
}

// Flanger is a short modulated delay with feedback, read sample by sample
// from an interpolating delay line.
type Flanger struct {
	sampleRate float64
	rateHz     float64
	depth      float64
	baseDelay  float64
	feedback   float64
	mix        float64
	mode       interp.Mode

	lfoPhase float64
	line     *delay.Line
}

// NewFlanger creates a flanger with practical defaults and optional overrides.
func NewFlanger(sampleRate float64, opts ...FlangerOption) (*Flanger, error) {
	f := &Flanger{
		sampleRate: sampleRate,
		rateHz:     defaultFlangerRateHz,
		depth:      defaultFlangerDepthSeconds,
		baseDelay:  defaultFlangerBaseDelaySeconds,
		feedback:   defaultFlangerFeedback,
		mix:        defaultFlangerMix,
		mode:       interp.Hermite,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	if err := f.allocate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Flanger) allocate() error {
	size := int(math.Ceil(maxFlangerDelaySeconds*f.sampleRate)) + 4
	line, err := delay.New(size, delay.WithMode(f.mode))
	if err != nil {
		return err
	}
	f.line = line
	f.lfoPhase = 0
	return nil
}

func (f *Flanger) validate() error {
	if !core.IsFinitePositive(f.sampleRate) {
		return fmt.Errorf("flanger sample rate must be > 0 and finite: %f", f.sampleRate)
	}
	if !core.IsFinitePositive(f.rateHz) {
		return fmt.Errorf("flanger rate must be > 0 and finite: %f", f.rateHz)
	}
	if !(f.depth >= 0) || !core.IsFinite(f.depth) {
		return fmt.Errorf("flanger depth must be >= 0 and finite: %f", f.depth)
	}
	if !(f.baseDelay >= minFlangerDelaySeconds && f.baseDelay <= maxFlangerDelaySeconds) {
		return fmt.Errorf("flanger base delay must be in [%f, %f]: %f",
			minFlangerDelaySeconds, maxFlangerDelaySeconds, f.baseDelay)
	}
	if f.baseDelay+f.depth > maxFlangerDelaySeconds {
		return fmt.Errorf("flanger max delay exceeds %f seconds: base=%f depth=%f",
			maxFlangerDelaySeconds, f.baseDelay, f.depth)
	}
	if !(math.Abs(f.feedback) <= maxFlangerFeedback) {
		return fmt.Errorf("flanger feedback must be in [-0.99, 0.99]: %f", f.feedback)
	}
	if !(f.mix >= 0 && f.mix <= 1) {
		return fmt.Errorf("flanger mix must be in [0, 1]: %f", f.mix)
	}
	return nil
}

// update applies fn and keeps the previous settings if the result is invalid.
func (f *Flanger) update(fn func()) error {
	prev := *f
	fn()
	if err := f.validate(); err != nil {
		*f = prev
		return err
	}
	return nil
}

// SetSampleRate updates sample rate and clears the delay line.
func (f *Flanger) SetSampleRate(sampleRate float64) error {
	if err := f.update(func() { f.sampleRate = sampleRate }); err != nil {
		return err
	}
	return f.allocate()
}

// SetRateHz sets modulation speed in Hz.
func (f *Flanger) SetRateHz(rateHz float64) error {
	return f.update(func() { f.rateHz = rateHz })
}

// SetDepthSeconds sets modulation depth in seconds.
func (f *Flanger) SetDepthSeconds(depth float64) error {
	return f.update(func() { f.depth = depth })
}

// SetBaseDelaySeconds sets base delay in seconds.
func (f *Flanger) SetBaseDelaySeconds(baseDelay float64) error {
	return f.update(func() { f.baseDelay = baseDelay })
}

// SetFeedback sets feedback amount in [-0.99, 0.99].
func (f *Flanger) SetFeedback(feedback float64) error {
	return f.update(func() { f.feedback = feedback })
}

// SetMix sets wet amount in [0, 1].
func (f *Flanger) SetMix(mix float64) error {
	return f.update(func() { f.mix = mix })
}

// Reset clears delay and LFO state.
func (f *Flanger) Reset() {
	f.line.Reset()
	f.lfoPhase = 0
}

// ProcessSample processes one sample.
func (f *Flanger) ProcessSample(sample float64) float64 {
	mod := 0.5 * (1 + math.Sin(f.lfoPhase))
	delayed := f.line.ReadFractional((f.baseDelay + f.depth*mod) * f.sampleRate)
	f.line.Write(sample + delayed*f.feedback)

	f.lfoPhase += 2 * math.Pi * f.rateHz / f.sampleRate
	if f.lfoPhase >= 2*math.Pi {
		f.lfoPhase -= 2 * math.Pi
	}
	return sample*(1-f.mix) + delayed*f.mix
}

// ProcessInPlace applies flanging to buf in place.
func (f *Flanger) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// SampleRate returns sample rate in Hz.
func (f *Flanger) SampleRate() float64 { return f.sampleRate }

// RateHz returns LFO speed in Hz.
func (f *Flanger) RateHz() float64 { return f.rateHz }

// DepthSeconds returns modulation depth in seconds.
func (f *Flanger) DepthSeconds() float64 { return f.depth }

// BaseDelaySeconds returns base delay in seconds.
func (f *Flanger) BaseDelaySeconds() float64 { return f.baseDelay }

// Feedback returns feedback amount in [-0.99, 0.99].
func (f *Flanger) Feedback() float64 { return f.feedback }

// Mix returns wet amount in [0, 1].
func (f *Flanger) Mix() float64 { return f.mix }
