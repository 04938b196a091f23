package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/crossfade"
	"github.com/cwbudde/algo-pitchdelay/dsp/delay"
	"github.com/cwbudde/algo-pitchdelay/dsp/effects"
	"github.com/cwbudde/algo-pitchdelay/dsp/pitchdelay"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultPitchShifterRatio = 1.0
	defaultPitchShifterGrain = 2048
	defaultPitchShifterMix   = 1.0

	minPitchShifterRatio = 0.25
	maxPitchShifterRatio = 4.0

	minPitchShifterGrain = 256
	maxPitchShifterGrain = 8192

	// Head room between the write head and the newest grain position.
	pitchShifterMarginSamples = 64
	pitchShifterChunk         = 256
)

// PitchShifter is a granular pitch shifter. A single pitch/time reader
// plays the input back at the pitch ratio and jumps back by one grain with
// a crossfade whenever the read position has drifted a grain length.
//
// Pitch ratio:
//   - 1.0 = unchanged
//   - 2.0 = one octave up
//   - 0.5 = one octave down
//
// The wet signal is delayed by Latency samples. This processor is mono.
type PitchShifter struct {
	sampleRate float64
	pitchRatio float64
	grain      int
	mix        float64

	store  *delay.Store
	reader *pitchdelay.Reader
	shape  *crossfade.Shape

	scratch []float64
	wet     []float64
}

// NewPitchShifter constructs a pitch shifter with a 2048-sample grain.
func NewPitchShifter(sampleRate float64) (*PitchShifter, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}
	shape, err := crossfade.Hann(512)
	if err != nil {
		return nil, err
	}
	p := &PitchShifter{
		sampleRate: sampleRate,
		pitchRatio: defaultPitchShifterRatio,
		grain:      defaultPitchShifterGrain,
		mix:        defaultPitchShifterMix,
		shape:      shape,
		scratch:    make([]float64, pitchShifterChunk),
		wet:        make([]float64, pitchShifterChunk),
	}
	if err := p.rebuild(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PitchShifter) rebuild() error {
	// Grains drift by up to two grain lengths times |ratio - 1|.
	maxDrift := 2 * (maxPitchShifterRatio - 1) * maxPitchShifterGrain
	maxDelay := (maxDrift + 2*pitchShifterMarginSamples) / p.sampleRate
	store, err := delay.NewStore(p.sampleRate, maxDelay, delay.WithMaxBlockSize(pitchShifterChunk))
	if err != nil {
		return err
	}
	r, err := pitchdelay.New(
		pitchdelay.WithCrossfade(pitchdelay.ModeNormal, p.grain/2, p.shape),
		pitchdelay.WithCrossfade(pitchdelay.ModePitchShift, p.grain, p.shape),
		pitchdelay.WithScratch(store, p.scratch),
	)
	if err != nil {
		return err
	}
	p.store = store
	p.reader = r
	p.reader.RequestPitch(p.pitchRatio)
	p.reader.JumpTo(p.baseDelay())
	return nil
}

// latencySamples keeps the grains behind the write head for the current
// ratio and grain.
func (p *PitchShifter) latencySamples() int {
	drift := 0
	if p.pitchRatio > 1 {
		drift = int(math.Ceil(2 * (p.pitchRatio - 1) * float64(p.grain)))
	}
	return drift + pitchShifterMarginSamples
}

func (p *PitchShifter) baseDelay() float64 {
	return float64(p.latencySamples()) / p.sampleRate
}

// SampleRate returns the current sample rate in Hz.
func (p *PitchShifter) SampleRate() float64 { return p.sampleRate }

// PitchRatio returns the pitch ratio.
func (p *PitchShifter) PitchRatio() float64 { return p.pitchRatio }

// PitchSemitones returns the current pitch shift in semitones.
func (p *PitchShifter) PitchSemitones() float64 { return effects.RatioToSemitones(p.pitchRatio) }

// GrainSize returns the grain length in samples.
func (p *PitchShifter) GrainSize() int { return p.grain }

// Mix returns the wet amount in [0, 1].
func (p *PitchShifter) Mix() float64 { return p.mix }

// Latency returns the delay of the wet signal in samples.
func (p *PitchShifter) Latency() int { return p.latencySamples() }

// Reader exposes the underlying reader for inspection.
func (p *PitchShifter) Reader() *pitchdelay.Reader { return p.reader }

// SetSampleRate updates the sample rate. The history is cleared.
func (p *PitchShifter) SetSampleRate(sampleRate float64) error {
	if !core.IsFinitePositive(sampleRate) {
		return fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}
	old := p.sampleRate
	p.sampleRate = sampleRate
	if err := p.rebuild(); err != nil {
		p.sampleRate = old
		if rerr := p.rebuild(); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

// SetPitchRatio updates the pitch shift ratio. The change takes effect at
// the next grain boundary.
func (p *PitchShifter) SetPitchRatio(ratio float64) error {
	if !core.IsFinitePositive(ratio) || ratio < minPitchShifterRatio || ratio > maxPitchShifterRatio {
		return fmt.Errorf("pitch shifter ratio must be in [%f, %f]: %f",
			minPitchShifterRatio, maxPitchShifterRatio, ratio)
	}
	p.pitchRatio = ratio
	p.reader.RequestPitch(ratio)
	p.reader.RequestDelay(p.baseDelay(), 0)
	return nil
}

// SetPitchSemitones updates pitch shift in semitones.
func (p *PitchShifter) SetPitchSemitones(semitones float64) error {
	if !core.IsFinite(semitones) {
		return fmt.Errorf("pitch shifter semitones must be finite: %f", semitones)
	}
	if err := p.SetPitchRatio(effects.SemitonesToRatio(semitones)); err != nil {
		return fmt.Errorf("pitch shifter semitones out of range: %w", err)
	}
	return nil
}

// SetGrainSize sets the grain length in samples. Longer grains smear
// transients less often but beat more on sustained tones.
func (p *PitchShifter) SetGrainSize(samples int) error {
	if samples < minPitchShifterGrain || samples > maxPitchShifterGrain {
		return fmt.Errorf("pitch shifter grain must be in [%d, %d] samples: %d",
			minPitchShifterGrain, maxPitchShifterGrain, samples)
	}
	p.grain = samples
	if err := p.reader.SetCrossfade(pitchdelay.ModeNormal, samples/2, p.shape); err != nil {
		return err
	}
	if err := p.reader.SetCrossfade(pitchdelay.ModePitchShift, samples, p.shape); err != nil {
		return err
	}
	p.reader.RequestDelay(p.baseDelay(), 0)
	return nil
}

// SetMix sets the wet amount in [0, 1].
func (p *PitchShifter) SetMix(mix float64) error {
	if !(mix >= 0 && mix <= 1) {
		return fmt.Errorf("pitch shifter mix must be in [0, 1]: %f", mix)
	}
	p.mix = mix
	return nil
}

// Reset clears the history and restarts the grains.
func (p *PitchShifter) Reset() {
	p.store.Reset()
	p.reader.JumpTo(p.baseDelay())
}

// Process pitch-shifts input and returns a new output block with equal length.
func (p *PitchShifter) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}
	out := make([]float64, len(input))
	copy(out, input)
	p.ProcessInPlace(out)
	return out
}

// ProcessInPlace pitch-shifts buf in place.
func (p *PitchShifter) ProcessInPlace(buf []float64) {
	for off := 0; off < len(buf); {
		n := min(len(buf)-off, pitchShifterChunk)
		x := buf[off : off+n]
		wet := p.wet[:n]

		p.store.Push(x)
		p.reader.Read(wet)

		if p.mix == 1 {
			copy(x, wet)
		} else {
			vecmath.ScaleBlockInPlace(x, 1-p.mix)
			vecmath.ScaleBlockInPlace(wet, p.mix)
			vecmath.AddBlockInPlace(x, wet)
		}
		off += n
	}
}
