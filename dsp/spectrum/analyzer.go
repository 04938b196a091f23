package spectrum

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// ErrShortInput is returned when a block is shorter than the analyzer size.
var ErrShortInput = errors.New("spectrum: input shorter than analyzer size")

type forwardPlan interface {
	Forward(dst, src []complex128) error
}

// Analyzer computes Hann-windowed power spectra of fixed-size blocks.
// It is not safe for concurrent use.
type Analyzer struct {
	size       int
	sampleRate float64
	plan       forwardPlan
	win        []float64
	frame      []float64
	in, out    []complex128
	power      []float64
}

// NewAnalyzer creates an analyzer for blocks of size samples, which must be
// a power of two of at least 16.
func NewAnalyzer(size int, sampleRate float64) (*Analyzer, error) {
	if size < 16 || bits.OnesCount(uint(size)) != 1 {
		return nil, fmt.Errorf("spectrum: analyzer size must be a power of two >= 16: %d", size)
	}
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %f", sampleRate)
	}
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}
	win, err := window.Hann(size, window.WithPeriodic())
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		size:       size,
		sampleRate: sampleRate,
		plan:       plan,
		win:        win,
		frame:      make([]float64, size),
		in:         make([]complex128, size),
		out:        make([]complex128, size),
		power:      make([]float64, size/2+1),
	}, nil
}

// Size returns the block size.
func (a *Analyzer) Size() int { return a.size }

// SampleRate returns the sample rate in Hz.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// BinFrequency returns the center frequency of bin k in Hz.
func (a *Analyzer) BinFrequency(k float64) float64 {
	return k * a.sampleRate / float64(a.size)
}

// PowerSpectrum returns the power of bins 0..Size/2 of the first Size
// samples of x. The returned slice is reused by the next call.
func (a *Analyzer) PowerSpectrum(x []float64) ([]float64, error) {
	if len(x) < a.size {
		return nil, fmt.Errorf("%w: %d < %d", ErrShortInput, len(x), a.size)
	}
	vecmath.MulBlock(a.frame, x[:a.size], a.win)
	for i, v := range a.frame {
		a.in[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("spectrum: forward fft: %w", err)
	}
	PowerInto(a.power, a.out[:len(a.power)])
	return a.power, nil
}

// PeakFrequency returns the frequency of the strongest bin above DC,
// refined by parabolic interpolation of the log power.
func (a *Analyzer) PeakFrequency(x []float64) (float64, error) {
	p, err := a.PowerSpectrum(x)
	if err != nil {
		return 0, err
	}
	peak := 1
	for k := 2; k < len(p)-1; k++ {
		if p[k] > p[peak] {
			peak = k
		}
	}
	if p[peak] <= 0 {
		return 0, nil
	}
	return a.BinFrequency(float64(peak) + parabolicOffset(p[peak-1], p[peak], p[peak+1])), nil
}

func parabolicOffset(left, center, right float64) float64 {
	const floor = 1e-300
	l := math.Log(math.Max(left, floor))
	c := math.Log(math.Max(center, floor))
	r := math.Log(math.Max(right, floor))
	den := l - 2*c + r
	if den == 0 {
		return 0
	}
	return 0.5 * (l - r) / den
}
