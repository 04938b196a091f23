package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/interp"
)

// Line is a circular delay line addressed by integer or fractional delay.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
	kernel   interp.Kernel
	taps     [4]float64
}

// New returns a delay line of fixed size. The default interpolation mode is
// Hermite.
func New(size int, opts ...Option) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	cfg := applyOptions(opts)
	k, err := interp.NewKernel(cfg.mode)
	if err != nil {
		return nil, err
	}
	return &Line{
		buffer: make([]float64, size),
		mode:   cfg.mode,
		kernel: k,
	}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Mode returns the interpolation mode used by ReadFractional.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples. Read(1) returns the most recently
// written sample.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - delay) % size
	if readPos < 0 {
		readPos += size
	}
	return d.buffer[readPos]
}

// ReadFractional reads a fractional delay using the configured kernel.
// The delay is clamped to [1, Len()-After] so every tap addresses a written
// slot; a delay of 1 is the most recent sample.
func (d *Line) ReadFractional(delay float64) float64 {
	maxDelay := float64(len(d.buffer) - d.kernel.After)
	if !(delay >= 1) {
		delay = 1
	}
	if delay > maxDelay {
		delay = max(maxDelay, 1)
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	// Taps run from newer to older; position p-Before may not go past the
	// newest sample.
	first := p - d.kernel.Before
	for i := 0; i < d.kernel.Taps(); i++ {
		d.taps[i] = d.Read(max(1, first+i))
	}
	return d.kernel.Interpolate(t, d.taps[:d.kernel.Taps()])
}

// Reset clears line state.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}
