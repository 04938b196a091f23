package taps

import "github.com/cwbudde/algo-pitchdelay/dsp/crossfade"

const (
	defaultMaxBlockSize = 256
	// Delay changes glide over this many processing-rate samples.
	defaultGlide = 2048
)

type config struct {
	maxBlock   int
	glide      int
	xfadeLen   int
	xfadeShape *crossfade.Shape
	pitchLen   int
	pitchShape *crossfade.Shape
}

// Option configures a Stage.
type Option func(*config)

// WithMaxBlockSize sets the chunk size used for tap scratch buffers.
// Larger blocks are processed in several chunks.
func WithMaxBlockSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBlock = n
		}
	}
}

// WithGlide sets the transition length of delay changes in
// processing-rate samples. 0 makes every change a crossfade.
func WithGlide(samples int) Option {
	return func(c *config) {
		if samples >= 0 {
			c.glide = samples
		}
	}
}

// WithCrossfade sets the crossfade used for delay jumps.
func WithCrossfade(length int, shape *crossfade.Shape) Option {
	return func(c *config) {
		c.xfadeLen = length
		c.xfadeShape = shape
	}
}

// WithPitchCrossfade sets the grain crossfade used while a tap is pitch
// shifted.
func WithPitchCrossfade(length int, shape *crossfade.Shape) Option {
	return func(c *config) {
		c.pitchLen = length
		c.pitchShape = shape
	}
}
