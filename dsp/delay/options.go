package delay

import "github.com/cwbudde/algo-pitchdelay/dsp/interp"

const defaultMaxBlockSize = 256

// Option configures a Line or a Store.
type Option func(*config)

type config struct {
	mode         interp.Mode
	ovrLog2      int
	maxBlockSize int
	readAhead    int
}

func applyOptions(opts []Option) config {
	cfg := config{
		mode:         interp.Hermite,
		maxBlockSize: defaultMaxBlockSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithMode selects the fractional interpolation kernel.
func WithMode(mode interp.Mode) Option {
	return func(cfg *config) { cfg.mode = mode }
}

// WithOversampling sets the store's oversampling exponent: pushed samples
// are taken to run at sampleRate * 2^log2. Negative values are ignored.
func WithOversampling(log2 int) Option {
	return func(cfg *config) {
		if log2 >= 0 {
			cfg.ovrLog2 = log2
		}
	}
}

// WithMaxBlockSize sets the largest block passed to Push or ReadRamped.
func WithMaxBlockSize(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxBlockSize = n
		}
	}
}

// WithReadAhead declares that callers read up to n samples past the write
// head before pushing them (read-then-push, as feedback loops do). The
// store's minimum delay grows accordingly.
func WithReadAhead(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.readAhead = n
		}
	}
}
