package core

// MaxOversamplingLog2 bounds the oversampling exponent accepted by
// WithOversampling (2^4 = 16x).
const MaxOversamplingLog2 = 4

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int

	// OversamplingLog2 is the power-of-two exponent of the internal
	// processing rate relative to SampleRate.
	OversamplingLog2 int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns sensible defaults for offline and streaming use.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  64,
	}
}

// ProcessingRate returns the internal rate, SampleRate * 2^OversamplingLog2.
func (c ProcessorConfig) ProcessingRate() float64 {
	return c.SampleRate * float64(int(1)<<c.OversamplingLog2)
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithOversampling sets the oversampling exponent. Values outside
// [0, MaxOversamplingLog2] are ignored.
func WithOversampling(log2 int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if log2 >= 0 && log2 <= MaxOversamplingLog2 {
			cfg.OversamplingLog2 = log2
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
