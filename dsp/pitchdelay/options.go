package pitchdelay

import "github.com/cwbudde/algo-pitchdelay/dsp/crossfade"

// Mode selects one of the two crossfade configurations.
type Mode int

const (
	// ModeNormal is used for delay changes that cannot be ramped.
	ModeNormal Mode = iota
	// ModePitchShift is used while the pitch ratio differs from 1. Its
	// length is the grain size of the shifter.
	ModePitchShift
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModePitchShift:
		return "pitch-shift"
	default:
		return "unknown"
	}
}

const (
	// PitchEpsilon is the distance from 1 below which a pitch ratio is
	// treated as no shift.
	PitchEpsilon = 1e-3

	defaultRateInf = -4.0
	defaultRateSup = 4.0

	// Crossfade lengths in processing-rate samples.
	defaultNormalLength = 1024
	defaultPitchLength  = 2048
)

type xfadeSpec struct {
	length int
	shape  *crossfade.Shape
}

type config struct {
	rateInf, rateSup float64
	xfade            [2]xfadeSpec
	store            Store
	scratch          []float64
}

func defaultConfig() config {
	return config{
		rateInf: defaultRateInf,
		rateSup: defaultRateSup,
		xfade: [2]xfadeSpec{
			ModeNormal:     {length: defaultNormalLength},
			ModePitchShift: {length: defaultPitchLength},
		},
	}
}

// Option configures a Reader at construction.
type Option func(*config)

// WithResamplingRange sets the reading speeds that may be reached by a plain
// ramp. Changes implying a speed outside [rateInf, rateSup] crossfade.
func WithResamplingRange(rateInf, rateSup float64) Option {
	return func(c *config) {
		c.rateInf = rateInf
		c.rateSup = rateSup
	}
}

// WithCrossfade sets the crossfade length (processing-rate samples) and shape
// of a mode. A nil shape is linear.
func WithCrossfade(mode Mode, length int, shape *crossfade.Shape) Option {
	return func(c *config) {
		if mode == ModeNormal || mode == ModePitchShift {
			c.xfade[mode] = xfadeSpec{length: length, shape: shape}
		}
	}
}

// WithScratch binds the reader at construction, as Bind does.
func WithScratch(store Store, scratch []float64) Option {
	return func(c *config) {
		c.store = store
		c.scratch = scratch
	}
}
