// Package crossfade provides the gain curves used to blend two audio streams
// and a block blender built on vecmath kernels.
//
// A Shape is an immutable fade-out table over normalized position [0, 1).
// The incoming stream gets the complementary gain given by the shape's Law.
// A nil *Shape is the linear crossfade: fade-out 1-x, fade-in x.
package crossfade

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/window"
)

// Law selects how the fade-in gain is derived from the fade-out gain.
type Law int

const (
	// LawAmplitude keeps fadeIn + fadeOut = 1. Use it for correlated
	// material, such as two reads of the same delay line at close times.
	LawAmplitude Law = iota
	// LawPower keeps fadeIn^2 + fadeOut^2 = 1. Use it for uncorrelated
	// material, such as grains far apart in time.
	LawPower
)

// String returns the law name.
func (l Law) String() string {
	switch l {
	case LawAmplitude:
		return "amplitude"
	case LawPower:
		return "power"
	default:
		return fmt.Sprintf("Law(%d)", int(l))
	}
}

const minTableLen = 2

var (
	// ErrTableTooShort is returned for tables with fewer than two points.
	ErrTableTooShort = errors.New("crossfade: table needs at least two points")
	// ErrTableRange is returned when a table value is outside [0, 1] or not finite.
	ErrTableRange = errors.New("crossfade: table values must be in [0, 1]")
	// ErrMismatchedLength is returned when blend buffers differ in length.
	ErrMismatchedLength = errors.New("crossfade: buffers must have same length")
)

// Shape is a precomputed fade-out curve. The zero value is not usable;
// build shapes with NewTable, FromWindow or the presets.
type Shape struct {
	name  string
	table []float64
	law   Law
}

// NewTable builds a shape from fade-out gains sampled at positions
// k/len(fadeOut), k = 0..len-1. The curve is taken to reach 0 at position 1.
// The table is copied.
func NewTable(name string, fadeOut []float64, law Law) (*Shape, error) {
	if len(fadeOut) < minTableLen {
		return nil, fmt.Errorf("%w: %d", ErrTableTooShort, len(fadeOut))
	}
	for i, v := range fadeOut {
		if !(v >= 0 && v <= 1) {
			return nil, fmt.Errorf("%w: table[%d] = %f", ErrTableRange, i, v)
		}
	}
	if law != LawAmplitude && law != LawPower {
		return nil, fmt.Errorf("crossfade: unknown law %d", int(law))
	}
	return &Shape{
		name:  name,
		table: append([]float64(nil), fadeOut...),
		law:   law,
	}, nil
}

// FromWindow builds a shape from the falling half of a window function.
func FromWindow(t window.Type, size int, law Law, opts ...window.Option) (*Shape, error) {
	if t == window.TypeRectangular {
		return nil, fmt.Errorf("crossfade: %v window has no falling edge", t)
	}
	if size < minTableLen {
		return nil, fmt.Errorf("%w: %d", ErrTableTooShort, size)
	}
	opts = append(opts, window.WithSlope(window.SlopeRight), window.WithPeriodic())
	table := window.Generate(t, size, opts...)
	for i, v := range table {
		// Cosine-sum windows can dip a hair below zero.
		table[i] = math.Max(0, math.Min(1, v))
	}
	return NewTable(t.String(), table, law)
}

// Hann returns an S-curve shape with zero slope at both ends.
func Hann(size int) (*Shape, error) {
	return FromWindow(window.TypeHann, size, LawAmplitude)
}

// EqualPower returns the quarter-cosine shape with power-complementary gains.
func EqualPower(size int) (*Shape, error) {
	s, err := FromWindow(window.TypeCosine, size, LawPower)
	if err != nil {
		return nil, err
	}
	s.name = "EqualPower"
	return s, nil
}

// Name returns a descriptive name; "Linear" for a nil shape.
func (s *Shape) Name() string {
	if s == nil {
		return "Linear"
	}
	return s.name
}

// Law returns the shape's fade-in law. A nil shape is LawAmplitude.
func (s *Shape) Law() Law {
	if s == nil {
		return LawAmplitude
	}
	return s.law
}

// Len returns the table length, 0 for a nil shape.
func (s *Shape) Len() int {
	if s == nil {
		return 0
	}
	return len(s.table)
}

// FadeOut returns the gain of the outgoing stream at normalized position x.
// Positions outside [0, 1] are clamped.
func (s *Shape) FadeOut(x float64) float64 {
	if !(x > 0) {
		x = 0
	}
	if x >= 1 {
		return 0
	}
	if s == nil {
		return 1 - x
	}
	n := len(s.table)
	p := x * float64(n)
	i := int(p)
	frac := p - float64(i)
	next := 0.0
	if i+1 < n {
		next = s.table[i+1]
	}
	return s.table[i] + frac*(next-s.table[i])
}

// FadeIn returns the gain of the incoming stream at normalized position x.
func (s *Shape) FadeIn(x float64) float64 {
	g := s.FadeOut(x)
	if s.Law() == LawPower {
		return math.Sqrt(math.Max(0, 1-g*g))
	}
	return 1 - g
}

// Gains fills fadeOut and fadeIn for positions pos, pos+1, ... of a
// crossfade lasting length samples. fadeIn may be nil when only the
// outgoing gain is wanted.
func (s *Shape) Gains(fadeOut, fadeIn []float64, pos, length int) {
	inv := 1 / float64(length)
	for i := range fadeOut {
		fadeOut[i] = s.FadeOut(float64(pos+i) * inv)
	}
	if fadeIn == nil {
		return
	}
	if s.Law() == LawPower {
		for i, g := range fadeOut {
			fadeIn[i] = math.Sqrt(math.Max(0, 1-g*g))
		}
		return
	}
	for i, g := range fadeOut {
		fadeIn[i] = 1 - g
	}
}
