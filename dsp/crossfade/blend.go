package crossfade

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Blender mixes an outgoing stream into an incoming one using a Shape.
// It owns its gain scratch buffers, so Blend never allocates.
type Blender struct {
	fadeOut []float64
	fadeIn  []float64
}

// NewBlender returns a blender whose scratch holds maxLen gains.
func NewBlender(maxLen int) (*Blender, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("crossfade: blender length must be > 0: %d", maxLen)
	}
	return &Blender{
		fadeOut: make([]float64, maxLen),
		fadeIn:  make([]float64, maxLen),
	}, nil
}

// MaxLen returns the scratch size.
func (b *Blender) MaxLen() int { return len(b.fadeOut) }

// Blend computes dst[i] = dst[i]*fadeIn + other[i]*fadeOut over the span
// starting at position pos of a crossfade lasting length samples. dst holds
// the incoming stream on entry. other is used as scratch and overwritten.
func (b *Blender) Blend(dst, other []float64, s *Shape, pos, length int) error {
	if len(dst) != len(other) {
		return fmt.Errorf("%w: %d vs %d", ErrMismatchedLength, len(dst), len(other))
	}
	if length <= 0 {
		return fmt.Errorf("crossfade: length must be > 0: %d", length)
	}
	b.Mix(dst, other, s, pos, length)
	return nil
}

// Mix is Blend without argument checks, for callers that size dst and
// other together. length must be positive.
func (b *Blender) Mix(dst, other []float64, s *Shape, pos, length int) {
	for off := 0; off < len(dst); off += len(b.fadeOut) {
		n := min(len(dst)-off, len(b.fadeOut))
		gOut := b.fadeOut[:n]
		gIn := b.fadeIn[:n]
		s.Gains(gOut, gIn, pos+off, length)

		d := dst[off : off+n]
		o := other[off : off+n]
		vecmath.MulBlockInPlace(d, gIn)
		vecmath.MulBlockInPlace(o, gOut)
		vecmath.AddBlockInPlace(d, o)
	}
}
