//go:build !fastmath

package effects

import "math"

// SemitonesToRatio converts a pitch interval to a speed ratio.
func SemitonesToRatio(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}

// RatioToSemitones converts a speed ratio to a pitch interval.
func RatioToSemitones(ratio float64) float64 {
	return 12 * math.Log2(ratio)
}
