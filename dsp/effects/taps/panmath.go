//go:build !fastmath

package taps

import "math"

// panGains returns equal-power gains for pan in [-1, 1].
func panGains(pan float64) (left, right float64) {
	return math.Sqrt((1 - pan) / 2), math.Sqrt((1 + pan) / 2)
}
