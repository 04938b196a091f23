//go:build fastmath

package taps

import "github.com/meko-christian/algo-approx"

// panGains returns equal-power gains for pan in [-1, 1] using fast
// square roots.
func panGains(pan float64) (left, right float64) {
	return approx.FastSqrt((1 - pan) / 2), approx.FastSqrt((1 + pan) / 2)
}
