//go:build fastmath

package effects

import "github.com/meko-christian/algo-approx"

const ln2 = 0.693147180559945309417232121458

// SemitonesToRatio converts a pitch interval to a speed ratio.
// 2^(s/12) = e^(s*ln2/12)
func SemitonesToRatio(semitones float64) float64 {
	return approx.FastExp(semitones * ln2 / 12)
}

// RatioToSemitones converts a speed ratio to a pitch interval.
func RatioToSemitones(ratio float64) float64 {
	return 12 * approx.FastLog(ratio) / ln2
}
