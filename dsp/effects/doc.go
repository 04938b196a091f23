// Package effects provides delay-line effects built on the crossfading
// pitch/time reader in dsp/pitchdelay.
//
// Subpackages:
//   - github.com/cwbudde/algo-pitchdelay/dsp/effects/taps
//   - github.com/cwbudde/algo-pitchdelay/dsp/effects/modulation
//   - github.com/cwbudde/algo-pitchdelay/dsp/effects/pitch
//   - github.com/cwbudde/algo-pitchdelay/dsp/effects/registry
//
// Effects in this package:
//   - Delay: Multi-tap feedback delay with glide, pitched repeats and
//     ping-pong spread.
//
// Build with -tags fastmath to switch the semitone conversions to the
// approximations of algo-approx.
package effects
