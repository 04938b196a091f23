// Package modulation provides delay-based modulation effects.
//
// Included processors:
//   - Chorus: LFO-swept voices, each a crossfading reader on a shared
//     delay store, with optional per-voice detune and stereo spread.
//   - Flanger: Short modulated delay with feedback on an interpolating
//     delay line.
package modulation
