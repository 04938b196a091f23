// Package taps implements a bank of delay taps reading one shared delay
// store. Each tap has its own pitch/time reader, tone filters, gain and
// equal-power pan, and is mixed into mono or stereo outputs.
//
// The delay, pitch-shift and chorus effects are built on a Stage.
package taps
