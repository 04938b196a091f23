// Package pitchdelay implements a variable-rate, dual-grain delay-line
// reader. It is the pitch/time engine under the delay, pitch-shift and
// chorus effects.
//
// A Reader pulls audio from a Store at a delay time and a pitch ratio that
// may change at any block boundary. Each change is applied either as a
// linear ramp of the read position (plain resampling, used while the
// implied reading speed stays inside the configured resampling range) or as
// a crossfade from the current read head to a second one positioned at the
// new delay. While pitch shifting, the reader crossfades continuously: both
// heads move at the requested speed and are swapped every crossfade length.
//
// Typical use, once per processing block:
//
//	store.Push(in)
//	r.RequestDelay(seconds, len(in))
//	r.ReadAt(out, -len(in))
//
// Readers are not safe for concurrent use. Read never allocates or blocks.
package pitchdelay
