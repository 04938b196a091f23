// Package spectrum measures rendered audio: an FFT analyzer that reports
// the power spectrum and the dominant frequency of a block, and a Goertzel
// detector for the level of a single tone.
package spectrum
