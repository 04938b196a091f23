// Package design computes RBJ-cookbook biquad coefficients for the tone
// controls of delay taps and effect voices.
//
// Designers return biquad.Identity when the frequency is not strictly
// between 0 and Nyquist, so a zero cutoff means "off".
package design
