// Package biquad provides second-order IIR sections and cascades.
//
// Coefficient design lives in dsp/filter/design. The delay taps use these
// sections for their tone controls.
package biquad
