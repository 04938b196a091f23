package design

import (
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/filter/biquad"
)

// DefaultQ is the Butterworth Q.
const DefaultQ = 1 / math.Sqrt2

type rbj struct {
	cw, alpha, a float64
}

func prepare(freq, gainDB, q, sampleRate float64) (rbj, bool) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return rbj{}, false
	}
	if !(freq > 0 && freq < sampleRate/2) {
		return rbj{}, false
	}
	if !(q > 0) || math.IsInf(q, 0) {
		q = DefaultQ
	}
	if math.IsNaN(gainDB) || math.IsInf(gainDB, 0) {
		gainDB = 0
	}
	w0 := 2 * math.Pi * freq / sampleRate
	return rbj{
		cw:    math.Cos(w0),
		alpha: math.Sin(w0) / (2 * q),
		a:     math.Pow(10, gainDB/40),
	}, true
}

// Lowpass designs a second-order lowpass at freq Hz.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, 0, q, sampleRate)
	if !ok {
		return biquad.Identity
	}
	b1 := 1 - p.cw
	return normalize(b1/2, b1, b1/2, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// Highpass designs a second-order highpass at freq Hz.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, 0, q, sampleRate)
	if !ok {
		return biquad.Identity
	}
	b1 := 1 + p.cw
	return normalize(b1/2, -b1, b1/2, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// Peak designs a peaking EQ with gainDB at freq Hz.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, gainDB, q, sampleRate)
	if !ok || gainDB == 0 {
		return biquad.Identity
	}
	return normalize(
		1+p.alpha*p.a, -2*p.cw, 1-p.alpha*p.a,
		1+p.alpha/p.a, -2*p.cw, 1-p.alpha/p.a,
	)
}

// LowShelf designs a low shelf with gainDB below freq Hz.
func LowShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, gainDB, q, sampleRate)
	if !ok || gainDB == 0 {
		return biquad.Identity
	}
	a, cw := p.a, p.cw
	beta := 2 * math.Sqrt(a) * p.alpha
	return normalize(
		a*((a+1)-(a-1)*cw+beta), 2*a*((a-1)-(a+1)*cw), a*((a+1)-(a-1)*cw-beta),
		(a+1)+(a-1)*cw+beta, -2*((a-1)+(a+1)*cw), (a+1)+(a-1)*cw-beta,
	)
}

// HighShelf designs a high shelf with gainDB above freq Hz.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	p, ok := prepare(freq, gainDB, q, sampleRate)
	if !ok || gainDB == 0 {
		return biquad.Identity
	}
	a, cw := p.a, p.cw
	beta := 2 * math.Sqrt(a) * p.alpha
	return normalize(
		a*((a+1)+(a-1)*cw+beta), -2*a*((a-1)+(a+1)*cw), a*((a+1)+(a-1)*cw-beta),
		(a+1)-(a-1)*cw+beta, 2*((a-1)-(a+1)*cw), (a+1)-(a-1)*cw-beta,
	)
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Identity
	}
	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
