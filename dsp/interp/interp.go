package interp

import "fmt"

// Mode selects an interpolation method.
type Mode int

const (
	// Linear is 2-point linear interpolation.
	Linear Mode = iota
	// Hermite is 4-point cubic Hermite interpolation.
	Hermite
	// Lagrange3 is 4-point third-order Lagrange interpolation.
	Lagrange3
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "Linear"
	case Hermite:
		return "Hermite"
	case Lagrange3:
		return "Lagrange3"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Kernel describes a stateless interpolator. For a read position p = i0+frac
// it needs the samples i0-Before .. i0+After.
type Kernel struct {
	Mode   Mode
	Before int
	After  int
}

// NewKernel returns the kernel for mode.
func NewKernel(mode Mode) (Kernel, error) {
	switch mode {
	case Linear:
		return Kernel{Mode: Linear, Before: 0, After: 1}, nil
	case Hermite, Lagrange3:
		return Kernel{Mode: mode, Before: 1, After: 2}, nil
	default:
		return Kernel{}, fmt.Errorf("interp: unknown mode %d", int(mode))
	}
}

// Taps returns the number of input samples the kernel reads.
func (k Kernel) Taps() int {
	return k.Before + k.After + 1
}

// Interpolate evaluates the kernel at frac in [0,1). samples holds Taps()
// values starting at i0-Before.
func (k Kernel) Interpolate(frac float64, samples []float64) float64 {
	switch k.Mode {
	case Linear:
		return Linear2(frac, samples[0], samples[1])
	case Lagrange3:
		return Lagrange4(frac, samples[0], samples[1], samples[2], samples[3])
	default:
		return Hermite4(frac, samples[0], samples[1], samples[2], samples[3])
	}
}

// Linear2 interpolates between x0 and x1.
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// Lagrange4 computes third-order Lagrange interpolation through the points
// at -1, 0, 1, 2, evaluated at t in [0,1].
func Lagrange4(t, xm1, x0, x1, x2 float64) float64 {
	tm1 := t + 1
	t1 := t - 1
	t2 := t - 2
	return -xm1*t*t1*t2/6 +
		x0*tm1*t1*t2/2 -
		x1*tm1*t*t2/2 +
		x2*tm1*t*t1/6
}
