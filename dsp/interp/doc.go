// Package interp provides the fractional-sample interpolation kernels used by
// the delay store.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:   2-point linear interpolation
//   - [Hermite4]:  4-point cubic Hermite (good default)
//   - [Lagrange4]: 4-point cubic Lagrange
//
// The [Mode] enum selects a method at construction time, and [Kernel]
// reports how many samples around the read position a method touches.
package interp
