// Package registry maps effect names to constructors so tools can build
// the delay-line effects from strings such as "delay" and
// "time=0.3,feedback=0.4".
package registry
