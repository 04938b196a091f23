// Package cpu reports the SIMD extensions of the host, which decide the
// kernels the vector math library dispatches to for blending and mixing.
package cpu

import (
	"strings"
	"sync"
)

// SIMDLevel is a SIMD instruction set extension.
type SIMDLevel int

const (
	SIMDNone SIMDLevel = iota
	SIMDSSE2
	SIMDAVX
	SIMDAVX2
	SIMDAVX512
	SIMDNEON
)

// String returns a human-readable name for the SIMD level.
func (s SIMDLevel) String() string {
	switch s {
	case SIMDNone:
		return "None"
	case SIMDSSE2:
		return "SSE2"
	case SIMDAVX:
		return "AVX"
	case SIMDAVX2:
		return "AVX2"
	case SIMDAVX512:
		return "AVX-512"
	case SIMDNEON:
		return "NEON"
	default:
		return "Unknown"
	}
}

// Features describes the detected CPU capabilities.
type Features struct {
	HasSSE2   bool
	HasAVX    bool
	HasAVX2   bool
	HasAVX512 bool
	HasNEON   bool

	Architecture string // runtime.GOARCH
}

var detect = sync.OnceValue(detectFeaturesImpl)

// DetectFeatures returns the features of the current system. Detection
// runs once.
func DetectFeatures() Features {
	return detect()
}

// Levels returns the supported SIMD levels in ascending order. SIMDNone is
// always included.
func (f Features) Levels() []SIMDLevel {
	levels := []SIMDLevel{SIMDNone}
	for _, c := range []struct {
		ok    bool
		level SIMDLevel
	}{
		{f.HasSSE2, SIMDSSE2},
		{f.HasAVX, SIMDAVX},
		{f.HasAVX2, SIMDAVX2},
		{f.HasAVX512, SIMDAVX512},
		{f.HasNEON, SIMDNEON},
	} {
		if c.ok {
			levels = append(levels, c.level)
		}
	}
	return levels
}

// Best returns the highest supported level.
func (f Features) Best() SIMDLevel {
	l := f.Levels()
	return l[len(l)-1]
}

// String lists the architecture and supported extensions.
func (f Features) String() string {
	var names []string
	for _, l := range f.Levels()[1:] {
		names = append(names, l.String())
	}
	if len(names) == 0 {
		names = []string{"no SIMD"}
	}
	return f.Architecture + ": " + strings.Join(names, " ")
}
