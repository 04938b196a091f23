package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// x/sys/cpu leaves the flags of foreign architectures false, so only the
// host's own extensions are reported.
func detectFeaturesImpl() Features {
	f := Features{Architecture: runtime.GOARCH}
	switch runtime.GOARCH {
	case "amd64":
		// SSE2 is part of the x86-64 baseline.
		f.HasSSE2 = true
		f.HasAVX = cpu.X86.HasAVX
		f.HasAVX2 = cpu.X86.HasAVX2
		f.HasAVX512 = cpu.X86.HasAVX512F
	case "arm64":
		f.HasNEON = cpu.ARM64.HasASIMD
	}
	return f
}
