package main

import (
	"fmt"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/effects/registry"
)

type renderConfig struct {
	stages    []registry.Stage
	blockSize int
	tail      float64 // seconds of silence appended for decaying repeats
}

// render runs in through the effect chain and returns a new clip. Stereo
// input uses the chain's stereo path when every stage has one; otherwise
// every channel gets its own chain.
func render(reg *registry.Registry, in clip, cfg renderConfig) (clip, error) {
	opts := []core.ProcessorOption{
		core.WithSampleRate(float64(in.sampleRate)),
		core.WithBlockSize(cfg.blockSize),
	}
	block := core.ApplyProcessorOptions(opts...).BlockSize

	tail := int(cfg.tail * float64(in.sampleRate))
	out := clip{sampleRate: in.sampleRate, channels: make([][]float64, len(in.channels))}
	for ch, x := range in.channels {
		y := make([]float64, len(x)+tail)
		copy(y, x)
		out.channels[ch] = y
	}

	first, err := reg.BuildChain(cfg.stages, opts...)
	if err != nil {
		return clip{}, err
	}
	if first.IsStereo() && len(out.channels) == 2 {
		l, r := out.channels[0], out.channels[1]
		for off := 0; off < len(l); off += block {
			end := min(off+block, len(l))
			first.ProcessStereo(l[off:end], r[off:end])
		}
		return out, nil
	}

	for ch, y := range out.channels {
		chain := first
		if ch > 0 {
			if chain, err = reg.BuildChain(cfg.stages, opts...); err != nil {
				return clip{}, fmt.Errorf("channel %d: %w", ch, err)
			}
		}
		for off := 0; off < len(y); off += block {
			chain.ProcessInPlace(y[off:min(off+block, len(y))])
		}
	}
	return out, nil
}
