package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// clip holds planar float samples in [-1, 1].
type clip struct {
	sampleRate int
	channels   [][]float64
}

func (c clip) frames() int {
	if len(c.channels) == 0 {
		return 0
	}
	return len(c.channels[0])
}

func readWAV(path string) (clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return clip{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return clip{}, fmt.Errorf("%s: not a valid WAV file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return clip{}, fmt.Errorf("%s: %w", path, err)
	}
	nch := buf.Format.NumChannels
	if nch < 1 {
		return clip{}, fmt.Errorf("%s: no channels", path)
	}
	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = buf.SourceBitDepth
	}
	if depth < 8 || depth > 32 {
		return clip{}, fmt.Errorf("%s: unsupported bit depth %d", path, depth)
	}

	scale := 1 / math.Exp2(float64(depth-1))
	frames := len(buf.Data) / nch
	c := clip{sampleRate: buf.Format.SampleRate, channels: make([][]float64, nch)}
	for ch := range c.channels {
		c.channels[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < nch; ch++ {
			v := buf.Data[i*nch+ch]
			if depth == 8 {
				// 8-bit WAV is unsigned.
				v -= 128
			}
			c.channels[ch][i] = float64(v) * scale
		}
	}
	return c, nil
}

func writeWAV(path string, c clip, bitDepth int) (err error) {
	if bitDepth != 16 && bitDepth != 24 {
		return errors.New("bit depth must be 16 or 24")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	nch := len(c.channels)
	enc := wav.NewEncoder(f, c.sampleRate, bitDepth, nch, 1)
	full := math.Exp2(float64(bitDepth-1)) - 1
	data := make([]int, c.frames()*nch)
	for i := 0; i < c.frames(); i++ {
		for ch := 0; ch < nch; ch++ {
			v := math.Max(-1, math.Min(1, c.channels[ch][i]))
			data[i*nch+ch] = int(math.Round(v * full))
		}
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: nch, SampleRate: c.sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// toneClip synthesizes a sine test signal.
func toneClip(freq float64, seconds float64, sampleRate, channels int) clip {
	n := int(seconds * float64(sampleRate))
	c := clip{sampleRate: sampleRate, channels: make([][]float64, channels)}
	for ch := range c.channels {
		x := make([]float64, n)
		for i := range x {
			x[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		}
		c.channels[ch] = x
	}
	return c
}
