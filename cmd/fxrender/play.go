//go:build !headless

package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// play blocks until c has been played on the default output device.
func play(c clip) error {
	nch := len(c.channels)
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   c.sampleRate,
		ChannelCount: nch,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return err
	}
	<-ready

	pcm := make([]byte, 4*nch*c.frames())
	for i := 0; i < c.frames(); i++ {
		for ch := 0; ch < nch; ch++ {
			v := float32(math.Max(-1, math.Min(1, c.channels[ch][i])))
			binary.LittleEndian.PutUint32(pcm[4*(i*nch+ch):], math.Float32bits(v))
		}
	}

	p := ctx.NewPlayer(bytes.NewReader(pcm))
	p.Play()
	for p.IsPlaying() {
		time.Sleep(20 * time.Millisecond)
	}
	return p.Close()
}
