package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-pitchdelay/dsp/crossfade"
)

type shapeProps struct {
	name string
	law  crossfade.Law

	midOut float64
	// Worst-case summed level of the two streams, in dB.
	ampDipDB   float64 // fully correlated material
	powerDipDB float64 // uncorrelated material
	// Largest gain change per sample at the given crossfade length.
	maxStep float64
}

type shapeRow struct {
	label string
	props shapeProps
}

func analyze(s *crossfade.Shape, length int) shapeProps {
	out := make([]float64, length)
	in := make([]float64, length)
	s.Gains(out, in, 0, length)

	minAmp, minPow := math.Inf(1), math.Inf(1)
	maxStep := 1 - out[0]
	for i := range out {
		minAmp = math.Min(minAmp, out[i]+in[i])
		minPow = math.Min(minPow, out[i]*out[i]+in[i]*in[i])
		if i > 0 {
			maxStep = math.Max(maxStep, math.Abs(out[i]-out[i-1]))
		}
	}
	maxStep = math.Max(maxStep, out[length-1])

	return shapeProps{
		name:       s.Name(),
		law:        s.Law(),
		midOut:     s.FadeOut(0.5),
		ampDipDB:   20 * math.Log10(math.Max(minAmp, 1e-15)),
		powerDipDB: 10 * math.Log10(math.Max(minPow, 1e-15)),
		maxStep:    maxStep,
	}
}

func printRows(w io.Writer, rows []shapeRow, length int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Shape\tTable\tLaw\tLength\tGain @0.5\tCorrelated dip [dB]\tUncorrelated dip [dB]\tMax step\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "-----\t-----\t---\t------\t---------\t-------------------\t---------------------\t--------\n"); err != nil {
		return err
	}
	for _, r := range rows {
		p := r.props
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.4f\t%.2f\t%.2f\t%.6f\n",
			r.label, p.name, p.law, length, p.midOut, p.ampDipDB, p.powerDipDB, p.maxStep); err != nil {
			return err
		}
	}
	return tw.Flush()
}
