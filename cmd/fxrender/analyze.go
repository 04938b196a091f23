package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-pitchdelay/dsp/spectrum"
)

const analyzerSize = 8192

// printSpectrum reports the dominant frequency of the middle of every
// channel before and after processing, and optionally the level of a
// reference tone.
func printSpectrum(w io.Writer, in, out clip, toneHz float64) error {
	a, err := spectrum.NewAnalyzer(analyzerSize, float64(in.sampleRate))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "Channel\tIn peak [Hz]\tOut peak [Hz]\tShift [st]"
	rule := "-------\t------------\t-------------\t----------"
	if toneHz > 0 {
		header += fmt.Sprintf("\tIn @%.0f Hz [dB]\tOut @%.0f Hz [dB]", toneHz, toneHz)
		rule += "\t---------------\t----------------"
	}
	fmt.Fprintln(tw, header)
	fmt.Fprintln(tw, rule)

	for ch := range in.channels {
		x := middle(in.channels[ch], analyzerSize)
		y := middle(out.channels[ch][:len(in.channels[ch])], analyzerSize)
		if len(x) < analyzerSize {
			return fmt.Errorf("input shorter than %d samples", analyzerSize)
		}
		fin, err := a.PeakFrequency(x)
		if err != nil {
			return err
		}
		fout, err := a.PeakFrequency(y)
		if err != nil {
			return err
		}
		shift := 0.0
		if fin > 0 && fout > 0 {
			shift = 12 * math.Log2(fout/fin)
		}
		row := fmt.Sprintf("%d\t%.1f\t%.1f\t%+.2f", ch, fin, fout, shift)
		if toneHz > 0 {
			lin, err := spectrum.ToneLevelDB(x, toneHz, float64(in.sampleRate))
			if err != nil {
				return err
			}
			lout, err := spectrum.ToneLevelDB(y, toneHz, float64(in.sampleRate))
			if err != nil {
				return err
			}
			row += fmt.Sprintf("\t%.1f\t%.1f", lin, lout)
		}
		fmt.Fprintln(tw, row)
	}
	return tw.Flush()
}

func middle(x []float64, n int) []float64 {
	if len(x) <= n {
		return x
	}
	off := (len(x) - n) / 2
	return x[off : off+n]
}
