package spectrum_test

import (
	"fmt"

	"github.com/cwbudde/algo-pitchdelay/dsp/spectrum"
	"github.com/cwbudde/algo-pitchdelay/internal/testutil"
)

func ExampleAnalyzer_PeakFrequency() {
	a, err := spectrum.NewAnalyzer(8192, 48000)
	if err != nil {
		panic(err)
	}

	peak, err := a.PeakFrequency(testutil.DeterministicSine(660, 48000, 0.5, 8192))
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.0f Hz\n", peak)
	// Output: 660 Hz
}
