package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-pitchdelay/dsp/effects"
)

func ExampleDelay_ProcessInPlace() {
	delay, err := effects.NewDelay(48000)
	if err != nil {
		fmt.Println("error")
		return
	}
	_ = delay.SetTime(0.002)
	_ = delay.SetFeedback(0)
	_ = delay.SetMix(1)
	delay.Reset()

	buf := make([]float64, 256)
	buf[0] = 1
	delay.ProcessInPlace(buf)

	peak := 0
	for i, v := range buf {
		if v > buf[peak] {
			peak = i
		}
	}
	fmt.Printf("echo at sample %d\n", peak)
	// Output:
	// echo at sample 96
}
