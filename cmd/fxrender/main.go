// Command fxrender renders audio through one of the delay-line effects.
//
// Usage:
//
//	fxrender [flags] -fx name [-in in.wav] -out out.wav
//
// Without -in a sine test tone is rendered. Several effects run in series
// when -fx lists them separated by '|', each with its own parameters after
// a colon.
//
// Examples:
//
//	fxrender -fx delay -params time=0.35,feedback=0.5 -in dry.wav -out wet.wav
//	fxrender -fx pitch -params semitones=7 -tone 440 -spectrum
//	fxrender -fx chorus -params detune=12,width=1 -in voice.wav -play
//	fxrender -fx "pitch:semitones=-12|delay:time=0.25,feedback=0.4" -tone 220 -out oct.wav
//	fxrender -list
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-pitchdelay/dsp/effects/registry"
)

func main() {
	fx := flag.String("fx", "", "effect name, or a chain like pitch:semitones=7|delay:time=0.3 (see -list)")
	params := flag.String("params", "", "parameters of a single effect as key=value,key=value")
	inPath := flag.String("in", "", "input WAV file; a test tone is used when empty")
	outPath := flag.String("out", "", "output WAV file")
	bits := flag.Int("bits", 16, "output bit depth (16 or 24)")
	block := flag.Int("block", 256, "processing block size in samples")
	tail := flag.Float64("tail", 0, "seconds of silence appended to let repeats decay")
	tone := flag.Float64("tone", 440, "test tone frequency in Hz")
	toneDur := flag.Float64("dur", 2, "test tone duration in seconds")
	rate := flag.Int("rate", 48000, "test tone sample rate in Hz")
	stereo := flag.Bool("stereo", false, "render the test tone in stereo")
	showSpectrum := flag.Bool("spectrum", false, "print dominant frequencies before and after")
	tone := flag.Float64("tone", 0, "also print the level at this frequency in Hz")
	doPlay := flag.Bool("play", false, "play the result")
	list := flag.Bool("list", false, "list available effects")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fxrender [flags] -fx name [-in in.wav] [-out out.wav]\n\n")
		fmt.Fprintf(os.Stderr, "Renders audio through a pitch/time delay effect.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fxrender -fx delay -params time=0.35,feedback=0.5 -in dry.wav -out wet.wav\n")
		fmt.Fprintf(os.Stderr, "  fxrender -fx pitch -params semitones=7 -spectrum\n")
		fmt.Fprintf(os.Stderr, "  fxrender -fx \"pitch:semitones=-12|delay:time=0.25\" -out oct.wav\n")
		fmt.Fprintf(os.Stderr, "  fxrender -list\n")
	}
	flag.Parse()

	reg := registry.Default()
	if *list {
		for _, n := range reg.Names() {
			fmt.Println(n)
		}
		return
	}

	if *fx == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *outPath == "" && !*showSpectrum && !*doPlay {
		fmt.Fprintf(os.Stderr, "error: nothing to do, give -out, -spectrum or -play\n")
		os.Exit(2)
	}

	stages, err := parseStages(*fx, *params)
	if err != nil {
		fatal(err)
	}

	var in clip
	if *inPath != "" {
		if in, err = readWAV(*inPath); err != nil {
			fatal(err)
		}
	} else {
		channels := 1
		if *stereo {
			channels = 2
		}
		in = toneClip(*tone, *toneDur, *rate, channels)
	}

	out, err := render(reg, in, renderConfig{
		stages:    stages,
		blockSize: *block,
		tail:      *tail,
	})
	if err != nil {
		fatal(err)
	}

	if *outPath != "" {
		if err := writeWAV(*outPath, out, *bits); err != nil {
			fatal(err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s: %d frames, %d channel(s), %d Hz\n",
			*outPath, out.frames(), len(out.channels), out.sampleRate)
	}

	if *showSpectrum {
		if err := printSpectrum(os.Stdout, in, out, *tone); err != nil {
			fatal(err)
		}
	}

	if *doPlay {
		if err := play(out); err != nil {
			fatal(err)
		}
	}
}

// parseStages combines -fx and -params. -params is only accepted with a
// single stage that has no inline parameters.
func parseStages(fx, params string) ([]registry.Stage, error) {
	stages, err := registry.ParseChain(fx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(params) == "" {
		return stages, nil
	}
	if len(stages) > 1 || len(stages[0].Params.Num) > 0 {
		return nil, errors.New("-params needs a single effect without inline parameters")
	}
	p, err := registry.ParseParams(params)
	if err != nil {
		return nil, err
	}
	stages[0].Params = p
	return stages, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
