// Command xfadeinfo prints properties of the crossfade shapes used when a
// delay reader switches grains.
//
// Usage:
//
//	xfadeinfo [flags] [shape-name ...]
//
// Without arguments it prints info for all known shapes.
//
// Examples:
//
//	xfadeinfo hann equal-power
//	xfadeinfo -len 2048 -law power blackman
//	xfadeinfo -alpha 0.3 tukey
//	xfadeinfo -list
//	xfadeinfo -cpu
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/cwbudde/algo-pitchdelay/dsp/crossfade"
	"github.com/cwbudde/algo-pitchdelay/dsp/window"
	"github.com/cwbudde/algo-pitchdelay/internal/cpu"
)

type shapeEntry struct {
	name     string
	typ      window.Type
	hasAlpha bool
	defAlpha float64
}

// An entry with typ TypeRectangular is the linear fade.
var shapes = []shapeEntry{
	{"linear", window.TypeRectangular, false, 0},
	{"hann", window.TypeHann, false, 0},
	{"equal-power", window.TypeCosine, false, 0},
	{"blackman", window.TypeBlackman, false, 0},
	{"kaiser", window.TypeKaiser, true, 8.6},
	{"tukey", window.TypeTukey, true, 0.5},
	{"triangle", window.TypeTriangle, false, 0},
	{"welch", window.TypeWelch, false, 0},
}

func main() {
	table := flag.Int("table", 1024, "shape table size")
	length := flag.Int("len", 1024, "crossfade length in samples")
	alpha := flag.Float64("alpha", math.NaN(), "alpha/beta parameter for parametric windows (kaiser, tukey)")
	law := flag.String("law", "", "force the fade-in law: amplitude or power")
	list := flag.Bool("list", false, "list available shape names")
	showCPU := flag.Bool("cpu", false, "print the SIMD features used by the blend kernels")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: xfadeinfo [flags] [shape-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints gain properties of crossfade shapes.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints info for all shapes.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  xfadeinfo hann equal-power\n")
		fmt.Fprintf(os.Stderr, "  xfadeinfo -len 2048 -law power blackman\n")
		fmt.Fprintf(os.Stderr, "  xfadeinfo -list\n")
	}
	flag.Parse()

	if *showCPU {
		f := cpu.DetectFeatures()
		fmt.Printf("%s (best %s)\n", f, f.Best())
		return
	}

	if *list {
		printList()
		return
	}

	forced, err := parseLaw(*law)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	names := flag.Args()
	if len(names) == 0 {
		for _, e := range shapes {
			names = append(names, e.name)
		}
	}

	var rows []shapeRow
	for _, name := range names {
		s, err := buildShape(name, *table, *alpha, forced)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			continue
		}
		rows = append(rows, shapeRow{label: name, props: analyze(s, *length)})
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching shapes\n")
		os.Exit(1)
	}

	if err := printRows(os.Stdout, rows, *length); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printList() {
	names := make([]string, len(shapes))
	for i, e := range shapes {
		names[i] = e.name
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
}

// parseLaw returns -1 when no law is forced.
func parseLaw(s string) (crossfade.Law, error) {
	switch strings.ToLower(s) {
	case "":
		return -1, nil
	case "amplitude":
		return crossfade.LawAmplitude, nil
	case "power":
		return crossfade.LawPower, nil
	default:
		return 0, fmt.Errorf("unknown law %q", s)
	}
}

func buildShape(name string, size int, alpha float64, forced crossfade.Law) (*crossfade.Shape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range shapes {
		if e.name != name {
			continue
		}
		law := crossfade.LawAmplitude
		if e.name == "equal-power" {
			law = crossfade.LawPower
		}
		if forced >= 0 {
			law = forced
		}
		if e.typ == window.TypeRectangular {
			if law == crossfade.LawAmplitude {
				return nil, nil
			}
			ramp := make([]float64, size)
			for i := range ramp {
				ramp[i] = 1 - float64(i)/float64(size)
			}
			return crossfade.NewTable("Linear", ramp, law)
		}
		var opts []window.Option
		if e.hasAlpha {
			a := e.defAlpha
			if !math.IsNaN(alpha) {
				a = alpha
			}
			opts = append(opts, window.WithAlpha(a))
		}
		return crossfade.FromWindow(e.typ, size, law, opts...)
	}
	return nil, fmt.Errorf("unknown shape %q (use -list to see available)", name)
}
