package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-pitchdelay/dsp/crossfade"
)

func TestBuildShape(t *testing.T) {
	for _, e := range shapes {
		t.Run(e.name, func(t *testing.T) {
			s, err := buildShape(e.name, 256, math.NaN(), -1)
			if err != nil {
				t.Fatalf("buildShape: %v", err)
			}

			if e.name == "linear" && s != nil {
				t.Fatal("linear amplitude fade should be the nil shape")
			}

			if e.name == "equal-power" && s.Law() != crossfade.LawPower {
				t.Fatalf("law = %v", s.Law())
			}
		})
	}

	if _, err := buildShape("sinc", 256, math.NaN(), -1); err == nil {
		t.Fatal("expected unknown shape error")
	}

	s, err := buildShape("linear", 256, math.NaN(), crossfade.LawPower)
	if err != nil || s == nil || s.Law() != crossfade.LawPower {
		t.Fatalf("forced power linear: %v %v", s, err)
	}
}

func TestAnalyzeLaws(t *testing.T) {
	hann, _ := buildShape("hann", 1024, math.NaN(), -1)
	p := analyze(hann, 2048)

	if math.Abs(p.ampDipDB) > 1e-9 {
		t.Fatalf("amplitude law dip = %f dB, want 0", p.ampDipDB)
	}

	if math.Abs(p.powerDipDB+3.01) > 0.05 {
		t.Fatalf("hann uncorrelated dip = %f dB, want -3.01", p.powerDipDB)
	}

	if math.Abs(p.midOut-0.5) > 1e-3 {
		t.Fatalf("hann mid gain = %f", p.midOut)
	}

	ep, _ := buildShape("equal-power", 1024, math.NaN(), -1)
	q := analyze(ep, 2048)

	if math.Abs(q.powerDipDB) > 1e-9 {
		t.Fatalf("power law dip = %f dB, want 0", q.powerDipDB)
	}

	if math.Abs(q.midOut-math.Sqrt2/2) > 1e-3 {
		t.Fatalf("equal-power mid gain = %f", q.midOut)
	}

	lin := analyze(nil, 1000)
	if math.Abs(lin.maxStep-0.001) > 1e-9 {
		t.Fatalf("linear max step = %g, want 0.001", lin.maxStep)
	}
}

func TestParseLaw(t *testing.T) {
	if l, err := parseLaw(""); err != nil || l != -1 {
		t.Fatal("empty law")
	}

	if l, err := parseLaw("Power"); err != nil || l != crossfade.LawPower {
		t.Fatal("power")
	}

	if _, err := parseLaw("cubic"); err == nil {
		t.Fatal("expected error")
	}
}

func TestPrintRows(t *testing.T) {
	var buf bytes.Buffer
	rows := []shapeRow{{label: "linear", props: analyze(nil, 64)}}

	if err := printRows(&buf, rows, 64); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "Linear") || !strings.Contains(out, "amplitude") {
		t.Fatalf("output:\n%s", out)
	}
}
