package delay

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pitchdelay/dsp/interp"
	"github.com/cwbudde/algo-pitchdelay/internal/testutil"
)

var allModes = []interp.Mode{interp.Linear, interp.Hermite, interp.Lagrange3}

func writeAll(d *Line, x []float64) {
	for _, v := range x {
		d.Write(v)
	}
}

func TestNewLine(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); err == nil {
			t.Fatalf("New(%d): expected error", size)
		}
	}
	if _, err := New(16, WithMode(interp.Mode(42))); err == nil {
		t.Fatal("expected error for unknown mode")
	}

	d, err := New(16)
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 16 || d.Mode() != interp.Hermite {
		t.Fatalf("Len() = %d, Mode() = %v", d.Len(), d.Mode())
	}

	d, err = New(16, WithMode(interp.Linear), WithOversampling(3))
	if err != nil {
		t.Fatal(err)
	}
	if d.Mode() != interp.Linear {
		t.Fatalf("Mode() = %v, want Linear", d.Mode())
	}
}

func TestLineIntegerRead(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		written int
		delay   int
		want    float64
	}{
		{name: "newest", size: 8, written: 8, delay: 1, want: 7},
		{name: "three back", size: 8, written: 8, delay: 3, want: 5},
		{name: "wrapped newest", size: 4, written: 10, delay: 1, want: 9},
		{name: "wrapped oldest", size: 4, written: 10, delay: 4, want: 6},
		{name: "full turn", size: 4, written: 10, delay: 8, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.size)
			if err != nil {
				t.Fatal(err)
			}
			writeAll(d, testutil.Ramp(0, 1, tt.written))
			if got := d.Read(tt.delay); got != tt.want {
				t.Fatalf("Read(%d) = %v, want %v", tt.delay, got, tt.want)
			}
		})
	}
}

func TestLineReset(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(d, []float64{1, 2, 3})
	d.Reset()

	for k := 1; k <= d.Len(); k++ {
		if got := d.Read(k); got != 0 {
			t.Fatalf("after Reset Read(%d) = %v", k, got)
		}
	}
}

func TestLineReadFractionalClamps(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(d, testutil.Ramp(1, 1, 8))

	for _, delay := range []float64{-1, 0, 0.5, math.NaN()} {
		if got := d.ReadFractional(delay); got != 8 {
			t.Fatalf("ReadFractional(%v) = %v, want newest sample 8", delay, got)
		}
	}

	// Hermite needs two taps past the read point.
	if got, want := d.ReadFractional(100), d.ReadFractional(6); got != want {
		t.Fatalf("ReadFractional(100) = %v, want %v", got, want)
	}
}

func TestLineReadFractionalRampExact(t *testing.T) {
	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			d, err := New(32, WithMode(mode))
			if err != nil {
				t.Fatal(err)
			}
			writeAll(d, testutil.Ramp(0, 1, 32))

			for _, delay := range []float64{3.5, 5.25, 11.9} {
				want := 32 - delay
				if got := d.ReadFractional(delay); math.Abs(got-want) > 1e-10 {
					t.Fatalf("ReadFractional(%v) = %v, want %v", delay, got, want)
				}
			}
		})
	}
}

func TestLineReadFractionalDCAndSine(t *testing.T) {
	const (
		freq  = 0.02
		size  = 256
		delay = 20.37
	)
	tols := map[interp.Mode]float64{
		interp.Linear:    0.01,
		interp.Hermite:   1e-4,
		interp.Lagrange3: 1e-4,
	}

	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			d, err := New(size, WithMode(mode))
			if err != nil {
				t.Fatal(err)
			}

			writeAll(d, testutil.DC(42, size))
			if got := d.ReadFractional(5.3); math.Abs(got-42) > 1e-9 {
				t.Fatalf("DC: got %v", got)
			}

			writeAll(d, testutil.DeterministicSine(freq, 1, 1, size))
			want := math.Sin(2 * math.Pi * freq * (size - delay))
			if got := d.ReadFractional(delay); math.Abs(got-want) > tols[mode] {
				t.Fatalf("sine: got %v want %v", got, want)
			}
		})
	}
}

// A Line read at delay d+1 and a Store read one sample behind the head at
// delay d address the same instant with the same kernel.
func TestLineMatchesStore(t *testing.T) {
	const sampleRate = 1000.0

	in := testutil.DeterministicNoise(7, 1, 200)

	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			line, err := New(256, WithMode(mode))
			if err != nil {
				t.Fatal(err)
			}
			store, err := NewStore(sampleRate, 0.1, WithMode(mode))
			if err != nil {
				t.Fatal(err)
			}

			writeAll(line, in)
			store.Push(in)

			dst := make([]float64, 1)
			for _, d := range []float64{4.5, 20.37, 63.01} {
				store.ReadRamped(dst, d/sampleRate, d/sampleRate, -1)
				if got := line.ReadFractional(d + 1); math.Abs(got-dst[0]) > 1e-9 {
					t.Fatalf("delay %v: line %v, store %v", d, got, dst[0])
				}
			}
		})
	}
}

func BenchmarkLineReadFractional(b *testing.B) {
	for _, mode := range allModes {
		b.Run(mode.String(), func(b *testing.B) {
			d, _ := New(1024, WithMode(mode))
			writeAll(d, testutil.Ramp(0, 1, 1024))
			b.ResetTimer()

			for range b.N {
				d.ReadFractional(100.37)
			}
		})
	}
}
