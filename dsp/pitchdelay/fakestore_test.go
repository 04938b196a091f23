package pitchdelay

import "testing"

type readCall struct {
	beg, end float64
	srcPos   int
	n        int
}

// fakeStore records ReadRamped calls and writes the start delay into dst.
type fakeStore struct {
	sampleRate float64
	ovrLog2    int
	minDelay   float64
	maxDelay   float64
	calls      []readCall
}

func newFakeStore() *fakeStore {
	return &fakeStore{sampleRate: 48000, minDelay: 0, maxDelay: 2}
}

func (s *fakeStore) MinDelayTime() float64 { return s.minDelay }
func (s *fakeStore) MaxDelayTime() float64 { return s.maxDelay }
func (s *fakeStore) SampleRate() float64   { return s.sampleRate }
func (s *fakeStore) OversamplingLog2() int { return s.ovrLog2 }

func (s *fakeStore) ReadRamped(dst []float64, beg, end float64, srcPos int) {
	s.calls = append(s.calls, readCall{beg: beg, end: end, srcPos: srcPos, n: len(dst)})
	for i := range dst {
		dst[i] = beg
	}
}

func newTestReader(t *testing.T, s Store, opts ...Option) *Reader {
	t.Helper()
	opts = append([]Option{WithScratch(s, make([]float64, 256))}, opts...)
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

// settle jumps to delay and reads until the crossfade is over.
func settle(t *testing.T, r *Reader, delay float64) {
	t.Helper()
	r.RequestDelay(delay, 0)
	buf := make([]float64, 64)
	for i := 0; i < 1000; i++ {
		r.Read(buf)
		if r.State() == StateIdle && !r.IsTransitionPending() {
			if r.CurrentDelay() != delay {
				t.Fatalf("settled at %f, want %f", r.CurrentDelay(), delay)
			}
			return
		}
	}
	t.Fatalf("reader did not settle at %f: state %v", delay, r.State())
}
