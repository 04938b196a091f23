package taps

import (
	"fmt"

	"github.com/cwbudde/algo-pitchdelay/dsp/pitchdelay"
	"github.com/cwbudde/algo-vecmath"
)

// Stage mixes the taps of one delay store.
type Stage struct {
	store    pitchdelay.Store
	procRate float64
	maxBlock int
	glide    int

	taps   []*Tap
	buf    []float64
	scaled []float64
}

// NewStage builds n taps reading store.
func NewStage(store pitchdelay.Store, n int, opts ...Option) (*Stage, error) {
	if store == nil {
		return nil, pitchdelay.ErrNotBound
	}
	if n <= 0 {
		return nil, fmt.Errorf("tap stage needs at least one tap: %d", n)
	}
	cfg := config{maxBlock: defaultMaxBlockSize, glide: defaultGlide}
	for _, o := range opts {
		o(&cfg)
	}

	s := &Stage{
		store:    store,
		procRate: store.SampleRate() * float64(int(1)<<store.OversamplingLog2()),
		maxBlock: cfg.maxBlock,
		glide:    cfg.glide,
		buf:      make([]float64, cfg.maxBlock),
		scaled:   make([]float64, cfg.maxBlock),
	}
	for i := 0; i < n; i++ {
		t, err := newTap(store, s.procRate, cfg)
		if err != nil {
			return nil, fmt.Errorf("tap %d: %w", i, err)
		}
		s.taps = append(s.taps, t)
	}
	return s, nil
}

// Len returns the number of taps.
func (s *Stage) Len() int { return len(s.taps) }

// Tap returns tap i.
func (s *Stage) Tap(i int) *Tap { return s.taps[i] }

// ProcessingRate returns the rate the taps run at.
func (s *Stage) ProcessingRate() float64 { return s.procRate }

// Glide returns the transition length of delay changes.
func (s *Stage) Glide() int { return s.glide }

// SetGlide sets the transition length of delay changes for all taps.
func (s *Stage) SetGlide(samples int) error {
	if samples < 0 {
		return fmt.Errorf("tap glide must be >= 0: %d", samples)
	}
	s.glide = samples
	for _, t := range s.taps {
		t.glide = samples
	}
	return nil
}

// ProcessMono adds the sum of all taps, scaled by their gains, to dst.
// srcPos locates dst[0] relative to the store's write head.
func (s *Stage) ProcessMono(dst []float64, srcPos int) {
	for off := 0; off < len(dst); off += s.maxBlock {
		n := min(len(dst)-off, s.maxBlock)
		out := dst[off : off+n]
		buf := s.buf[:n]
		scaled := s.scaled[:n]
		for _, t := range s.taps {
			t.read(buf, srcPos+off)
			vecmath.ScaleBlock(scaled, buf, t.gain)
			vecmath.AddBlockInPlace(out, scaled)
		}
	}
}

// ProcessStereo adds the panned taps to left and right, which must have
// the same length.
func (s *Stage) ProcessStereo(left, right []float64, srcPos int) {
	if len(left) != len(right) {
		panic("taps: left and right lengths differ")
	}
	for off := 0; off < len(left); off += s.maxBlock {
		n := min(len(left)-off, s.maxBlock)
		l := left[off : off+n]
		r := right[off : off+n]
		buf := s.buf[:n]
		scaled := s.scaled[:n]
		for _, t := range s.taps {
			t.read(buf, srcPos+off)
			vecmath.ScaleBlock(scaled, buf, t.gainL)
			vecmath.AddBlockInPlace(l, scaled)
			vecmath.ScaleBlock(scaled, buf, t.gainR)
			vecmath.AddBlockInPlace(r, scaled)
		}
	}
}

// Reset settles every tap at its requested delay and clears tone filters.
func (s *Stage) Reset() {
	for _, t := range s.taps {
		t.reset()
	}
}
