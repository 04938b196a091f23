package delay

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/interp"
)

// Store is an append-only circular sample buffer with a fixed maximum age,
// read back at delay times given in seconds.
//
// Positions passed to ReadRamped are relative to the write head: position 0
// is the slot the next Push will fill. Code that pushes a block of n samples
// and then reads the same span uses positions -n..-1; code that reads first
// (feedback loops) uses 0..n-1 and must declare this with WithReadAhead.
//
// Store satisfies pitchdelay.Store.
type Store struct {
	buf  []float64
	mask int
	head int

	sampleRate float64
	procRate   float64
	ovrLog2    int
	maxBlock   int
	readAhead  int

	minDelay float64
	maxDelay float64

	kernel interp.Kernel
	taps   [4]float64
}

// NewStore allocates a store able to serve delays up to maxDelay seconds.
func NewStore(sampleRate, maxDelay float64, opts ...Option) (*Store, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("delay store sample rate must be positive and finite: %f", sampleRate)
	}
	if !core.IsFinitePositive(maxDelay) {
		return nil, fmt.Errorf("delay store max delay must be positive and finite: %f", maxDelay)
	}
	cfg := applyOptions(opts)
	if cfg.ovrLog2 > core.MaxOversamplingLog2 {
		return nil, fmt.Errorf("delay store oversampling must be in [0, %d]: %d",
			core.MaxOversamplingLog2, cfg.ovrLog2)
	}
	k, err := interp.NewKernel(cfg.mode)
	if err != nil {
		return nil, err
	}

	s := &Store{
		sampleRate: sampleRate,
		procRate:   sampleRate * float64(int(1)<<cfg.ovrLog2),
		ovrLog2:    cfg.ovrLog2,
		maxBlock:   cfg.maxBlockSize,
		readAhead:  cfg.readAhead,
		kernel:     k,
	}
	s.minDelay = float64(k.After+s.readAhead) / s.procRate
	if maxDelay < s.minDelay {
		return nil, fmt.Errorf("delay store max delay %f below minimum %f", maxDelay, s.minDelay)
	}
	s.maxDelay = maxDelay

	// Room for the oldest tap at max delay, a block read behind the head and
	// the read-ahead window.
	need := int(math.Ceil(maxDelay*s.procRate)) + k.Taps() + s.maxBlock + s.readAhead + 1
	size := 1 << bits.Len(uint(need-1))
	s.buf = make([]float64, size)
	s.mask = size - 1
	return s, nil
}

// SampleRate returns the base sample rate in Hz.
func (s *Store) SampleRate() float64 { return s.sampleRate }

// ProcessingRate returns the rate of the stored samples,
// SampleRate * 2^OversamplingLog2.
func (s *Store) ProcessingRate() float64 { return s.procRate }

// OversamplingLog2 returns the oversampling exponent.
func (s *Store) OversamplingLog2() int { return s.ovrLog2 }

// MinDelayTime returns the smallest delay in seconds a read can use without
// touching slots that have not been written yet.
func (s *Store) MinDelayTime() float64 { return s.minDelay }

// MaxDelayTime returns the largest delay in seconds.
func (s *Store) MaxDelayTime() float64 { return s.maxDelay }

// MaxBlockSize returns the largest block accepted by Push and ReadRamped,
// and so how far behind the write head a read may start.
func (s *Store) MaxBlockSize() int { return s.maxBlock }

// Mode returns the interpolation mode.
func (s *Store) Mode() interp.Mode { return s.kernel.Mode }

// Len returns the ring capacity in samples.
func (s *Store) Len() int { return len(s.buf) }

// Push appends src to the ring.
func (s *Store) Push(src []float64) {
	for _, x := range src {
		s.buf[s.head&s.mask] = x
		s.head++
	}
}

// ReadRamped fills dst with samples read at a delay moving linearly from
// delayBeg (at dst[0]) towards delayEnd (reached just after the last
// sample), so consecutive calls with matching end/begin delays join without
// a seam. srcPos locates dst[0] relative to the write head and must be at
// least -MaxBlockSize; reads further back at MaxDelayTime see overwritten
// history. Delays are clamped to [MinDelayTime, MaxDelayTime].
func (s *Store) ReadRamped(dst []float64, delayBeg, delayEnd float64, srcPos int) {
	n := len(dst)
	if n == 0 {
		return
	}
	delayBeg = core.ClampFinite(delayBeg, s.minDelay, s.maxDelay)
	delayEnd = core.ClampFinite(delayEnd, s.minDelay, s.maxDelay)

	dBeg := delayBeg * s.procRate
	dStep := (delayEnd - delayBeg) * s.procRate / float64(n)
	base := s.head + srcPos
	taps := s.kernel.Taps()

	for i := range dst {
		pos := float64(base+i) - (dBeg + dStep*float64(i))
		ip := math.Floor(pos)
		frac := pos - ip
		first := int(ip) - s.kernel.Before
		for k := 0; k < taps; k++ {
			s.taps[k] = s.buf[(first+k)&s.mask]
		}
		dst[i] = s.kernel.Interpolate(frac, s.taps[:taps])
	}
}

// Reset clears the stored history.
func (s *Store) Reset() {
	clear(s.buf)
	s.head = 0
}
