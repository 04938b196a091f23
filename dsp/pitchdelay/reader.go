package pitchdelay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/crossfade"
)

// Store is the sample history a Reader pulls from. delay.Store implements it.
type Store interface {
	MinDelayTime() float64
	MaxDelayTime() float64
	// SampleRate returns the base rate; stored samples run at
	// SampleRate * 2^OversamplingLog2.
	SampleRate() float64
	OversamplingLog2() int
	// ReadRamped fills dst reading at a delay moving linearly from delayBeg
	// to delayEnd. srcPos locates dst[0] relative to the write head and is
	// never further back than the store's block allowance
	// (delay.Store.MaxBlockSize); older history may be overwritten.
	ReadRamped(dst []float64, delayBeg, delayEnd float64, srcPos int)
}

// State describes what a Reader is doing between two reads.
type State int

const (
	// StateIdle reads one static grain.
	StateIdle State = iota
	// StateRamping reads one grain whose delay moves linearly.
	StateRamping
	// StateCrossfading blends the outgoing grain into the active one.
	StateCrossfading
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRamping:
		return "ramping"
	case StateCrossfading:
		return "crossfading"
	default:
		return "unknown"
	}
}

// Reader reads a Store through two grains, switching between them with
// crossfades. See the package documentation.
type Reader struct {
	store   Store
	tmp     []float64
	blender *crossfade.Blender

	sampleRate float64
	procRate   float64
	ovrLog2    int
	minDelay   float64
	maxDelay   float64

	grains [2]Grain
	active int

	pitchRatio  float64
	pitchActive bool

	rateInf, rateSup float64

	xfade    [2]xfadeSpec
	xfadePos int

	progDelay float64
	progTrans int // < 0 when nothing is pending

	curDelay float64
}

// New returns an unbound reader at delay 0 and pitch ratio 1. Unless
// WithScratch is given, Bind must be called before reading.
func New(opts ...Option) (*Reader, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &Reader{
		grains:     [2]Grain{newGrain(), newGrain()},
		pitchRatio: 1,
		xfadePos:   -1,
		progTrans:  -1,
	}
	if err := r.SetResamplingRange(cfg.rateInf, cfg.rateSup); err != nil {
		return nil, err
	}
	for m, x := range cfg.xfade {
		if err := r.SetCrossfade(Mode(m), x.length, x.shape); err != nil {
			return nil, err
		}
	}
	if cfg.store != nil || cfg.scratch != nil {
		if err := r.Bind(cfg.store, cfg.scratch); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Bind attaches the reader to a store and a scratch buffer used for the
// outgoing grain while crossfading. The scratch buffer must not be shared
// with another reader; its length bounds the chunk size of a crossfade
// read, not the length of dst.
func (r *Reader) Bind(store Store, tmp []float64) error {
	if store == nil {
		return ErrNotBound
	}
	if len(tmp) == 0 {
		return ErrNoScratch
	}
	ovr := store.OversamplingLog2()
	if ovr < 0 || ovr > core.MaxOversamplingLog2 {
		return fmt.Errorf("pitchdelay: store oversampling out of range: %d", ovr)
	}
	if r.blender == nil || r.blender.MaxLen() < len(tmp) {
		b, err := crossfade.NewBlender(len(tmp))
		if err != nil {
			return err
		}
		r.blender = b
	}
	r.store = store
	r.tmp = tmp
	r.sampleRate = store.SampleRate()
	r.ovrLog2 = ovr
	r.procRate = r.sampleRate * float64(int(1)<<ovr)
	r.minDelay = store.MinDelayTime()
	r.maxDelay = store.MaxDelayTime()
	return nil
}

// IsReady reports whether the reader is bound.
func (r *Reader) IsReady() bool {
	return r.store != nil && len(r.tmp) > 0
}

// SetResamplingRange sets the reading speeds reachable by a plain ramp.
func (r *Reader) SetResamplingRange(rateInf, rateSup float64) error {
	if !core.IsFinite(rateInf) || !core.IsFinite(rateSup) || !(rateInf < rateSup) {
		return fmt.Errorf("%w: [%f, %f]", ErrInvalidRange, rateInf, rateSup)
	}
	r.rateInf = rateInf
	r.rateSup = rateSup
	return nil
}

// ResamplingRange returns the configured speed range.
func (r *Reader) ResamplingRange() (rateInf, rateSup float64) {
	return r.rateInf, r.rateSup
}

// SetCrossfade sets the length in processing-rate samples and the shape of
// a crossfade mode. A nil shape is linear. A crossfade of this mode that is
// in progress keeps its relative position.
func (r *Reader) SetCrossfade(mode Mode, length int, shape *crossfade.Shape) error {
	if mode != ModeNormal && mode != ModePitchShift {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	if length <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if r.xfadePos >= 0 && r.mode() == mode {
		r.xfadePos = rescalePos(r.xfadePos, r.xfade[mode].length, length)
	}
	r.xfade[mode] = xfadeSpec{length: length, shape: shape}
	return nil
}

// Crossfade returns the length and shape of a mode.
func (r *Reader) Crossfade(mode Mode) (length int, shape *crossfade.Shape) {
	if mode != ModeNormal && mode != ModePitchShift {
		return 0, nil
	}
	return r.xfade[mode].length, r.xfade[mode].shape
}

// RequestDelay schedules a move to time seconds, spread over
// transitionSamples processing-rate samples. The change starts at the next
// read boundary, or later if a transition is still running, and replaces
// any change not started yet. Requesting the current delay cancels a
// pending change.
func (r *Reader) RequestDelay(time float64, transitionSamples int) {
	if !core.IsFinite(time) {
		time = core.ClampFinite(time, r.minDelay, r.maxDelay)
	}
	if time == r.curDelay {
		r.progTrans = -1
		return
	}
	r.progDelay = time
	r.progTrans = max(transitionSamples, 0)
}

// RequestPitch sets the pitch ratio. Ratios within PitchEpsilon of 1 turn
// pitch shifting off, after which the reader crossfades back to the delay
// it held before shifting unless another change is pending. Non-finite
// ratios are ignored.
func (r *Reader) RequestPitch(ratio float64) {
	if !core.IsFinite(ratio) {
		return
	}
	oldMode := r.mode()
	r.pitchRatio = ratio
	r.pitchActive = math.Abs(ratio-1) > PitchEpsilon

	newMode := r.mode()
	if newMode != oldMode && r.xfadePos >= 0 {
		r.xfadePos = rescalePos(r.xfadePos, r.xfade[oldMode].length, r.xfade[newMode].length)
	}
	switch {
	case r.pitchActive && r.progTrans < 0:
		r.progDelay = r.curDelay
		r.progTrans = 0
	case oldMode == ModePitchShift && !r.pitchActive:
		r.returnFromDrift()
	}
}

// returnFromDrift runs when pitch shifting stops. The grains drifted away
// from curDelay while shifting; curDelay takes the position the active
// grain settles at, and a transition back to the previous delay is armed
// unless the caller already requested one.
func (r *Reader) returnFromDrift() {
	home := r.curDelay
	r.curDelay = r.grains[r.active].Target()
	if r.curDelay == home || r.progTrans >= 0 {
		return
	}
	r.progDelay = home
	r.progTrans = 0
}

// Read fills dst reading the span that ends at the write head, as after
// pushing len(dst) samples. len(dst) must not exceed the store's block
// allowance; push and read larger buffers in chunks.
func (r *Reader) Read(dst []float64) {
	r.ReadAt(dst, -len(dst))
}

// Reset drops pending and running transitions and places both grains at
// the current delay.
func (r *Reader) Reset() {
	for i := range r.grains {
		r.grains[i].Set(r.curDelay)
	}
	r.xfadePos = -1
	r.progTrans = -1
}

// JumpTo places both grains at time without a transition and drops
// pending and running transitions.
func (r *Reader) JumpTo(time float64) {
	if !core.IsFinite(time) {
		time = core.ClampFinite(time, r.minDelay, r.maxDelay)
	}
	r.curDelay = time
	r.Reset()
}

// State returns the current state.
func (r *Reader) State() State {
	switch {
	case r.xfadePos >= 0:
		return StateCrossfading
	case r.grains[r.active].IsRamping():
		return StateRamping
	default:
		return StateIdle
	}
}

// ActiveIndex returns the index (0 or 1) of the grain faded in last.
func (r *Reader) ActiveIndex() int { return r.active }

// Grain returns a copy of grain i.
func (r *Reader) Grain(i int) Grain { return r.grains[i&1] }

// CrossfadePos returns the crossfade position, -1 when not crossfading.
func (r *Reader) CrossfadePos() int { return r.xfadePos }

// PitchRatio returns the requested pitch ratio.
func (r *Reader) PitchRatio() float64 { return r.pitchRatio }

// IsPitchShifting reports whether the pitch ratio differs from 1.
func (r *Reader) IsPitchShifting() bool { return r.pitchActive }

// CurrentDelay returns the target of the last transition started.
func (r *Reader) CurrentDelay() float64 { return r.curDelay }

// IsTransitionPending reports whether a requested change has not started.
func (r *Reader) IsTransitionPending() bool { return r.progTrans >= 0 }

func (r *Reader) mode() Mode {
	if r.pitchActive {
		return ModePitchShift
	}
	return ModeNormal
}

func rescalePos(pos, oldLen, newLen int) int {
	p := int(int64(pos) * int64(newLen) / int64(oldLen))
	return min(p, newLen-1)
}
