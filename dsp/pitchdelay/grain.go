package pitchdelay

// Grain is one read head: a delay time that is either static or moving
// linearly towards a target over a fixed number of samples.
type Grain struct {
	delayCurrent float64
	delayTarget  float64
	delayStep    float64

	// transitionPos < 0 when no ramp is in progress,
	// else 0 <= transitionPos < transitionLen.
	transitionPos int
	transitionLen int
}

func newGrain() Grain {
	return Grain{transitionPos: -1}
}

// IsRamping reports whether a ramp is in progress.
func (g Grain) IsRamping() bool {
	return g.transitionLen > 0
}

// ClipBlockLength limits n so a block never runs past the end of the ramp
// in progress.
func (g Grain) ClipBlockLength(n int) int {
	if !g.IsRamping() {
		return n
	}
	return min(n, g.transitionLen-g.transitionPos)
}

// Delay returns the current delay in seconds.
func (g Grain) Delay() float64 { return g.delayCurrent }

// Target returns the delay reached at the end of the ramp, or the current
// delay when static.
func (g Grain) Target() float64 { return g.delayTarget }

// Step returns the per-sample delay increment of the ramp in progress.
func (g Grain) Step() float64 { return g.delayStep }

// TransitionPos returns the ramp position, -1 when static.
func (g Grain) TransitionPos() int { return g.transitionPos }

// TransitionLen returns the ramp length, 0 when static.
func (g Grain) TransitionLen() int { return g.transitionLen }

// Set places the grain at delay and cancels any ramp.
func (g *Grain) Set(delay float64) {
	g.delayCurrent = delay
	g.delayTarget = delay
	g.delayStep = 0
	g.transitionPos = -1
	g.transitionLen = 0
}

// StartRamp moves the grain by step per sample for n samples, starting
// from its current delay.
func (g *Grain) StartRamp(step float64, n int) {
	if n <= 0 {
		g.Set(g.delayCurrent)
		return
	}
	g.delayStep = step
	g.delayTarget = g.delayCurrent + step*float64(n)
	g.transitionPos = 0
	g.transitionLen = n
}

// RampTo moves the grain to target over n samples.
func (g *Grain) RampTo(target float64, n int) {
	if n <= 0 {
		g.Set(target)
		return
	}
	g.StartRamp((target-g.delayCurrent)/float64(n), n)
	g.delayTarget = target
}

// Advance moves the grain by n samples and returns the delays at the start
// of the span and just after it. n must not exceed ClipBlockLength(n).
func (g *Grain) Advance(n int) (beg, end float64) {
	beg = g.delayCurrent
	if !g.IsRamping() {
		return beg, beg
	}
	g.transitionPos += n
	if g.transitionPos >= g.transitionLen {
		g.Set(g.delayTarget)
		return beg, g.delayCurrent
	}
	// Measured back from the target so rounding does not accumulate.
	g.delayCurrent = g.delayTarget - g.delayStep*float64(g.transitionLen-g.transitionPos)
	return beg, g.delayCurrent
}
