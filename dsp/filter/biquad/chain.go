package biquad

// Chain runs sections in series after an input gain.
type Chain struct {
	sections []Section
	gain     float64
}

type chainConfig struct {
	gain float64
}

// ChainOption configures a Chain.
type ChainOption func(*chainConfig)

// WithGain sets the input gain. Default 1.
func WithGain(g float64) ChainOption {
	return func(cfg *chainConfig) { cfg.gain = g }
}

// NewChain builds one section per coefficient set.
func NewChain(coeffs []Coefficients, opts ...ChainOption) *Chain {
	cfg := chainConfig{gain: 1}
	for _, o := range opts {
		o(&cfg)
	}
	c := &Chain{gain: cfg.gain}
	c.setSections(coeffs)
	return c
}

func (c *Chain) setSections(coeffs []Coefficients) {
	c.sections = make([]Section, len(coeffs))
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}
}

// ProcessSample filters one sample through the cascade.
func (c *Chain) ProcessSample(x float64) float64 {
	x *= c.gain
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}
	return x
}

// ProcessBlock filters buf in place. Identity sections are skipped.
func (c *Chain) ProcessBlock(buf []float64) {
	if c.gain != 1 {
		for i, x := range buf {
			buf[i] = x * c.gain
		}
	}
	for i := range c.sections {
		if c.sections[i].IsIdentity() {
			continue
		}
		c.sections[i].ProcessBlock(buf)
	}
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// NumSections returns the number of sections.
func (c *Chain) NumSections() int { return len(c.sections) }

// Order returns the filter order.
func (c *Chain) Order() int { return 2 * len(c.sections) }

// Gain returns the input gain.
func (c *Chain) Gain() float64 { return c.gain }

// SetGain sets the input gain.
func (c *Chain) SetGain(g float64) { c.gain = g }

// Section returns section i.
func (c *Chain) Section(i int) *Section { return &c.sections[i] }

// SetCoefficients replaces the coefficients of section i and keeps its
// state, so tone changes while audio runs do not click.
func (c *Chain) SetCoefficients(i int, coeffs Coefficients) {
	if coeffs.IsIdentity() {
		c.sections[i].Reset()
	}
	c.sections[i].Coefficients = coeffs
}

// UpdateCoefficients replaces all coefficients. State is kept when the
// section count is unchanged and reset otherwise.
func (c *Chain) UpdateCoefficients(coeffs []Coefficients, gain float64) {
	c.gain = gain
	if len(coeffs) != len(c.sections) {
		c.setSections(coeffs)
		return
	}
	for i := range c.sections {
		c.sections[i].Coefficients = coeffs[i]
	}
}
