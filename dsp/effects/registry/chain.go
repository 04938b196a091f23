package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
)

// Stage is one effect of a serial chain.
type Stage struct {
	Name   string
	Params Params
}

// ErrEmptyChain is returned when a chain has no stages.
var ErrEmptyChain = errors.New("registry: empty chain")

// ParseChain parses stages separated by '|', each written as name or
// name:key=value,key=value. Names are lowercased.
func ParseChain(s string) ([]Stage, error) {
	var stages []Stage
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, args, _ := strings.Cut(part, ":")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return nil, fmt.Errorf("registry: stage %q has no effect name", part)
		}
		p, err := ParseParams(args)
		if err != nil {
			return nil, fmt.Errorf("registry: stage %s: %w", name, err)
		}
		stages = append(stages, Stage{Name: name, Params: p})
	}
	if len(stages) == 0 {
		return nil, ErrEmptyChain
	}
	return stages, nil
}

// Chain runs effects in series on the same buffer.
type Chain struct {
	names []string
	fx    []Processor
}

// BuildChain builds every stage with the same processor options.
func (r *Registry) BuildChain(stages []Stage, opts ...core.ProcessorOption) (*Chain, error) {
	if len(stages) == 0 {
		return nil, ErrEmptyChain
	}
	c := &Chain{
		names: make([]string, 0, len(stages)),
		fx:    make([]Processor, 0, len(stages)),
	}
	for i, st := range stages {
		fx, err := r.Build(st.Name, st.Params, opts...)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		c.names = append(c.names, st.Name)
		c.fx = append(c.fx, fx)
	}
	return c, nil
}

// Len returns the number of stages.
func (c *Chain) Len() int { return len(c.fx) }

// Names returns the effect name of each stage.
func (c *Chain) Names() []string { return append([]string(nil), c.names...) }

// Stage returns the processor of stage i.
func (c *Chain) Stage(i int) Processor { return c.fx[i] }

// IsStereo reports whether every stage has a native stereo path.
func (c *Chain) IsStereo() bool {
	for _, fx := range c.fx {
		if _, ok := fx.(StereoProcessor); !ok {
			return false
		}
	}
	return true
}

// ProcessInPlace runs buf through every stage in order.
func (c *Chain) ProcessInPlace(buf []float64) {
	for _, fx := range c.fx {
		fx.ProcessInPlace(buf)
	}
}

// ProcessStereo runs a stereo block through every stage. It panics unless
// IsStereo reports true.
func (c *Chain) ProcessStereo(left, right []float64) {
	for _, fx := range c.fx {
		fx.(StereoProcessor).ProcessStereo(left, right)
	}
}

// Reset resets every stage.
func (c *Chain) Reset() {
	for _, fx := range c.fx {
		fx.Reset()
	}
}
