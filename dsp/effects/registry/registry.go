package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cwbudde/algo-pitchdelay/dsp/core"
)

// Processor is the common contract of the registered effects.
type Processor interface {
	ProcessInPlace(buf []float64)
	Reset()
}

// StereoProcessor is implemented by effects with a native stereo path.
type StereoProcessor interface {
	Processor
	ProcessStereo(left, right []float64)
}

// Factory builds one configured effect.
type Factory func(cfg core.ProcessorConfig, p Params) (Processor, error)

// Registry maps effect names to their factories.
type Registry struct {
	factories map[string]Factory
}

var (
	errDuplicateEffect = errors.New("duplicate effect type")

	// ErrUnknownEffect is returned by Build for unregistered names.
	ErrUnknownEffect = errors.New("registry: unknown effect")
	// ErrUnknownParam is returned by Build when a parameter is not used by
	// the effect.
	ErrUnknownParam = errors.New("registry: unknown parameter")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given effect type.
func (r *Registry) Register(effectType string, factory Factory) error {
	if effectType == "" {
		return errors.New("empty effect type")
	}
	if factory == nil {
		return errors.New("nil factory")
	}
	if _, exists := r.factories[effectType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, effectType)
	}
	r.factories[effectType] = factory
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(effectType string, factory Factory) {
	if err := r.Register(effectType, factory); err != nil {
		panic("registry: " + err.Error())
	}
}

// Lookup returns the factory for the given effect type, or nil.
func (r *Registry) Lookup(effectType string) Factory {
	return r.factories[effectType]
}

// Names returns the registered effect types, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build creates the effect registered as effectType, configured from p.
func (r *Registry) Build(effectType string, p Params, opts ...core.ProcessorOption) (Processor, error) {
	factory := r.Lookup(effectType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownEffect, effectType, strings.Join(r.Names(), ", "))
	}
	if p.seen == nil {
		p = NewParams(p.Num)
	}
	fx, err := factory(core.ApplyProcessorOptions(opts...), p)
	if err != nil {
		return nil, fmt.Errorf("registry: %s: %w", effectType, err)
	}
	if unused := p.Unused(); len(unused) > 0 {
		return nil, fmt.Errorf("%w for %s: %s", ErrUnknownParam, effectType, strings.Join(unused, ", "))
	}
	return fx, nil
}
