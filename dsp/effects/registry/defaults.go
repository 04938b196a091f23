package registry

import (
	"github.com/cwbudde/algo-pitchdelay/dsp/core"
	"github.com/cwbudde/algo-pitchdelay/dsp/effects"
	"github.com/cwbudde/algo-pitchdelay/dsp/effects/modulation"
	"github.com/cwbudde/algo-pitchdelay/dsp/effects/pitch"
)

// Default returns a registry with the built-in effects:
//
//	delay   time feedback mix glide pitch spread taps lowcut highcut
//	delay2  same keys, two ping-pong taps
//	pitch   semitones grain mix
//	chorus  speed depth base mix stages detune width
//	flanger rate depth base feedback mix
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister("delay", func(cfg core.ProcessorConfig, p Params) (Processor, error) {
		fx, err := effects.NewDelay(cfg.SampleRate)
		if err != nil {
			return nil, err
		}
		return fx, configureDelay(fx, p)
	})
	r.MustRegister("delay2", func(cfg core.ProcessorConfig, p Params) (Processor, error) {
		fx, err := effects.NewDualDelay(cfg.SampleRate)
		if err != nil {
			return nil, err
		}
		return fx, configureDelay(fx, p)
	})
	r.MustRegister("pitch", func(cfg core.ProcessorConfig, p Params) (Processor, error) {
		fx, err := pitch.NewPitchShifter(cfg.SampleRate)
		if err != nil {
			return nil, err
		}
		return fx, configurePitch(fx, p)
	})
	r.MustRegister("chorus", func(cfg core.ProcessorConfig, p Params) (Processor, error) {
		fx, err := modulation.NewChorus()
		if err != nil {
			return nil, err
		}
		return fx, configureChorus(fx, cfg.SampleRate, p)
	})
	r.MustRegister("flanger", func(cfg core.ProcessorConfig, p Params) (Processor, error) {
		fx, err := modulation.NewFlanger(cfg.SampleRate,
			modulation.WithFlangerRateHz(p.GetNum("rate", 0.25)),
			modulation.WithFlangerDepthSeconds(p.GetNum("depth", 0.0015)),
			modulation.WithFlangerBaseDelaySeconds(p.GetNum("base", 0.001)),
			modulation.WithFlangerFeedback(p.GetNum("feedback", 0.25)),
			modulation.WithFlangerMix(p.GetNum("mix", 0.5)),
		)
		if err != nil {
			return nil, err
		}
		return fx, nil
	})
	return r
}

func configureDelay(fx *effects.Delay, p Params) error {
	if err := fx.SetTapCount(p.GetInt("taps", fx.TapCount())); err != nil {
		return err
	}
	if err := fx.SetGlide(p.GetNum("glide", fx.Glide())); err != nil {
		return err
	}
	if err := fx.SetTime(p.GetNum("time", fx.Time())); err != nil {
		return err
	}
	if err := fx.SetFeedback(p.GetNum("feedback", fx.Feedback())); err != nil {
		return err
	}
	if err := fx.SetMix(p.GetNum("mix", fx.Mix())); err != nil {
		return err
	}
	if err := fx.SetSpread(p.GetNum("spread", fx.Spread())); err != nil {
		return err
	}
	if err := fx.SetPitch(p.GetNum("pitch", fx.Pitch())); err != nil {
		return err
	}
	low, high := fx.Tone()
	if err := fx.SetTone(p.GetNum("lowcut", low), p.GetNum("highcut", high)); err != nil {
		return err
	}
	// Start from the configured state rather than gliding from defaults.
	fx.Reset()
	return nil
}

func configurePitch(fx *pitch.PitchShifter, p Params) error {
	if err := fx.SetGrainSize(p.GetInt("grain", fx.GrainSize())); err != nil {
		return err
	}
	if err := fx.SetPitchSemitones(p.GetNum("semitones", fx.PitchSemitones())); err != nil {
		return err
	}
	if err := fx.SetMix(p.GetNum("mix", fx.Mix())); err != nil {
		return err
	}
	fx.Reset()
	return nil
}

func configureChorus(fx *modulation.Chorus, sampleRate float64, p Params) error {
	if err := fx.SetSampleRate(sampleRate); err != nil {
		return err
	}
	if err := fx.SetStages(p.GetInt("stages", fx.Stages())); err != nil {
		return err
	}
	if err := fx.SetSpeedHz(p.GetNum("speed", fx.SpeedHz())); err != nil {
		return err
	}
	if err := fx.SetDepth(p.GetNum("depth", fx.Depth())); err != nil {
		return err
	}
	if err := fx.SetBaseDelay(p.GetNum("base", fx.BaseDelay())); err != nil {
		return err
	}
	if err := fx.SetMix(p.GetNum("mix", fx.Mix())); err != nil {
		return err
	}
	if err := fx.SetDetune(p.GetNum("detune", fx.Detune())); err != nil {
		return err
	}
	if err := fx.SetWidth(p.GetNum("width", fx.Width())); err != nil {
		return err
	}
	fx.Reset()
	return nil
}
