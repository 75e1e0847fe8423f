package modules

import (
	"github.com/cbegin/modulecore/internal/core"
	"github.com/cbegin/modulecore/internal/effects"
)

func init() {
	core.RegisterModuleKind("distortion", func(sampleRate int) core.Module { return NewDistortion(sampleRate) })
}

// Distortion is a 2-in/2-out waveshaper, wrapping internal/effects.Distortion.
type Distortion struct {
	core.BaseModule
	inL, inR   core.AudioInput
	outL, outR *core.AudioOutput

	sampleRate int
	effect     *effects.Distortion
}

// NewDistortion returns a distortion module with mild pre-gain. Call Configure to change it.
func NewDistortion(sampleRate int) *Distortion {
	m := &Distortion{
		inL: core.NewAudioInput(), inR: core.NewAudioInput(),
		outL: core.NewAudioOutput(), outR: core.NewAudioOutput(),
		sampleRate: sampleRate,
		effect:     effects.NewDistortion(sampleRate, 2, 0.8, 0),
	}
	m.InitPorts([]*core.AudioOutput{m.outL, m.outR}, []*core.AudioInput{&m.inL, &m.inR}, nil)
	return m
}

// Configure replaces the wrapped effect with a freshly parameterized one (see
// effects.NewDistortion for parameter meaning).
func (m *Distortion) Configure(preGain, postGain, lpfCutoff float32) {
	m.effect = effects.NewDistortion(m.sampleRate, preGain, postGain, lpfCutoff)
}

func (m *Distortion) Process(_ uint64) {
	l, r := m.outL.WriteBuffer(), m.outR.WriteBuffer()
	for s := range l {
		l[s], r[s] = m.effect.Process(m.inL.At(s), m.inR.At(s))
	}
}
