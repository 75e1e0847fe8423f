package modules

import (
	"github.com/cbegin/modulecore/internal/core"
	"github.com/cbegin/modulecore/internal/effects"
)

func init() {
	core.RegisterModuleKind("chorus", func(sampleRate int) core.Module { return NewChorus(sampleRate) })
}

// Chorus is a 2-in/2-out modulated delay, wrapping internal/effects.Chorus.
type Chorus struct {
	core.BaseModule
	inL, inR   core.AudioInput
	outL, outR *core.AudioOutput

	sampleRate int
	effect     *effects.Chorus
}

// NewChorus returns a chorus module with a typical 15ms/0.3Hz default. Call Configure to change
// it.
func NewChorus(sampleRate int) *Chorus {
	m := &Chorus{
		inL: core.NewAudioInput(), inR: core.NewAudioInput(),
		outL: core.NewAudioOutput(), outR: core.NewAudioOutput(),
		sampleRate: sampleRate,
		effect:     effects.NewChorus(sampleRate, 15, 0.2, 4, 0.3, 0.5),
	}
	m.InitPorts([]*core.AudioOutput{m.outL, m.outR}, []*core.AudioInput{&m.inL, &m.inR}, nil)
	return m
}

// Configure replaces the wrapped effect with a freshly parameterized one (see
// effects.NewChorus for parameter meaning), discarding its delay-line history.
func (m *Chorus) Configure(delayMs, feedback, depthMs, rateHz, wet float32) {
	m.effect = effects.NewChorus(m.sampleRate, delayMs, feedback, depthMs, rateHz, wet)
}

func (m *Chorus) Process(_ uint64) {
	l, r := m.outL.WriteBuffer(), m.outR.WriteBuffer()
	for s := range l {
		l[s], r[s] = m.effect.Process(m.inL.At(s), m.inR.At(s))
	}
}
