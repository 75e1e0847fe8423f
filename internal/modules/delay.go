package modules

import (
	"github.com/cbegin/modulecore/internal/core"
	"github.com/cbegin/modulecore/internal/effects"
)

func init() {
	core.RegisterModuleKind("delay", func(sampleRate int) core.Module { return NewDelay(sampleRate) })
}

// Delay is a 2-in/2-out stereo delay, wrapping internal/effects.Delay unchanged and iterating it
// Q times per quantum.
type Delay struct {
	core.BaseModule
	inL, inR   core.AudioInput
	outL, outR *core.AudioOutput

	sampleRate int
	effect     *effects.Delay
}

// NewDelay returns a delay module with a conservative default (200ms, light feedback, 50% wet).
// Call Configure to change it.
func NewDelay(sampleRate int) *Delay {
	m := &Delay{
		inL: core.NewAudioInput(), inR: core.NewAudioInput(),
		outL: core.NewAudioOutput(), outR: core.NewAudioOutput(),
		sampleRate: sampleRate,
		effect:     effects.NewDelay(sampleRate, 200, 0.35, 0, 0.5),
	}
	m.InitPorts([]*core.AudioOutput{m.outL, m.outR}, []*core.AudioInput{&m.inL, &m.inR}, nil)
	return m
}

// Configure replaces the wrapped effect with a freshly parameterized one (see
// effects.NewDelay for parameter meaning), discarding its delay-line history.
func (m *Delay) Configure(delayMs float64, feedback, cross, wet float32) {
	m.effect = effects.NewDelay(m.sampleRate, delayMs, feedback, cross, wet)
}

func (m *Delay) Process(_ uint64) {
	l, r := m.outL.WriteBuffer(), m.outR.WriteBuffer()
	for s := range l {
		l[s], r[s] = m.effect.Process(m.inL.At(s), m.inR.At(s))
	}
}
