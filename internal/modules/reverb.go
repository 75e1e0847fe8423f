package modules

import (
	"github.com/cbegin/modulecore/internal/core"
	"github.com/cbegin/modulecore/internal/effects"
)

func init() {
	core.RegisterModuleKind("reverb", func(sampleRate int) core.Module { return NewReverb(sampleRate) })
}

// Reverb is a 2-in/2-out Schroeder-style reverb, wrapping internal/effects.Reverb.
type Reverb struct {
	core.BaseModule
	inL, inR   core.AudioInput
	outL, outR *core.AudioOutput

	sampleRate int
	effect     *effects.Reverb
}

// NewReverb returns a reverb module with a medium-room default. Call Configure to change it.
func NewReverb(sampleRate int) *Reverb {
	m := &Reverb{
		inL: core.NewAudioInput(), inR: core.NewAudioInput(),
		outL: core.NewAudioOutput(), outR: core.NewAudioOutput(),
		sampleRate: sampleRate,
		effect:     effects.NewReverb(sampleRate, 0.5, 0.6, 0.35),
	}
	m.InitPorts([]*core.AudioOutput{m.outL, m.outR}, []*core.AudioInput{&m.inL, &m.inR}, nil)
	return m
}

// Configure replaces the wrapped effect with a freshly parameterized one (see
// effects.NewReverb for parameter meaning), discarding the reverb tail's history.
func (m *Reverb) Configure(roomSize, feedback, wet float32) {
	m.effect = effects.NewReverb(m.sampleRate, roomSize, feedback, wet)
}

func (m *Reverb) Process(_ uint64) {
	l, r := m.outL.WriteBuffer(), m.outR.WriteBuffer()
	for s := range l {
		l[s], r[s] = m.effect.Process(m.inL.At(s), m.inR.At(s))
	}
}
