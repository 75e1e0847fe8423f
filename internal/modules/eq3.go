package modules

import (
	"github.com/cbegin/modulecore/internal/core"
	"github.com/cbegin/modulecore/internal/effects"
)

func init() {
	core.RegisterModuleKind("eq3", func(sampleRate int) core.Module { return NewEQ3(sampleRate) })
}

// EQ3 is a 2-in/2-out 3-band equalizer, wrapping internal/effects.EQ3Band.
type EQ3 struct {
	core.BaseModule
	inL, inR   core.AudioInput
	outL, outR *core.AudioOutput

	sampleRate int
	effect     *effects.EQ3Band
}

// NewEQ3 returns a 3-band EQ at unity gain. Call Configure to change it.
func NewEQ3(sampleRate int) *EQ3 {
	m := &EQ3{
		inL: core.NewAudioInput(), inR: core.NewAudioInput(),
		outL: core.NewAudioOutput(), outR: core.NewAudioOutput(),
		sampleRate: sampleRate,
		effect:     effects.NewEQ3Band(sampleRate, 1, 1, 1, 300, 3000),
	}
	m.InitPorts([]*core.AudioOutput{m.outL, m.outR}, []*core.AudioInput{&m.inL, &m.inR}, nil)
	return m
}

// Configure replaces the wrapped effect with a freshly parameterized one (see
// effects.NewEQ3Band for parameter meaning).
func (m *EQ3) Configure(lowGain, midGain, highGain, lowFreq, highFreq float32) {
	m.effect = effects.NewEQ3Band(m.sampleRate, lowGain, midGain, highGain, lowFreq, highFreq)
}

func (m *EQ3) Process(_ uint64) {
	l, r := m.outL.WriteBuffer(), m.outR.WriteBuffer()
	for s := range l {
		l[s], r[s] = m.effect.Process(m.inL.At(s), m.inR.At(s))
	}
}
