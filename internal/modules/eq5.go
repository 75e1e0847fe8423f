package modules

import (
	"github.com/cbegin/modulecore/internal/core"
	"github.com/cbegin/modulecore/internal/effects"
)

func init() {
	core.RegisterModuleKind("eq5", func(sampleRate int) core.Module { return NewEQ5(sampleRate) })
}

// EQ5 is a 2-in/2-out 5-band equalizer, wrapping internal/effects.EQ5Band.
type EQ5 struct {
	core.BaseModule
	inL, inR   core.AudioInput
	outL, outR *core.AudioOutput

	sampleRate int
	effect     *effects.EQ5Band
}

// NewEQ5 returns a 5-band EQ at unity gain. Call Configure to change it.
func NewEQ5(sampleRate int) *EQ5 {
	m := &EQ5{
		inL: core.NewAudioInput(), inR: core.NewAudioInput(),
		outL: core.NewAudioOutput(), outR: core.NewAudioOutput(),
		sampleRate: sampleRate,
		effect: effects.NewEQ5Band(sampleRate,
			[5]float32{1, 1, 1, 1, 1},
			[4]float32{150, 600, 2500, 7000}),
	}
	m.InitPorts([]*core.AudioOutput{m.outL, m.outR}, []*core.AudioInput{&m.inL, &m.inR}, nil)
	return m
}

// Configure replaces the wrapped effect with a freshly parameterized one (see
// effects.NewEQ5Band for parameter meaning).
func (m *EQ5) Configure(gains [5]float32, crossovers [4]float32) {
	m.effect = effects.NewEQ5Band(m.sampleRate, gains, crossovers)
}

func (m *EQ5) Process(_ uint64) {
	l, r := m.outL.WriteBuffer(), m.outR.WriteBuffer()
	for s := range l {
		l[s], r[s] = m.effect.Process(m.inL.At(s), m.inR.At(s))
	}
}
