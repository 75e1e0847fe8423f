package modules

import (
	"github.com/cbegin/modulecore/internal/core"
	"github.com/cbegin/modulecore/internal/effects"
)

func init() {
	core.RegisterModuleKind("compressor", func(sampleRate int) core.Module { return NewCompressor(sampleRate) })
}

// Compressor is a 2-in/2-out dynamics processor, wrapping internal/effects.Compressor.
type Compressor struct {
	core.BaseModule
	inL, inR   core.AudioInput
	outL, outR *core.AudioOutput

	sampleRate int
	effect     *effects.Compressor
}

// NewCompressor returns a compressor module with a moderate 4:1 default. Call Configure to change
// it.
func NewCompressor(sampleRate int) *Compressor {
	m := &Compressor{
		inL: core.NewAudioInput(), inR: core.NewAudioInput(),
		outL: core.NewAudioOutput(), outR: core.NewAudioOutput(),
		sampleRate: sampleRate,
		effect:     effects.NewCompressor(sampleRate, -18, 4, 5, 80, 4),
	}
	m.InitPorts([]*core.AudioOutput{m.outL, m.outR}, []*core.AudioInput{&m.inL, &m.inR}, nil)
	return m
}

// Configure replaces the wrapped effect with a freshly parameterized one (see
// effects.NewCompressor for parameter meaning), discarding its envelope state.
func (m *Compressor) Configure(thresholdDB, ratio, attackMs, releaseMs, makeupDB float32) {
	m.effect = effects.NewCompressor(m.sampleRate, thresholdDB, ratio, attackMs, releaseMs, makeupDB)
}

func (m *Compressor) Process(_ uint64) {
	l, r := m.outL.WriteBuffer(), m.outR.WriteBuffer()
	for s := range l {
		l[s], r[s] = m.effect.Process(m.inL.At(s), m.inR.At(s))
	}
}
