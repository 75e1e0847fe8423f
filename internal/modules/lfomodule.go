package modules

import (
	"github.com/cbegin/modulecore/internal/core"
	"github.com/cbegin/modulecore/internal/lfo"
)

func init() {
	core.RegisterModuleKind("lfo", func(sampleRate int) core.Module { return NewLFO(float64(sampleRate)) })
}

// LFO is a modulation source wrapping internal/lfo.LFO, exposing its rate/depth as AudioParams so
// they can themselves be wired to other modules' outputs like any other param.
type LFO struct {
	core.BaseModule
	out *core.AudioOutput

	Rate  *core.AudioParam
	Depth *core.AudioParam

	engine     lfo.LFO
	sampleRate float64
}

// NewLFO returns an LFO module using the triangle waveform by default, until SetWaveform is
// called.
func NewLFO(sampleRate float64) *LFO {
	m := &LFO{
		out:        core.NewAudioOutput(),
		Rate:       core.NewAudioParam(core.Additive),
		Depth:      core.NewAudioParam(core.Multiplicative),
		sampleRate: sampleRate,
	}
	m.engine.Set(0, 0, lfo.WaveTriangle)
	m.InitPorts([]*core.AudioOutput{m.out}, nil, []*core.AudioParam{m.Rate, m.Depth})
	return m
}

// SetWaveform selects the underlying waveform (lfo.WaveSaw/WaveSquare/WaveTriangle/WaveRandom).
func (m *LFO) SetWaveform(waveform int) {
	m.engine.Set(1, 1, waveform)
}

func (m *LFO) Process(_ uint64) {
	buf := m.out.WriteBuffer()
	for s := range buf {
		m.engine.Set(float64(m.Depth.At(s)), float64(m.Rate.At(s)), m.engine.Waveform())
		buf[s] = float32(m.engine.Sample(m.sampleRate))
	}
}
