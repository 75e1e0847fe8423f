package modules

import "github.com/cbegin/modulecore/internal/core"

func init() {
	core.RegisterModuleKind("gain", func(int) core.Module { return NewGain() })
}

// Gain scales its one input by a smoothed multiplicative param.
type Gain struct {
	core.BaseModule
	in  core.AudioInput
	out *core.AudioOutput

	Amount *core.AudioParam
}

// NewGain returns a gain stage with its amount param initialized to 0 (silent until set).
func NewGain() *Gain {
	m := &Gain{
		in:     core.NewAudioInput(),
		out:    core.NewAudioOutput(),
		Amount: core.NewAudioParam(core.Multiplicative),
	}
	m.InitPorts([]*core.AudioOutput{m.out}, []*core.AudioInput{&m.in}, []*core.AudioParam{m.Amount})
	return m
}

func (m *Gain) Process(_ uint64) {
	buf := m.out.WriteBuffer()
	for s := range buf {
		buf[s] = m.in.At(s) * m.Amount.At(s)
	}
}
