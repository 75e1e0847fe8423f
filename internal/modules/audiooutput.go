package modules

import "github.com/cbegin/modulecore/internal/core"

func init() {
	core.RegisterModuleKind("audio_output", func(int) core.Module { return NewAudioOutput() })
}

// AudioOutput is a 2-in/2-out patch point with no processing of its own: it exists so a graph has
// somewhere to terminate, and so Engine.CreateModule("audio_output") can additionally register it
// in the engine's audio-output set, which is what makes the scheduler leader actually sum its
// channels into the ring every quantum.
type AudioOutput struct {
	core.BaseModule
	inL, inR   core.AudioInput
	outL, outR *core.AudioOutput
}

// NewAudioOutput returns a sink with both inputs disconnected (silent).
func NewAudioOutput() *AudioOutput {
	m := &AudioOutput{
		inL: core.NewAudioInput(), inR: core.NewAudioInput(),
		outL: core.NewAudioOutput(), outR: core.NewAudioOutput(),
	}
	m.InitPorts(
		[]*core.AudioOutput{m.outL, m.outR},
		[]*core.AudioInput{&m.inL, &m.inR},
		nil,
	)
	return m
}

func (m *AudioOutput) Process(_ uint64) {
	l, r := m.outL.WriteBuffer(), m.outR.WriteBuffer()
	for s := range l {
		l[s] = m.inL.At(s)
		r[s] = m.inR.At(s)
	}
}
