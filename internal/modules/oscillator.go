package modules

import (
	"math"

	"github.com/cbegin/modulecore/internal/core"
)

func init() {
	core.RegisterModuleKind("oscillator", func(sampleRate int) core.Module {
		return NewOscillator(float64(sampleRate))
	})
}

// sineTableSize is the resolution of the Oscillator's wavetable: a table lookup plus linear
// interpolation is cheaper per sample than calling math.Sin directly at audio rate across many
// voices.
const sineTableSize = 2048

var sineTable [sineTableSize + 1]float32

func init() {
	for i := range sineTable {
		sineTable[i] = float32(math.Sin(2 * math.Pi * float64(i) / sineTableSize))
	}
}

func lookupSine(phase float64) float32 {
	phase -= math.Floor(phase)
	pos := phase * sineTableSize
	i0 := int(pos)
	frac := float32(pos - float64(i0))
	return sineTable[i0] + frac*(sineTable[i0+1]-sineTable[i0])
}

// Oscillator is a phase-accumulator sine source with sample-accurate frequency and level
// modulation.
type Oscillator struct {
	core.BaseModule
	out *core.AudioOutput

	Frequency *core.AudioParam
	Level     *core.AudioParam

	sampleRate float64
	phase      float64
}

// NewOscillator returns an oscillator at the given sample rate, silent until its frequency and
// level params are set.
func NewOscillator(sampleRate float64) *Oscillator {
	m := &Oscillator{
		out:        core.NewAudioOutput(),
		Frequency:  core.NewAudioParam(core.Additive),
		Level:      core.NewAudioParam(core.Multiplicative),
		sampleRate: sampleRate,
	}
	m.InitPorts([]*core.AudioOutput{m.out}, nil, []*core.AudioParam{m.Frequency, m.Level})
	return m
}

func (m *Oscillator) Process(_ uint64) {
	buf := m.out.WriteBuffer()
	for s := range buf {
		buf[s] = lookupSine(m.phase) * m.Level.At(s)
		m.phase += float64(m.Frequency.At(s)) / m.sampleRate
		if m.phase >= 1 {
			m.phase -= math.Floor(m.phase)
		}
	}
}
