package core

import "math"

func init() {
	RegisterModuleKind("test.constant", func(int) Module { return newConstantModule(0) })
	RegisterModuleKind("test.gain", func(int) Module { return newGainModule() })
	RegisterModuleKind("test.oscillator", func(sampleRate int) Module { return newOscillatorModule(float64(sampleRate)) })
	RegisterModuleKind("test.audio_output", func(int) Module { return newAudioOutputModule() })
	RegisterModuleKind("test.echo", func(int) Module { return newEchoModule() })
}

// Minimal module doubles used only by this package's own tests. internal/modules provides the
// real, richer versions of most of these; these exist so core's tests can exercise the
// scheduler/graph without importing internal/modules (which itself imports core).

// constantModule emits a single fixed value on its one output, every sample, forever.
type constantModule struct {
	BaseModule
	out   *AudioOutput
	Value float32
}

func newConstantModule(value float32) *constantModule {
	m := &constantModule{out: NewAudioOutput(), Value: value}
	m.InitPorts([]*AudioOutput{m.out}, nil, nil)
	return m
}

func (m *constantModule) Process(_ uint64) {
	buf := m.out.WriteBuffer()
	for s := range buf {
		buf[s] = m.Value
	}
}

// gainModule scales its one input by a multiplicative param, sample-accurately.
type gainModule struct {
	BaseModule
	in   AudioInput
	out  *AudioOutput
	Gain *AudioParam
}

func newGainModule() *gainModule {
	m := &gainModule{in: NewAudioInput(), out: NewAudioOutput(), Gain: NewAudioParam(Multiplicative)}
	m.InitPorts([]*AudioOutput{m.out}, []*AudioInput{&m.in}, []*AudioParam{m.Gain})
	return m
}

func (m *gainModule) Process(_ uint64) {
	buf := m.out.WriteBuffer()
	for s := range buf {
		buf[s] = m.in.At(s) * m.Gain.At(s)
	}
}

// oscillatorModule is a phase-accumulator sine source whose frequency is an additive param.
type oscillatorModule struct {
	BaseModule
	out        *AudioOutput
	Frequency  *AudioParam
	sampleRate float64
	phase      float64
}

func newOscillatorModule(sampleRate float64) *oscillatorModule {
	m := &oscillatorModule{
		out:        NewAudioOutput(),
		Frequency:  NewAudioParam(Additive),
		sampleRate: sampleRate,
	}
	m.InitPorts([]*AudioOutput{m.out}, nil, []*AudioParam{m.Frequency})
	return m
}

func (m *oscillatorModule) Process(_ uint64) {
	buf := m.out.WriteBuffer()
	for s := range buf {
		buf[s] = float32(math.Sin(m.phase))
		m.phase += 2 * math.Pi * float64(m.Frequency.At(s)) / m.sampleRate
		if m.phase > 2*math.Pi {
			m.phase -= 2 * math.Pi
		}
	}
}

// audioOutputModule is a 2-in/2-out sink: the engine registers it as an audio output so the
// scheduler leader sums Outputs()[0]/[1] into the stereo ring. It also carries its own volume
// param so scenario tests can exercise set_parameter_value against a sink directly.
type audioOutputModule struct {
	BaseModule
	inL, inR   AudioInput
	outL, outR *AudioOutput
	Volume     *AudioParam
}

func newAudioOutputModule() *audioOutputModule {
	m := &audioOutputModule{
		inL: NewAudioInput(), inR: NewAudioInput(),
		outL: NewAudioOutput(), outR: NewAudioOutput(),
		Volume: NewAudioParam(Multiplicative),
	}
	m.InitPorts(
		[]*AudioOutput{m.outL, m.outR},
		[]*AudioInput{&m.inL, &m.inR},
		[]*AudioParam{m.Volume},
	)
	return m
}

func (m *audioOutputModule) Process(_ uint64) {
	l, r := m.outL.WriteBuffer(), m.outR.WriteBuffer()
	for s := range l {
		v := m.Volume.At(s)
		l[s] = m.inL.At(s) * v
		r[s] = m.inR.At(s) * v
	}
}

// echoModule is a 1-in/1-out unit module used to build feedback cycles: its output is simply
// whatever its input carries at the previous quantum (via AudioInput's own double-buffer read),
// plus an externally injected one-shot seed value consumed on its first Process call.
type echoModule struct {
	BaseModule
	in   AudioInput
	out  *AudioOutput
	seed float32
	used bool
}

func newEchoModule() *echoModule {
	m := &echoModule{in: NewAudioInput(), out: NewAudioOutput()}
	m.InitPorts([]*AudioOutput{m.out}, []*AudioInput{&m.in}, nil)
	return m
}

// Seed arranges for the very next Process call to add value to sample 0 of its output, on top of
// what it reads from its input, so a test can inject a single known impulse into a feedback loop.
func (m *echoModule) Seed(value float32) {
	m.seed = value
	m.used = false
}

func (m *echoModule) OnMessage(msg Message) error {
	if msg.Kind != "seed" {
		return ErrUnsupportedMessage
	}
	m.Seed(msg.Payload.(float32))
	return nil
}

func (m *echoModule) Process(_ uint64) {
	buf := m.out.WriteBuffer()
	for s := range buf {
		buf[s] = m.in.At(s)
	}
	if !m.used {
		buf[0] += m.seed
		m.used = true
	}
}
