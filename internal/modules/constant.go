// Package modules provides the concrete module catalog the engine ships with: sources, a gain
// stage, a patch-point sink, a modulation LFO, and a set of stereo effects. Each type is a thin
// core.Module adapter, registered into core's module kind registry from this package's init funcs
// so internal/core never has to import internal/modules back.
package modules

import "github.com/cbegin/modulecore/internal/core"

func init() {
	core.RegisterModuleKind("constant", func(int) core.Module { return NewConstant() })
}

// Constant emits a single smoothed value on its one output every sample: a fixed-level source,
// the building block scenario 3's "constant-1" input uses.
type Constant struct {
	core.BaseModule
	out   *core.AudioOutput
	Value *core.AudioParam
}

// NewConstant returns a constant source with its value param initialized to 0.
func NewConstant() *Constant {
	m := &Constant{
		out:   core.NewAudioOutput(),
		Value: core.NewAudioParam(core.Additive),
	}
	m.InitPorts([]*core.AudioOutput{m.out}, nil, []*core.AudioParam{m.Value})
	return m
}

func (m *Constant) Process(quantum uint64) {
	buf := m.out.WriteBuffer()
	for s := range buf {
		buf[s] = m.Value.At(s)
	}
}
