package core

import (
	"math"
	"sync/atomic"
)

// ModulationKind selects how an AudioParam combines its ramp with its modulation input.
type ModulationKind int

const (
	// Additive combines ramp + modulation(sample).
	Additive ModulationKind = iota
	// Multiplicative combines ramp * modulation(sample).
	Multiplicative
)

// AudioParam is a sample-accurate, linearly-interpolated scalar parameter with optional
// modulation by another module's output. set_target enqueues a new value sample-accurately;
// Process refreshes the per-quantum ramp and the ramp-combined-with-modulation buffer that the
// owning module's DSP reads via At.
//
// target, previous, and targetSetAtQuantum are each held in their own atomic so SetTarget can be
// called lock-free from the control thread concurrently with the owning worker's Process call —
// per DESIGN.md open question 2, this trades a torn read of at most one quantum (the read side
// may see a target update mid-ramp-computation) for never blocking the control thread on the
// store lock.
type AudioParam struct {
	kind ModulationKind

	target   atomic.Uint32 // float32 bits
	previous atomic.Uint32 // float32 bits

	targetSetAtQuantum atomic.Uint64

	ramp     AudioBuffer
	combined AudioBuffer

	// Modulation is the input the owning module wires a modulation source into. Defaults to the
	// sentinel appropriate for kind (silent for additive, unit for multiplicative) so that an
	// unwired param behaves as identity modulation rather than always reading zero.
	Modulation AudioInput
}

// NewAudioParam constructs a param of the given kind with target 0 and identity-default
// modulation.
func NewAudioParam(kind ModulationKind) *AudioParam {
	p := &AudioParam{kind: kind}
	if kind == Multiplicative {
		p.Modulation = AudioInput{ref: unitOutput}
	} else {
		p.Modulation = NewAudioInput()
	}
	return p
}

// Kind reports the param's modulation kind.
func (p *AudioParam) Kind() ModulationKind { return p.kind }

// ResetModulation disconnects the modulation input, rebinding it to the sentinel appropriate for
// this param's kind (unit for multiplicative, silent for additive) rather than AudioInput's
// generic silent-only default — see DESIGN.md open question 1.
func (p *AudioParam) ResetModulation() {
	if p.kind == Multiplicative {
		p.Modulation = AudioInput{ref: unitOutput}
	} else {
		p.Modulation = AudioInput{ref: silentOutput}
	}
}

// SetTarget enqueues a new target value, sample-accurate as of quantumNow. If called multiple
// times within the same quantum, the last call wins: previous is rebased to the last sample of
// the ramp as it stands at the moment of the call, so the new ramp starts from wherever the old
// one had gotten to rather than jumping back to the start of the old ramp (continuity).
func (p *AudioParam) SetTarget(value float32, quantumNow uint64) {
	p.previous.Store(math.Float32bits(p.ramp[Q-1]))
	p.target.Store(math.Float32bits(value))
	p.targetSetAtQuantum.Store(quantumNow)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Process refreshes the ramp and the modulation-combined buffer for quantumNow. Must be called by
// the worker that owns the module, before that module's own Process.
func (p *AudioParam) Process(quantumNow uint64) {
	target := math.Float32frombits(p.target.Load())
	previous := math.Float32frombits(p.previous.Load())
	dq := float64(int64(quantumNow) - int64(p.targetSetAtQuantum.Load()))

	for s := 0; s < Q; s++ {
		t := clamp01((dq*Q + float64(s)) / SmoothSamples)
		p.ramp[s] = previous + float32(t)*(target-previous)
	}

	mod := p.Modulation.readBuffer()
	switch p.kind {
	case Multiplicative:
		for s := 0; s < Q; s++ {
			p.combined[s] = p.ramp[s] * mod[s]
		}
	default: // Additive
		for s := 0; s < Q; s++ {
			p.combined[s] = p.ramp[s] + mod[s]
		}
	}
}

// At returns the modulated value at the given sample index within the current quantum.
func (p *AudioParam) At(sample int) float32 {
	return p.combined[sample]
}

// Target returns the current target value (post any pending SetTarget).
func (p *AudioParam) Target() float32 {
	return math.Float32frombits(p.target.Load())
}
