package core

import (
	"math"
	"testing"
)

// TestParamSmoothingLaw is scenario 3 from the testable-properties list: a fresh param's ramp
// starts at 0 (freshly constructed previous), set_target(0.5, quantum 100) should read back exactly
// previous at the very first affected sample and exactly 0.5 once SMOOTH_SAMPLES have elapsed.
func TestParamSmoothingLaw(t *testing.T) {
	p := NewAudioParam(Multiplicative)
	p.Modulation.Bind(UnitOutput()) // pure ramp, no extra scaling from the identity default

	p.SetTarget(0.5, 100)
	p.Process(100)

	if got := p.At(0); got != 0 {
		t.Fatalf("sample 0 at target-set quantum: got %v, want previous (0)", got)
	}

	// SMOOTH_SAMPLES=441 samples from the start of quantum 100 lands at global sample
	// 100*128+441 = 13241, i.e. quantum 103, local sample 13241-103*128=57.
	for q := uint64(100); q <= 104; q++ {
		p.Process(q)
		for s := 0; s < Q; s++ {
			global := int(q)*Q + s - 100*Q
			if global >= SmoothSamples {
				if got := p.At(s); math.Abs(float64(got-0.5)) > 1e-6 {
					t.Fatalf("quantum %d sample %d (global %d): got %v, want 0.5", q, s, global, got)
				}
			}
		}
	}
}

// TestParamMultiplicativeDefaultIsUnit checks the identity-per-kind sentinel resolution: an
// unconnected multiplicative param's modulation reads as 1 (leaves the ramp unscaled), not 0.
func TestParamMultiplicativeDefaultIsUnit(t *testing.T) {
	p := NewAudioParam(Multiplicative)
	p.SetTarget(0.75, 0)
	for q := uint64(0); q <= 4; q++ { // past SmoothSamples, so the ramp sits at its target
		p.Process(q)
	}
	if got := p.At(Q - 1); math.Abs(float64(got-0.75)) > 1e-6 {
		t.Fatalf("unconnected multiplicative modulation should leave ramp unscaled: got %v, want 0.75", got)
	}
}

// TestParamAdditiveDefaultIsSilent checks the additive counterpart: unconnected modulation reads
// as 0, leaving the ramp unshifted.
func TestParamAdditiveDefaultIsSilent(t *testing.T) {
	p := NewAudioParam(Additive)
	p.SetTarget(0.75, 0)
	for q := uint64(0); q <= 4; q++ { // past SmoothSamples, so the ramp sits at its target
		p.Process(q)
	}
	if got := p.At(Q - 1); math.Abs(float64(got-0.75)) > 1e-6 {
		t.Fatalf("unconnected additive modulation should leave ramp unshifted: got %v, want 0.75", got)
	}
}

// TestParamResetModulationRestoresKindSentinel checks that disconnecting a param's modulation
// input restores the kind-appropriate sentinel, not the generic silent one.
func TestParamResetModulationRestoresKindSentinel(t *testing.T) {
	p := NewAudioParam(Multiplicative)
	mod := NewAudioOutput()
	for i := range mod.buffers {
		for s := range mod.buffers[i] {
			mod.buffers[i][s] = 2
		}
	}
	p.Modulation.Bind(mod)
	p.SetTarget(1, 0)
	var q uint64
	for ; q <= 4; q++ {
		p.Process(q)
	}
	if got := p.At(Q - 1); math.Abs(float64(got-2)) > 1e-6 {
		t.Fatalf("expected modulation to double the fully-ramped value: got %v, want 2", got)
	}

	p.ResetModulation()
	p.Process(q)
	if got := p.At(Q - 1); math.Abs(float64(got-1)) > 1e-6 {
		t.Fatalf("after ResetModulation, multiplicative modulation should read back as unit: got %v, want 1", got)
	}
}
