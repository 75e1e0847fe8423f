package audio

import (
	"context"

	"github.com/cbegin/modulecore/internal/core"
)

// RingSource adapts a core.OutputRing to the SampleSource contract StreamReader expects: each
// Process call drains whole ring quanta (each one Q stereo frames, interleaved L,R) and carries
// any partial quantum over to the next call, since the ebiten audio backend's read size has no
// reason to line up with a multiple of Q frames.
type RingSource struct {
	ring     *core.OutputRing
	leftover []float32
}

// NewRingSource returns a source draining ring.
func NewRingSource(ring *core.OutputRing) *RingSource {
	return &RingSource{ring: ring}
}

// Process fills dst with interleaved stereo float32 samples, blocking on the ring (via
// context.Background — production playback never cancels this wait) until enough are available.
func (s *RingSource) Process(dst []float32) {
	n := 0
	for n < len(dst) {
		if len(s.leftover) == 0 {
			q, err := s.ring.Take(context.Background())
			if err != nil {
				// context.Background() never cancels; this only returns on a programming error.
				return
			}
			s.leftover = quantumToInterleaved(&q)
		}
		copied := copy(dst[n:], s.leftover)
		n += copied
		s.leftover = s.leftover[copied:]
	}
}

func quantumToInterleaved(q *core.StereoQuantum) []float32 {
	out := make([]float32, 0, 2*len(q))
	for _, frame := range q {
		out = append(out, frame.L, frame.R)
	}
	return out
}
