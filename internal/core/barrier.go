package core

import "sync"

// Barrier is a reusable, generational N-party rendezvous. Every participant calls Wait (or
// WaitAndDo); the last one to arrive advances the barrier's generation and wakes everyone else,
// so the same Barrier can be used once per quantum for the lifetime of the engine instead of
// being rebuilt each time.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	arrived    int
	generation uint64
}

// NewBarrier returns a barrier for the given number of parties. parties must be >= 1.
func NewBarrier(parties int) *Barrier {
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all parties have called Wait/WaitAndDo for the current generation, then
// returns. Equivalent to WaitAndDo(nil).
func (b *Barrier) Wait() {
	b.WaitAndDo(nil)
}

// WaitAndDo blocks until all parties have arrived. The last party to arrive — the "leader" for
// this generation — runs action (if non-nil) before anyone is released, and its return from
// WaitAndDo reports leader=true. Every other party's return reports leader=false. action runs
// with no other party able to observe the barrier having advanced yet, so it is the natural place
// for exactly-once per-quantum bookkeeping (buffer swaps, cursor resets, ring publication).
func (b *Barrier) WaitAndDo(action func()) (leader bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.generation
	b.arrived++
	if b.arrived < b.parties {
		for gen == b.generation {
			b.cond.Wait()
		}
		return false
	}

	// Last arrival: act as leader, then release everyone.
	if action != nil {
		action()
	}
	b.arrived = 0
	b.generation++
	b.cond.Broadcast()
	return true
}
