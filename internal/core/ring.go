package core

import (
	"context"
	"sync"
	"sync/atomic"
)

// StereoFrame is one interleaved stereo sample pair.
type StereoFrame struct {
	L, R float32
}

// StereoQuantum holds one quantum's worth of mixed stereo output.
type StereoQuantum [Q]StereoFrame

// OutputRing is a single-producer/single-consumer ring of R finished stereo quanta. The producer
// is always the scheduler leader, once per quantum, during the post-phase barrier action; the
// consumer is always the audio backend, pulling one quantum at a time. worker_position and
// consumer_position are monotonically increasing counters (never wrapped), read and written only
// under the ring's mutex; a slot's index
// is always position mod R. The gap worker_position - consumer_position is bounded by R: the
// producer blocks (back-pressure) when the ring is full, and the consumer blocks (data-wait) when
// it is empty, via the same mutex/condvar pair.
type OutputRing struct {
	depth int
	slots []StereoQuantum

	mu   sync.Mutex
	cond *sync.Cond

	workerPosition   uint64
	consumerPosition uint64

	blockedPublishes atomic.Uint64
}

// NewOutputRing returns a ring with the given depth (number of quanta it can hold in flight).
func NewOutputRing(depth int) *OutputRing {
	r := &OutputRing{depth: depth, slots: make([]StereoQuantum, depth)}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Publish writes q into the next slot and advances worker_position, blocking while the ring is
// full. Called by the scheduler leader exactly once per quantum. ctx is honored as a cancellation
// escape hatch: the worker loop passes its own context, so cancelling the workers also releases a
// leader blocked here, and Publish then returns ctx.Err() without writing q.
func (r *OutputRing) Publish(ctx context.Context, q *StereoQuantum) error {
	r.mu.Lock()
	for r.workerPosition-r.consumerPosition >= uint64(r.depth) {
		r.blockedPublishes.Add(1)
		if err := r.waitLocked(ctx); err != nil {
			r.mu.Unlock()
			return err
		}
	}
	r.slots[r.workerPosition%uint64(r.depth)] = *q
	r.workerPosition++
	r.cond.Broadcast()
	r.mu.Unlock()
	return nil
}

// Take returns the oldest unconsumed quantum, blocking while the ring is empty, and advances
// consumer_position. Called by the audio consumer.
func (r *OutputRing) Take(ctx context.Context) (StereoQuantum, error) {
	r.mu.Lock()
	for r.consumerPosition == r.workerPosition {
		if err := r.waitLocked(ctx); err != nil {
			r.mu.Unlock()
			return StereoQuantum{}, err
		}
	}
	q := r.slots[r.consumerPosition%uint64(r.depth)]
	r.consumerPosition++
	r.cond.Broadcast()
	r.mu.Unlock()
	return q, nil
}

// Available reports how many published quanta are waiting to be consumed.
func (r *OutputRing) Available() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.workerPosition - r.consumerPosition)
}

// WorkerPosition reports the producer's current position counter.
func (r *OutputRing) WorkerPosition() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.workerPosition
}

// ConsumerPosition reports the consumer's current position counter.
func (r *OutputRing) ConsumerPosition() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.consumerPosition
}

// BlockedPublishes reports how many times Publish has had to block on a full ring since the ring
// was created. Exposed as the back-pressure half of the engine's performance telemetry (§9).
func (r *OutputRing) BlockedPublishes() uint64 {
	return r.blockedPublishes.Load()
}

// waitLocked blocks on the condvar until woken, or returns ctx.Err() if ctx is cancelled first.
// Must be called with r.mu held; re-acquires r.mu before returning in both cases.
func (r *OutputRing) waitLocked(ctx context.Context) error {
	if ctx.Done() == nil {
		r.cond.Wait()
		return nil
	}

	done := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		close(done)
		r.mu.Lock()
		r.cond.Broadcast()
		r.mu.Unlock()
	})
	defer stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	r.cond.Wait()
	select {
	case <-done:
		return ctx.Err()
	default:
		return nil
	}
}
