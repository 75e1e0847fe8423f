package core

import (
	"context"
	"sync/atomic"
	"time"
)

// Telemetry tracks a rolling window of per-quantum processing durations for one worker, so the
// engine can report whether workers are keeping up with real time without needing a profiler
// attached.
type Telemetry struct {
	window  []time.Duration
	next    int
	filled  bool
	quantum time.Duration // wall-clock budget for one quantum at the configured sample rate
}

// NewTelemetry returns a telemetry tracker with the given rolling window size and the wall-clock
// duration budgeted for one quantum (Q samples at the engine's sample rate).
func NewTelemetry(window int, quantumBudget time.Duration) *Telemetry {
	return &Telemetry{window: make([]time.Duration, window), quantum: quantumBudget}
}

// Record appends one quantum's processing duration to the rolling window.
func (t *Telemetry) Record(d time.Duration) {
	t.window[t.next] = d
	t.next = (t.next + 1) % len(t.window)
	if t.next == 0 {
		t.filled = true
	}
}

// Headroom reports the fraction of the per-quantum wall-clock budget left unused on average over
// the current window, in [0,1]; negative values indicate the worker is falling behind real time.
func (t *Telemetry) Headroom() float64 {
	n := len(t.window)
	if !t.filled {
		n = t.next
	}
	if n == 0 {
		return 1
	}
	var sum time.Duration
	for i := 0; i < n; i++ {
		sum += t.window[i]
	}
	avg := sum / time.Duration(n)
	return 1 - float64(avg)/float64(t.quantum)
}

// cursor is the shared, fetch-add claimed work index workers race over to divide up a quantum's
// modules among themselves. Reset to 0 by the leader at the start of every quantum's pre-phase.
type cursor struct {
	n atomic.Uint64
}

func (c *cursor) next() uint64 { return c.n.Add(1) - 1 }
func (c *cursor) reset()       { c.n.Store(0) }

// WorkerContext is the state shared by every worker goroutine in a scheduler run: the module
// store they claim work from, the two per-quantum barriers, the shared work cursor, and the ring
// the leader publishes finished quanta into.
type WorkerContext struct {
	Store *ModuleStore
	Ring  *OutputRing

	preBarrier  *Barrier
	postBarrier *Barrier
	work        cursor

	quantum atomic.Uint64
}

// NewWorkerContext returns the shared context for numWorkers cooperating workers.
func NewWorkerContext(store *ModuleStore, ring *OutputRing, numWorkers int) *WorkerContext {
	return &WorkerContext{
		Store:       store,
		Ring:        ring,
		preBarrier:  NewBarrier(numWorkers),
		postBarrier: NewBarrier(numWorkers),
	}
}

// RunWorker is the body of one worker goroutine: it runs until ctx is done, processing quanta in
// lockstep with every other worker via the two barriers. Per quantum:
//
//  1. pre-phase barrier: the leader swaps every module's output double-buffer and resets the work
//     cursor; everyone else just waits for that to finish;
//  2. each worker repeatedly claims the next unclaimed module index from the cursor (under the
//     store's read lock) and processes it — its params first, then the module itself — until the
//     cursor runs past the end of the store;
//  3. post-phase barrier: the leader sums every audio-output module's first two channels into the
//     quantum's stereo mix and publishes it to the ring; everyone else just waits for that to
//     finish.
func RunWorker(ctx context.Context, wc *WorkerContext, telemetry *Telemetry) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		wc.preBarrier.WaitAndDo(func() {
			wc.Store.Lock.Lock()
			wc.Store.SwapBuffers()
			wc.Store.Lock.Unlock()
			wc.work.reset()
		})

		start := time.Now()
		q := wc.quantum.Load()
		wc.processClaimedModules(q)
		if telemetry != nil {
			telemetry.Record(time.Since(start))
		}

		wc.postBarrier.WaitAndDo(func() {
			frame := wc.mixAudioOutputs()
			wc.quantum.Add(1)
			wc.Ring.Publish(ctx, &frame)
		})
	}
}

func (wc *WorkerContext) processClaimedModules(quantum uint64) {
	wc.Store.Lock.RLock()
	n := wc.Store.Len()
	wc.Store.Lock.RUnlock()

	for {
		idx := wc.work.next()
		if idx >= uint64(n) {
			return
		}
		wc.Store.Lock.RLock()
		m := wc.Store.At(int(idx))
		for _, p := range m.Params() {
			p.Process(quantum)
		}
		m.Process(quantum)
		wc.Store.Lock.RUnlock()
	}
}

// mixAudioOutputs sums every registered audio-output module's first two output channels into a
// fresh stereo quantum. Called by the post-phase barrier's leader only.
func (wc *WorkerContext) mixAudioOutputs() StereoQuantum {
	var out StereoQuantum
	wc.Store.Lock.RLock()
	defer wc.Store.Lock.RUnlock()

	for _, id := range wc.Store.AudioOutputIDs() {
		m, ok := wc.Store.Get(id)
		if !ok {
			continue
		}
		outs := m.Outputs()
		if len(outs) < 2 {
			continue
		}
		l := outs[0].ReadBuffer()
		r := outs[1].ReadBuffer()
		for s := 0; s < Q; s++ {
			out[s].L += l[s]
			out[s].R += r[s]
		}
	}
	return out
}
