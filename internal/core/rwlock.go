package core

import (
	"sync"
	"sync/atomic"
)

// RwLock is a single-word reader/writer lock: state 0 means idle, state n > 0 means n readers
// hold the lock, state -1 means a writer holds it. Unlike sync.RWMutex this lock makes no
// fairness guarantee between readers and writers — a steady stream of readers can starve a
// waiting writer indefinitely. That tradeoff is intentional: workers take the read side every
// quantum and must never be made to queue behind a writer that only runs during graph edits,
// which are rare and not latency-sensitive.
type RwLock struct {
	state atomic.Int32

	mu   sync.Mutex
	cond *sync.Cond
}

// NewRwLock returns an idle lock.
func NewRwLock() *RwLock {
	l := &RwLock{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// RLock acquires the lock for reading, blocking while a writer holds it.
func (l *RwLock) RLock() {
	for {
		s := l.state.Load()
		if s == -1 {
			l.waitForChange(-1)
			continue
		}
		if l.state.CompareAndSwap(s, s+1) {
			return
		}
	}
}

// RUnlock releases a read lock, waking any writer if this was the last reader.
func (l *RwLock) RUnlock() {
	if l.state.Add(-1) == 0 {
		l.wake()
	}
}

// Lock acquires the lock for writing, blocking until no readers and no other writer hold it.
func (l *RwLock) Lock() {
	for !l.state.CompareAndSwap(0, -1) {
		l.waitForChange(l.state.Load())
	}
}

// Unlock releases a write lock.
func (l *RwLock) Unlock() {
	l.state.Store(0)
	l.wake()
}

// waitForChange blocks until the state no longer reads as observed, using a condvar so waiters
// sleep instead of spinning. observed is advisory: spurious wakeups just re-check in the caller's
// loop.
func (l *RwLock) waitForChange(observed int32) {
	l.mu.Lock()
	if l.state.Load() == observed {
		l.cond.Wait()
	}
	l.mu.Unlock()
}

func (l *RwLock) wake() {
	l.mu.Lock()
	l.cond.Broadcast()
	l.mu.Unlock()
}
