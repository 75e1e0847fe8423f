package core

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// ModuleFactory constructs a fresh, unwired instance of one module kind at the given sample rate.
type ModuleFactory func(sampleRate int) Module

// registry maps a module kind name to its factory. internal/modules populates this via
// RegisterModuleKind in package init funcs, so internal/core never needs to import
// internal/modules back (which would be an import cycle — internal/modules already imports
// internal/core for the Module/AudioOutput/AudioParam types it builds on).
var registry = make(map[string]ModuleFactory)

// RegisterModuleKind makes a module kind available to CreateModule. Panics on a duplicate kind
// name, since that can only happen from a programming error at init time.
func RegisterModuleKind(kind string, factory ModuleFactory) {
	if _, exists := registry[kind]; exists {
		panic(fmt.Sprintf("core: module kind %q already registered", kind))
	}
	registry[kind] = factory
}

// Connection records one edge in the graph, either into an ordinary input or into a param's
// modulation input.
type Connection struct {
	ID         ConnectionID
	FromModule ModuleID
	FromOutput OutputID
	ToModule   ModuleID
	ToInput    InputID
	ToParam    ParamID
	IsParam    bool
}

// Engine is the control-plane handle a host program uses to build and drive a module graph. Its
// graph-editing methods take the store's write lock, since graph edits are rare and not
// latency-sensitive; CollectModuleEvents takes the read lock. SetParameterValue goes through
// AudioParam's own lock-free atomic update so a host can automate parameters every quantum
// without contending with the workers.
type Engine struct {
	store *ModuleStore
	ring  *OutputRing
	wc    *WorkerContext

	sampleRate int
	numWorkers int

	telemetry []*Telemetry

	nextModuleID atomic.Uint64
	nextConnID   atomic.Uint64
	connections  map[ConnectionID]*Connection
}

// NewEngine constructs an Engine with an empty graph, ready for CreateModule calls. Workers are
// not started until InitWorkers is called.
func NewEngine(numWorkers, ringDepth, sampleRate int) *Engine {
	store := NewModuleStore()
	ring := NewOutputRing(ringDepth)
	return &Engine{
		store:       store,
		ring:        ring,
		wc:          NewWorkerContext(store, ring, numWorkers),
		sampleRate:  sampleRate,
		numWorkers:  numWorkers,
		connections: make(map[ConnectionID]*Connection),
	}
}

// Ring exposes the output ring for an audio consumer to pull finished quanta from.
func (e *Engine) Ring() *OutputRing { return e.ring }

// InitWorkers launches numWorkers goroutines (set at NewEngine time) that cooperatively process
// the graph in lockstep, supervised by an errgroup: if any worker returns a non-nil error, the
// group's context is cancelled and every other worker unwinds too. The returned group's Wait
// blocks until that happens; production callers run it in its own goroutine and treat Wait's
// return as a fatal engine failure. ctx.Done() is the only way workers ever stop — there is no
// cancellation under normal operation.
func (e *Engine) InitWorkers(ctx context.Context) *errgroup.Group {
	g, gctx := errgroup.WithContext(ctx)
	quantumBudget := time.Second * Q / time.Duration(e.sampleRate)
	e.telemetry = make([]*Telemetry, e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		telemetry := NewTelemetry(64, quantumBudget)
		e.telemetry[i] = telemetry
		g.Go(func() error {
			return RunWorker(gctx, e.wc, telemetry)
		})
	}
	return g
}

// ContextHandles exposes the engine's performance-observable internals to a host process: the
// output ring an audio consumer reads from, one Telemetry tracker per worker, and the ring's
// worker/consumer position counters. This is the Go realization of the source engine's
// get_context_pointers — there is no FFI/WASM boundary here to hand addresses across, so the
// handles are the Go values themselves rather than raw pointers.
type ContextHandles struct {
	Ring             *OutputRing
	Telemetry        []*Telemetry
	WorkerPosition   func() uint64
	ConsumerPosition func() uint64
}

// ContextHandles returns the engine's telemetry and ring handles. Telemetry is nil until
// InitWorkers has been called at least once.
func (e *Engine) ContextHandles() ContextHandles {
	return ContextHandles{
		Ring:             e.ring,
		Telemetry:        e.telemetry,
		WorkerPosition:   e.ring.WorkerPosition,
		ConsumerPosition: e.ring.ConsumerPosition,
	}
}

// CreateModule instantiates a fresh module of the given registered kind and adds it to the graph.
// A module of kind "audio_output" is also registered in the audio-output set, as MarkAudioOutput
// does.
func (e *Engine) CreateModule(kind string) (ModuleID, error) {
	factory, ok := registry[kind]
	if !ok {
		return 0, fmt.Errorf("core: unknown module kind %q: %w", kind, ErrNotFound)
	}
	m := factory(e.sampleRate)
	id := ModuleID(e.nextModuleID.Add(1))

	e.store.Lock.Lock()
	e.store.Insert(id, m)
	if kind == "audio_output" {
		e.store.MarkAudioOutput(id)
	}
	e.store.Lock.Unlock()
	return id, nil
}

// MarkAudioOutput registers id as a sink the scheduler leader mixes into the stereo ring every
// quantum. id must already exist and its module must expose at least two outputs (L, R).
func (e *Engine) MarkAudioOutput(id ModuleID) error {
	e.store.Lock.Lock()
	defer e.store.Lock.Unlock()
	m, ok := e.store.Get(id)
	if !ok {
		return ErrNotFound
	}
	if len(m.Outputs()) < 2 {
		return fmt.Errorf("core: module %d has fewer than 2 outputs: %w", id, ErrInvalidEndpoint)
	}
	e.store.MarkAudioOutput(id)
	return nil
}

// DeleteModule removes a module from the graph, along with every connection that touches it.
// Inputs/params on other modules that referenced its outputs are reset to their disconnected
// sentinel so they fail safe (silence, or identity modulation) rather than dangling.
func (e *Engine) DeleteModule(id ModuleID) error {
	e.store.Lock.Lock()
	defer e.store.Lock.Unlock()

	if _, ok := e.store.Get(id); !ok {
		return ErrNotFound
	}

	for connID, c := range e.connections {
		if c.FromModule == id || c.ToModule == id {
			e.disconnectLocked(c)
			delete(e.connections, connID)
		}
	}

	e.store.Remove(id)
	return nil
}

// ConnectToInput wires fromModule's fromOutput into toModule's toInput, replacing whatever that
// input was previously bound to.
func (e *Engine) ConnectToInput(fromModule ModuleID, fromOutput OutputID, toModule ModuleID, toInput InputID) (ConnectionID, error) {
	e.store.Lock.Lock()
	defer e.store.Lock.Unlock()

	from, ok := e.store.Get(fromModule)
	if !ok {
		return 0, ErrNotFound
	}
	to, ok := e.store.Get(toModule)
	if !ok {
		return 0, ErrNotFound
	}
	if int(fromOutput) < 0 || int(fromOutput) >= len(from.Outputs()) {
		return 0, ErrInvalidEndpoint
	}
	if int(toInput) < 0 || int(toInput) >= len(to.Inputs()) {
		return 0, ErrInvalidEndpoint
	}

	to.Inputs()[toInput].Bind(from.Outputs()[fromOutput])

	id := ConnectionID(e.nextConnID.Add(1))
	e.connections[id] = &Connection{
		ID: id, FromModule: fromModule, FromOutput: fromOutput,
		ToModule: toModule, ToInput: toInput,
	}
	return id, nil
}

// ConnectToParameter wires fromModule's fromOutput into toModule's toParam's modulation input.
func (e *Engine) ConnectToParameter(fromModule ModuleID, fromOutput OutputID, toModule ModuleID, toParam ParamID) (ConnectionID, error) {
	e.store.Lock.Lock()
	defer e.store.Lock.Unlock()

	from, ok := e.store.Get(fromModule)
	if !ok {
		return 0, ErrNotFound
	}
	to, ok := e.store.Get(toModule)
	if !ok {
		return 0, ErrNotFound
	}
	if int(fromOutput) < 0 || int(fromOutput) >= len(from.Outputs()) {
		return 0, ErrInvalidEndpoint
	}
	if int(toParam) < 0 || int(toParam) >= len(to.Params()) {
		return 0, ErrInvalidEndpoint
	}

	to.Params()[toParam].Modulation.Bind(from.Outputs()[fromOutput])

	id := ConnectionID(e.nextConnID.Add(1))
	e.connections[id] = &Connection{
		ID: id, FromModule: fromModule, FromOutput: fromOutput,
		ToModule: toModule, ToParam: toParam, IsParam: true,
	}
	return id, nil
}

// RemoveConnection tears down a previously established connection. Removing a ConnectionID that
// is not in the connection table (never created, already removed, or dropped by DeleteModule)
// returns ErrNotFound and changes nothing.
func (e *Engine) RemoveConnection(id ConnectionID) error {
	e.store.Lock.Lock()
	defer e.store.Lock.Unlock()

	c, ok := e.connections[id]
	if !ok {
		return ErrNotFound
	}
	e.disconnectLocked(c)
	delete(e.connections, id)
	return nil
}

// disconnectLocked resets the input or param side of c to its sentinel default. Must be called
// with the write lock held.
func (e *Engine) disconnectLocked(c *Connection) {
	to, ok := e.store.Get(c.ToModule)
	if !ok {
		return
	}
	if c.IsParam {
		if int(c.ToParam) < len(to.Params()) {
			to.Params()[c.ToParam].ResetModulation()
		}
		return
	}
	if int(c.ToInput) < len(to.Inputs()) {
		to.Inputs()[c.ToInput].Reset()
	}
}

// SetParameterValue enqueues a new target value for a module's parameter, sample-accurately as of
// the engine's current quantum. This goes straight through AudioParam's atomic target field and
// takes only the store's read lock (to safely look the module up), so it never contends with a
// write lock held for a graph edit nor blocks a worker's Process.
func (e *Engine) SetParameterValue(id ModuleID, paramID ParamID, value float32) error {
	e.store.Lock.RLock()
	defer e.store.Lock.RUnlock()

	m, ok := e.store.Get(id)
	if !ok {
		return ErrNotFound
	}
	params := m.Params()
	if int(paramID) < 0 || int(paramID) >= len(params) {
		return ErrInvalidEndpoint
	}
	params[paramID].SetTarget(value, e.wc.quantum.Load())
	return nil
}

// SendMessageToModule delivers an in-band control message to a module, holding the write lock for
// the duration of the call so the module's OnMessage can safely touch its own state without
// racing a concurrent Process. A module with no real handler for msg — ErrUnsupportedMessage, the
// BaseModule default — indicates a graph construction error (the host wired up a message no
// module along that path understands) and so is treated as fatal: SendMessageToModule panics
// rather than returning it.
func (e *Engine) SendMessageToModule(id ModuleID, msg Message) error {
	e.store.Lock.Lock()
	defer e.store.Lock.Unlock()

	m, ok := e.store.Get(id)
	if !ok {
		return ErrNotFound
	}
	if err := m.OnMessage(msg); err != nil {
		if err == ErrUnsupportedMessage {
			panic(fmt.Sprintf("core: module %d has no handler for message kind %q", id, msg.Kind))
		}
		return err
	}
	return nil
}

// CollectModuleEvents drains every module's pending event queue and returns them tagged with
// their source module.
type ModuleEvent struct {
	Module ModuleID
	Event  Event
}

func (e *Engine) CollectModuleEvents() []ModuleEvent {
	e.store.Lock.RLock()
	defer e.store.Lock.RUnlock()

	var out []ModuleEvent
	for i := 0; i < e.store.Len(); i++ {
		m := e.store.At(i)
		for {
			ev, ok := m.PopEvent()
			if !ok {
				break
			}
			out = append(out, ModuleEvent{Module: e.store.ids[i], Event: ev})
		}
	}
	return out
}

// Quantum returns the engine's current quantum counter, as last observed by a completed post-phase
// barrier. Safe to call concurrently with running workers.
func (e *Engine) Quantum() uint64 { return e.wc.quantum.Load() }
