package core

import "errors"

// ModuleID identifies a module within an Engine's store.
type ModuleID uint64

// ConnectionID identifies an entry in an Engine's connection table.
type ConnectionID uint64

// OutputID, InputID, and ParamID index a module's own outputs/inputs/params slices.
type (
	OutputID int
	InputID  int
	ParamID  int
)

// ErrUnsupportedMessage is returned by the default OnMessage implementation. The distilled
// engine's policy is that a message routed to a module with no real handler is a graph
// construction error, not a recoverable one: Engine.SendMessageToModule panics when it sees this
// sentinel rather than swallowing it (see engine.go).
var ErrUnsupportedMessage = errors.New("core: module has no handler for this message")

// Event is an out-of-band notification a module can emit (e.g. "I advanced a step"), drained by
// the control thread via Engine.CollectModuleEvents.
type Event struct {
	Kind    string
	Payload any
}

// Message is an in-band control message delivered to a module via Engine.SendMessageToModule.
type Message struct {
	Kind    string
	Payload any
}

// Module is the polymorphic processing unit at the heart of the graph: it owns its outputs and
// holds references (via AudioInput/AudioParam) to other modules' outputs.
type Module interface {
	// Process advances the module by one quantum. Parameters have already had their own Process
	// called by the scheduler before this is invoked.
	Process(quantum uint64)

	Outputs() []*AudioOutput
	Inputs() []*AudioInput
	Params() []*AudioParam

	// SwapOutputBuffers advances every owned output's double-buffer. Called by the scheduler
	// leader exactly once per quantum, before any module processes.
	SwapOutputBuffers()

	// PopEvent drains the oldest pending event, if any.
	PopEvent() (Event, bool)

	// OnMessage delivers an in-band control message. The default (BaseModule) implementation
	// returns ErrUnsupportedMessage; Engine.SendMessageToModule treats that as a fatal graph
	// construction error.
	OnMessage(msg Message) error
}

// maxQueuedEvents bounds a module's pending-event queue so a control thread that never drains
// events cannot make a module leak memory without bound.
const maxQueuedEvents = 256

// BaseModule provides the default behaviors §4.3 specifies, so concrete modules only need to
// declare their own outputs/inputs/params and override Process (and OnMessage, PopEvent sources,
// if they actually use messages/events).
type BaseModule struct {
	outputs []*AudioOutput
	inputs  []*AudioInput
	params  []*AudioParam
	events  []Event
}

// InitPorts wires up a module's output/input/param slices. Called once by each concrete module's
// constructor.
func (b *BaseModule) InitPorts(outputs []*AudioOutput, inputs []*AudioInput, params []*AudioParam) {
	b.outputs = outputs
	b.inputs = inputs
	b.params = params
}

func (b *BaseModule) Outputs() []*AudioOutput { return b.outputs }
func (b *BaseModule) Inputs() []*AudioInput   { return b.inputs }
func (b *BaseModule) Params() []*AudioParam   { return b.params }

func (b *BaseModule) SwapOutputBuffers() {
	for _, o := range b.outputs {
		o.Swap()
	}
}

// PushEvent enqueues an event for later draining via PopEvent, dropping the oldest if the queue
// is already at capacity.
func (b *BaseModule) PushEvent(e Event) {
	if len(b.events) >= maxQueuedEvents {
		b.events = b.events[1:]
	}
	b.events = append(b.events, e)
}

func (b *BaseModule) PopEvent() (Event, bool) {
	if len(b.events) == 0 {
		return Event{}, false
	}
	e := b.events[0]
	b.events = b.events[1:]
	return e, true
}

func (b *BaseModule) OnMessage(_ Message) error {
	return ErrUnsupportedMessage
}
