package core

import "errors"

// Sentinel errors returned by Engine's control-plane operations. Callers compare against these
// with errors.Is: most methods return them bare, but CreateModule and MarkAudioOutput wrap them
// with fmt.Errorf to name the kind or module involved.
var (
	// ErrNotFound is returned when a module kind, ModuleID, or ConnectionID does not refer to
	// anything currently registered or in the graph.
	ErrNotFound = errors.New("core: not found")

	// ErrInvalidEndpoint is returned when a request names a real module but an
	// output/input/param index out of range for it, or (MarkAudioOutput) a module with fewer
	// than two outputs.
	ErrInvalidEndpoint = errors.New("core: invalid endpoint")

	// ErrSerialization reports malformed encoded input. Nothing in this package returns it.
	ErrSerialization = errors.New("core: serialization error")
)
