package core

// AudioOutput is a module-owned write port: BufferDepth physical AudioBuffers behind a
// double-buffer index. Exactly one Swap() call per quantum (made by the scheduler leader, before
// any module processes) advances which physical buffer is being written and which is being read,
// so a reader sampling the "read buffer" during quantum q always sees what was written during
// quantum q-1 — no locking required between the writer and any number of readers.
type AudioOutput struct {
	buffers [BufferDepth]AudioBuffer
	current int
}

// NewAudioOutput returns a freshly zeroed output.
func NewAudioOutput() *AudioOutput {
	return &AudioOutput{}
}

// WriteBuffer returns the buffer this quantum's Process call should write into.
func (o *AudioOutput) WriteBuffer() *AudioBuffer {
	return &o.buffers[o.current]
}

// ReadBuffer returns the buffer readers should sample from: the one written one quantum ago.
func (o *AudioOutput) ReadBuffer() *AudioBuffer {
	return &o.buffers[(o.current+BufferDepth-1)%BufferDepth]
}

// Swap advances the write index modulo BufferDepth. Called exactly once per quantum, by the
// scheduler leader, before any module's Process runs for that quantum.
func (o *AudioOutput) Swap() {
	o.current = (o.current + 1) % BufferDepth
}

// silentOutput is the process-wide sentinel representing "disconnected": its buffers are never
// written, so they stay permanently zero. AudioInput binds to it by default and whenever a
// connection is torn down.
var silentOutput = &AudioOutput{}

// unitOutput is the process-wide sentinel used as the default modulation source for
// multiplicative AudioParams: permanently all-ones, so an unwired multiplicative modulation
// leaves its target unscaled rather than zeroing it (see AudioParam and DESIGN.md open question 1).
var unitOutput = &AudioOutput{}

func init() {
	for i := range unitOutput.buffers {
		for s := range unitOutput.buffers[i] {
			unitOutput.buffers[i][s] = 1
		}
	}
}

// SilentOutput returns the process-wide all-zero sentinel output.
func SilentOutput() *AudioOutput { return silentOutput }

// UnitOutput returns the process-wide all-ones sentinel output.
func UnitOutput() *AudioOutput { return unitOutput }

// AudioInput is a non-owning, nullable reference to an AudioOutput. Only the control thread may
// rebind it (Bind/Reset), and only while the store's write lock is held; the owning module's
// Process reads through it freely without synchronization, since the referenced AudioOutput's
// read buffer is stable for the duration of a quantum.
type AudioInput struct {
	ref       *AudioOutput
	connected bool
}

// NewAudioInput returns an input bound to the silent sentinel (disconnected).
func NewAudioInput() AudioInput {
	return AudioInput{ref: silentOutput}
}

// Bind points the input at out and marks it connected.
func (in *AudioInput) Bind(out *AudioOutput) {
	in.ref = out
	in.connected = true
}

// Reset rebinds the input to the silent sentinel and marks it disconnected.
func (in *AudioInput) Reset() {
	in.ref = silentOutput
	in.connected = false
}

// IsConnected reports whether the input currently references a real module output.
func (in *AudioInput) IsConnected() bool {
	return in.connected
}

// At returns the sample at the given index in the referenced output's read buffer, or 0 if
// disconnected.
func (in *AudioInput) At(sample int) float32 {
	if !in.connected {
		return 0
	}
	return in.ref.ReadBuffer()[sample]
}

// AtBlock returns four consecutive samples starting at sample, for callers that batch-process in
// groups of four the way the underlying engine's SIMD lanes do. Go has no portable intrinsic for
// this; the compiler is left to auto-vectorize the resulting tight loop.
func (in *AudioInput) AtBlock(sample int) [4]float32 {
	var out [4]float32
	if !in.connected {
		return out
	}
	buf := in.ref.ReadBuffer()
	copy(out[:], buf[sample:sample+4])
	return out
}

// readBuffer exposes the referenced output's read buffer directly, bypassing the
// disconnected-reads-zero rule. Used internally by AudioParam to combine with its modulation
// input, where a disconnected multiplicative modulation must read as identity (1), not zero.
func (in *AudioInput) readBuffer() *AudioBuffer {
	return in.ref.ReadBuffer()
}
