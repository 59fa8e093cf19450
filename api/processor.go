// File: api/processor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// WriteCallback is handed to every processor at attach time. Invoking it
// performs a synchronous write attempt on the owning connection, from
// whatever goroutine learned that new output is available. It reports true
// when the staged output was fully drained, false when socket backpressure
// left bytes pending (the reactor then finishes the job on the next
// write-readiness event).
type WriteCallback func() bool

// BufferProcessor owns the protocol-level input/output buffering for one
// connection. The reactor core fills its input region, drains its output
// region, and otherwise stays out of framing decisions.
//
// A processor is attached to exactly one connection for the connection's
// whole lifetime; it is never shared or reattached.
//
// Unlike a positioned byte buffer, Go slices carry no read/write cursor, so
// the contract passes counts explicitly: the core reports how many bytes it
// placed into InputBuffer via OnInputAvailable, and how many bytes of
// OutputBuffer it wrote via ConsumeOutput.
type BufferProcessor interface {
	// InputBuffer returns the writable spare region the core reads into.
	InputBuffer() []byte

	// OnInputAvailable is invoked after a successful read placed n > 0
	// bytes at the start of the region last returned by InputBuffer.
	OnInputAvailable(n int)

	// OnBeforeWrite is invoked before every write attempt so the processor
	// can stage freshly produced output.
	OnBeforeWrite()

	// OutputBuffer returns the pending unsent output region, or nil when
	// nothing is staged.
	OutputBuffer() []byte

	// ConsumeOutput is invoked after a write sent the first n bytes of the
	// region last returned by OutputBuffer.
	ConsumeOutput(n int)

	// FlushThenClose asks the processor to finish emitting already staged
	// output and then stop producing. Used for graceful teardown.
	FlushThenClose()

	// CloseImmediately discards pending output and releases processor
	// resources. Used for abrupt teardown.
	CloseImmediately()

	// BindOwner hands the processor the channel it serves.
	BindOwner(ch Channel)

	// BindWriteCallback hands the processor the out-of-band write hook for
	// its connection.
	BindWriteCallback(cb WriteCallback)
}

// BufferProcessorFactory creates one processor per accepted or registered
// data connection.
type BufferProcessorFactory interface {
	NewBufferProcessor(ch Channel) BufferProcessor
}

// FactoryFunc adapts a plain function to BufferProcessorFactory.
type FactoryFunc func(ch Channel) BufferProcessor

// NewBufferProcessor implements BufferProcessorFactory.
func (f FactoryFunc) NewBufferProcessor(ch Channel) BufferProcessor {
	return f(ch)
}
