// File: api/listener.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// CloseReason classifies why a connection was closed. It is carried from
// the closer to the EventListener untouched; the core attaches no behavior
// to it.
type CloseReason string

// Predefined reasons. Applications are free to define their own.
const (
	// ReasonNone marks process-initiated mass shutdown.
	ReasonNone CloseReason = ""

	ReasonShutdown CloseReason = "shutdown"
	ReasonError    CloseReason = "error"
)

// EventListener receives lifecycle notifications from the reactor core.
// Callbacks are invoked synchronously from whichever goroutine triggered
// the event (usually the reactor goroutine) and must not block.
type EventListener interface {
	// OnError reports any non-fatal failure observed by the core: wait
	// errors, accept/read/write errors, registration failures. The
	// dispatch loop always continues after reporting.
	OnError(err error)

	// OnChannelOpen fires once for every accepted connection.
	OnChannelOpen(ch Channel)

	// OnChannelClosed fires exactly once per data connection, with the
	// reason supplied by the closer. ReasonNone marks mass shutdown.
	OnChannelClosed(ch Channel, reason CloseReason)
}
