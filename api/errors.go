// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common error values shared across the lnet packages.

package api

import "fmt"

var (
	// ErrDemuxClosed is returned once the demultiplexer has been closed;
	// it is the dispatch loop's sole termination condition.
	ErrDemuxClosed = fmt.Errorf("demultiplexer is closed")

	// ErrAgain signals that a non-blocking operation cannot make progress
	// right now. The core treats it as a spurious readiness event and
	// never reports it to the listener.
	ErrAgain = fmt.Errorf("resource temporarily unavailable")

	// ErrChannelClosed is returned by operations on a closed channel.
	ErrChannelClosed = fmt.Errorf("channel is closed")

	// ErrNotRegistered is returned when an interest update names a
	// descriptor absent from the registry.
	ErrNotRegistered = fmt.Errorf("channel not registered")

	// ErrAlreadyRegistered is returned when a descriptor is registered
	// twice.
	ErrAlreadyRegistered = fmt.Errorf("channel already registered")

	// ErrNotSupported is returned by platform stubs.
	ErrNotSupported = fmt.Errorf("operation not supported on this platform")
)
