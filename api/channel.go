// File: api/channel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Channel abstracts one full-duplex data connection registered with the
// reactor. It may be backed by a raw socket descriptor (package transport)
// or by an in-memory double (package fake).
//
// Read and Write must never block: implementations are switched to
// non-blocking mode before registration and return ErrAgain when the
// operation cannot make progress.
type Channel interface {
	// FD returns the OS-level descriptor the channel is keyed by in the
	// reactor registry. Fake channels return a synthetic descriptor.
	FD() int

	// Read fills p with available bytes. A (0, nil) result means the peer
	// closed its end of the stream.
	Read(p []byte) (n int, err error)

	// Write sends as many bytes of p as the channel currently accepts.
	Write(p []byte) (n int, err error)

	// IsOpen reports whether the channel has not been closed yet.
	IsOpen() bool

	// Close releases the descriptor. Safe to call more than once.
	Close() error

	// SetNonblock switches the channel to non-blocking mode.
	SetNonblock() error

	// SetNoDelay toggles the TCP_NODELAY socket option.
	SetNoDelay(noDelay bool) error
}

// ListenChannel abstracts a listening socket registered for accept
// readiness. It never carries a buffer processor.
type ListenChannel interface {
	// FD returns the listening descriptor.
	FD() int

	// Accept takes exactly one pending connection. Returns ErrAgain when
	// the backlog is empty despite a readiness event.
	Accept() (Channel, error)

	// Close releases the listening descriptor.
	Close() error

	// SetNonblock switches the listener to non-blocking mode.
	SetNonblock() error
}
