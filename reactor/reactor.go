// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral readiness demultiplexer interface.

package reactor

// Demultiplexer blocks until at least one registered descriptor is ready
// or an explicit wake arrives. All methods except Wait are safe to call
// from any goroutine; Wait is reserved for the single dispatch goroutine.
type Demultiplexer interface {
	// Add registers a descriptor with the given interest mask.
	Add(fd int, interest Interest) error

	// Modify replaces the interest mask of a registered descriptor.
	Modify(fd int, interest Interest) error

	// Remove cancels a descriptor's registration. A readiness event
	// already in flight for the descriptor may still be delivered once;
	// callers re-check validity before acting on it.
	Remove(fd int) error

	// Wait blocks until readiness or wake, fills events, and returns the
	// number of entries written. A wake with no pending readiness yields
	// (0, nil).
	Wait(events []Event) (n int, err error)

	// Wake forces a blocked Wait to return promptly.
	Wake() error

	// IsOpen reports whether Close has not been called yet.
	IsOpen() bool

	// Close releases the facility and unblocks any in-flight Wait, which
	// then fails with api.ErrDemuxClosed.
	Close() error
}
