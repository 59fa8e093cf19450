// File: reactor/interest.go
// Author: momentics <momentics@gmail.com>

package reactor

// Interest is the set of readiness kinds a channel is registered for.
// The named With/Without/Has operations replace raw mask arithmetic at
// call sites.
type Interest uint32

const (
	// Accept marks a listening channel waiting for pending connections.
	Accept Interest = 1 << iota
	// Read marks a data channel waiting for readable bytes.
	Read
	// Write marks a data channel waiting for the socket to accept more
	// output. Enabled only while a prior write left bytes pending.
	Write
)

// With returns the mask with the given bits set.
func (i Interest) With(bits Interest) Interest { return i | bits }

// Without returns the mask with the given bits cleared.
func (i Interest) Without(bits Interest) Interest { return i &^ bits }

// Has reports whether all given bits are set.
func (i Interest) Has(bits Interest) bool { return i&bits == bits }

// Event is one readiness notification produced by Wait.
type Event struct {
	FD    int
	Ready Interest
}
