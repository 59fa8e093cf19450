// File: fake/demux.go
// Author: momentics <momentics@gmail.com>

package fake

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/momentics/lnet/api"
	"github.com/momentics/lnet/reactor"
)

// Demux is a reactor.Demultiplexer driven by the test: batches of
// readiness events are injected with Emit and handed out by Wait.
type Demux struct {
	open    atomic.Bool
	batches chan []reactor.Event
	wakes   atomic.Int64

	mu        sync.Mutex
	interests map[int]reactor.Interest
}

// NewDemux creates an open fake demultiplexer.
func NewDemux() *Demux {
	d := &Demux{
		batches:   make(chan []reactor.Event, 64),
		interests: make(map[int]reactor.Interest),
	}
	d.open.Store(true)
	return d
}

// Emit queues one batch of readiness events for the next Wait call.
func (d *Demux) Emit(events ...reactor.Event) {
	if !d.open.Load() {
		return
	}
	d.batches <- events
}

// Add implements reactor.Demultiplexer.
func (d *Demux) Add(fd int, interest reactor.Interest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.interests[fd]; dup {
		return api.ErrAlreadyRegistered
	}
	d.interests[fd] = interest
	return nil
}

// Modify implements reactor.Demultiplexer.
func (d *Demux) Modify(fd int, interest reactor.Interest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.interests[fd]; !ok {
		return api.ErrNotRegistered
	}
	d.interests[fd] = interest
	return nil
}

// Remove implements reactor.Demultiplexer.
func (d *Demux) Remove(fd int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.interests[fd]; !ok {
		return api.ErrNotRegistered
	}
	delete(d.interests, fd)
	return nil
}

// Wait blocks until Emit, Wake or Close.
func (d *Demux) Wait(events []reactor.Event) (int, error) {
	if !d.open.Load() {
		return 0, api.ErrDemuxClosed
	}
	batch, ok := <-d.batches
	if !ok || !d.open.Load() {
		return 0, api.ErrDemuxClosed
	}
	n := copy(events, batch)
	return n, nil
}

// Wake unblocks Wait with an empty batch.
func (d *Demux) Wake() error {
	d.wakes.Inc()
	if !d.open.Load() {
		return nil
	}
	select {
	case d.batches <- nil:
	default:
	}
	return nil
}

// IsOpen implements reactor.Demultiplexer.
func (d *Demux) IsOpen() bool { return d.open.Load() }

// Close marks the demultiplexer closed and unblocks Wait.
func (d *Demux) Close() error {
	if !d.open.CompareAndSwap(true, false) {
		return nil
	}
	close(d.batches)
	return nil
}

// Interest returns the currently registered mask for fd.
func (d *Demux) Interest(fd int) (reactor.Interest, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i, ok := d.interests[fd]
	return i, ok
}

// Registered returns the number of registered descriptors.
func (d *Demux) Registered() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.interests)
}

// Wakes returns how many times Wake was called.
func (d *Demux) Wakes() int64 { return d.wakes.Load() }
