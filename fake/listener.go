// File: fake/listener.go
// Author: momentics <momentics@gmail.com>

package fake

import (
	"sync"

	"github.com/momentics/lnet/api"
)

// ClosedEvent is one recorded OnChannelClosed notification.
type ClosedEvent struct {
	Ch     api.Channel
	Reason api.CloseReason
}

// Listener records every notification the core emits.
type Listener struct {
	mu     sync.Mutex
	errs   []error
	opened []api.Channel
	closed []ClosedEvent
}

// NewListener creates an empty recording listener.
func NewListener() *Listener {
	return &Listener{}
}

// OnError implements api.EventListener.
func (l *Listener) OnError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

// OnChannelOpen implements api.EventListener.
func (l *Listener) OnChannelOpen(ch api.Channel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opened = append(l.opened, ch)
}

// OnChannelClosed implements api.EventListener.
func (l *Listener) OnChannelClosed(ch api.Channel, reason api.CloseReason) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = append(l.closed, ClosedEvent{Ch: ch, Reason: reason})
}

// Errors returns the recorded errors.
func (l *Listener) Errors() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]error(nil), l.errs...)
}

// Opened returns the recorded open notifications.
func (l *Listener) Opened() []api.Channel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]api.Channel(nil), l.opened...)
}

// Closed returns the recorded close notifications.
func (l *Listener) Closed() []ClosedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ClosedEvent(nil), l.closed...)
}
