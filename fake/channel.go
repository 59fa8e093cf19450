// File: fake/channel.go
// Author: momentics <momentics@gmail.com>

package fake

import (
	"sync"

	"github.com/momentics/lnet/api"
)

// Channel is an in-memory api.Channel with scripted reads and a per-call
// write capacity limit for exercising backpressure paths.
type Channel struct {
	mu         sync.Mutex
	fd         int
	open       bool
	nonblock   bool
	noDelay    bool
	eof        bool
	reads      [][]byte
	written    []byte
	writeCalls int
	writeLimit int // max bytes accepted per Write call; 0 = unlimited
}

// NewChannel creates an open fake channel keyed by fd.
func NewChannel(fd int) *Channel {
	return &Channel{fd: fd, open: true}
}

// FeedRead scripts one readable segment.
func (c *Channel) FeedRead(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads = append(c.reads, append([]byte(nil), p...))
}

// FeedEOF scripts end-of-stream after the queued segments.
func (c *Channel) FeedEOF() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eof = true
}

// SetWriteLimit caps how many bytes each Write call accepts.
func (c *Channel) SetWriteLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeLimit = n
}

// FD implements api.Channel.
func (c *Channel) FD() int { return c.fd }

// IsOpen implements api.Channel.
func (c *Channel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Read pops the next scripted segment. With nothing scripted it returns
// api.ErrAgain, or (0, nil) once EOF was fed.
func (c *Channel) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return 0, api.ErrChannelClosed
	}
	if len(c.reads) == 0 {
		if c.eof {
			return 0, nil
		}
		return 0, api.ErrAgain
	}
	seg := c.reads[0]
	n := copy(p, seg)
	if n < len(seg) {
		c.reads[0] = seg[n:]
	} else {
		c.reads = c.reads[1:]
	}
	return n, nil
}

// Write accepts up to the configured limit per call.
func (c *Channel) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return 0, api.ErrChannelClosed
	}
	c.writeCalls++
	n := len(p)
	if c.writeLimit > 0 && n > c.writeLimit {
		n = c.writeLimit
	}
	c.written = append(c.written, p[:n]...)
	return n, nil
}

// Written returns everything accepted so far.
func (c *Channel) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.written...)
}

// WriteCalls returns how many Write attempts reached the channel.
func (c *Channel) WriteCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeCalls
}

// Close implements api.Channel. Idempotent.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return nil
}

// SetNonblock implements api.Channel.
func (c *Channel) SetNonblock() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nonblock = true
	return nil
}

// Nonblock reports whether SetNonblock was called.
func (c *Channel) Nonblock() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nonblock
}

// SetNoDelay implements api.Channel.
func (c *Channel) SetNoDelay(noDelay bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.noDelay = noDelay
	return nil
}

// NoDelay reports the last applied no-delay value.
func (c *Channel) NoDelay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.noDelay
}

// ListenSock is an in-memory api.ListenChannel with a scripted backlog.
type ListenSock struct {
	mu       sync.Mutex
	fd       int
	open     bool
	nonblock bool
	backlog  []api.Channel
}

// NewListenSock creates an open fake listener keyed by fd.
func NewListenSock(fd int) *ListenSock {
	return &ListenSock{fd: fd, open: true}
}

// Enqueue scripts one pending connection.
func (l *ListenSock) Enqueue(ch api.Channel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.backlog = append(l.backlog, ch)
}

// FD implements api.ListenChannel.
func (l *ListenSock) FD() int { return l.fd }

// Accept pops one pending connection or reports api.ErrAgain.
func (l *ListenSock) Accept() (api.Channel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return nil, api.ErrChannelClosed
	}
	if len(l.backlog) == 0 {
		return nil, api.ErrAgain
	}
	ch := l.backlog[0]
	l.backlog = l.backlog[1:]
	return ch, nil
}

// Close implements api.ListenChannel. Idempotent.
func (l *ListenSock) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = false
	return nil
}

// SetNonblock implements api.ListenChannel.
func (l *ListenSock) SetNonblock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nonblock = true
	return nil
}
