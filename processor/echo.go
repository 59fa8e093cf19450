// File: processor/echo.go
// Author: momentics <momentics@gmail.com>
//
// Echo processor: every received segment is staged back for transmission.

package processor

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/lnet/api"
	"github.com/momentics/lnet/pool"
)

// Echo is a BufferProcessor that mirrors input back to the peer. Received
// segments are copied into pooled buffers and queued FIFO; the write path
// drains one segment at a time so socket backpressure is honored per
// segment.
type Echo struct {
	mu       sync.Mutex
	input    []byte
	segments *queue.Queue // of []byte, pooled
	cur      []byte       // remaining bytes of the segment being drained
	curBase  []byte       // pool-owned backing slice of cur
	stopping bool
	closed   bool

	pool    *pool.BytePool
	owner   api.Channel
	writeCB api.WriteCallback
}

// NewEcho creates an echo processor drawing its buffers from bp.
func NewEcho(bp *pool.BytePool) *Echo {
	return &Echo{
		input:    bp.GetBuffer(),
		segments: queue.New(),
		pool:     bp,
	}
}

// NewEchoFactory returns a factory producing one Echo per connection.
func NewEchoFactory(bp *pool.BytePool) api.BufferProcessorFactory {
	return api.FactoryFunc(func(api.Channel) api.BufferProcessor {
		return NewEcho(bp)
	})
}

// InputBuffer returns the read target region.
func (p *Echo) InputBuffer() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

// OnInputAvailable stages the first n input bytes for echo and kicks an
// out-of-band write so the reply does not wait for write readiness.
func (p *Echo) OnInputAvailable(n int) {
	p.mu.Lock()
	if p.closed || p.stopping || n <= 0 {
		p.mu.Unlock()
		return
	}
	seg := p.pool.GetBuffer()
	copy(seg, p.input[:n])
	p.segments.Add(seg[:n])
	cb := p.writeCB
	p.mu.Unlock()

	// The callback re-enters OutputBuffer/ConsumeOutput, so it must run
	// outside p.mu.
	if cb != nil {
		cb()
	}
}

// OnBeforeWrite promotes the next queued segment once the current one has
// fully drained.
func (p *Echo) OnBeforeWrite() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if len(p.cur) == 0 && p.segments.Length() > 0 {
		p.recycleCur()
		p.curBase = p.segments.Remove().([]byte)
		p.cur = p.curBase
	}
}

// OutputBuffer returns the unsent remainder of the current segment, or nil
// when nothing is staged.
func (p *Echo) OutputBuffer() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || (len(p.cur) == 0 && p.segments.Length() == 0) {
		return nil
	}
	return p.cur
}

// ConsumeOutput advances the current segment past the n bytes the core
// wrote to the socket.
func (p *Echo) ConsumeOutput(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || n <= 0 {
		return
	}
	if n > len(p.cur) {
		n = len(p.cur)
	}
	p.cur = p.cur[n:]
	if len(p.cur) == 0 {
		p.recycleCur()
	}
}

// PendingSegments reports how many staged segments have not begun
// transmission yet.
func (p *Echo) PendingSegments() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.segments.Length()
}

// FlushThenClose stops accepting new input and makes a best-effort attempt
// to push out what is already staged.
func (p *Echo) FlushThenClose() {
	p.mu.Lock()
	if p.closed || p.stopping {
		p.mu.Unlock()
		return
	}
	p.stopping = true
	cb := p.writeCB
	p.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// CloseImmediately discards pending output and releases pooled buffers.
func (p *Echo) CloseImmediately() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.recycleCur()
	for p.segments.Length() > 0 {
		p.pool.PutBuffer(p.segments.Remove().([]byte))
	}
	if p.input != nil {
		p.pool.PutBuffer(p.input)
		p.input = nil
	}
}

// BindOwner records the channel this processor serves.
func (p *Echo) BindOwner(ch api.Channel) {
	p.mu.Lock()
	p.owner = ch
	p.mu.Unlock()
}

// BindWriteCallback records the out-of-band write hook.
func (p *Echo) BindWriteCallback(cb api.WriteCallback) {
	p.mu.Lock()
	p.writeCB = cb
	p.mu.Unlock()
}

// recycleCur returns the drained segment's backing slice to the pool.
// Caller holds p.mu.
func (p *Echo) recycleCur() {
	if p.curBase != nil {
		p.pool.PutBuffer(p.curBase)
		p.curBase = nil
		p.cur = nil
	}
}
