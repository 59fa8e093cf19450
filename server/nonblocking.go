// File: server/nonblocking.go
// Author: momentics <momentics@gmail.com>
//
// The readiness-driven server core: dispatch loop, accept/read/write
// handlers, registration, interest-mask bookkeeping and close semantics.

package server

import (
	"errors"
	"io"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/momentics/lnet/api"
	"github.com/momentics/lnet/reactor"
)

// NonblockingServer multiplexes all registered channels over one
// demultiplexer and drives them from a single Run goroutine. Registration
// and close operations are safe to call from any goroutine.
type NonblockingServer struct {
	*Server

	cfg   *Config
	demux reactor.Demultiplexer
	log   *zap.Logger

	// closeMu serializes bulk closes against concurrent registrations;
	// it is always acquired before mu.
	closeMu sync.Mutex

	mu       sync.Mutex
	registry map[int]*entry

	noDelay atomic.Bool
	stats   statsCounters
}

// NewNonblockingServer builds the core around the given processor factory
// and event listener. A nil listener falls back to a LoggingListener on the
// configured logger. The platform demultiplexer is opened unless one is
// injected via WithDemultiplexer.
func NewNonblockingServer(factory api.BufferProcessorFactory, events api.EventListener, opts ...Option) (*NonblockingServer, error) {
	s := &NonblockingServer{
		cfg:      DefaultConfig(),
		registry: make(map[int]*entry),
	}
	s.Server = newBase(factory, events)
	for _, o := range opts {
		o(s)
	}
	if s.demux == nil {
		d, err := reactor.NewDemultiplexer()
		if err != nil {
			return nil, err
		}
		s.demux = d
	}
	s.log = s.cfg.Logger
	if s.events == nil {
		s.events = NewLoggingListener(s.log)
	}
	s.noDelay.Store(s.cfg.NoDelay)
	return s, nil
}

// Run enters the dispatch loop and blocks for as long as the demultiplexer
// stays open. Per-channel failures are reported through the listener and
// never terminate the loop.
func (s *NonblockingServer) Run() {
	s.startup()
	s.log.Info("dispatch loop started")
	events := make([]reactor.Event, s.cfg.EventBatchSize)
	for s.demux.IsOpen() {
		n, err := s.demux.Wait(events)
		if err != nil {
			if errors.Is(err, api.ErrDemuxClosed) {
				break
			}
			s.events.OnError(err)
			continue
		}
		s.stats.iterations.Inc()
		if n == 0 {
			// Explicit wake with nothing ready.
			s.stats.wakeups.Inc()
			continue
		}
		for i := 0; i < n; i++ {
			s.dispatch(events[i])
		}
	}
	s.log.Info("dispatch loop stopped")
}

// dispatch routes one readiness event. Validity is re-checked under the
// registry lock immediately before acting: an entry canceled between the
// wait returning and this point is finalized abruptly instead of
// dispatched.
func (s *NonblockingServer) dispatch(ev reactor.Event) {
	s.mu.Lock()
	e, ok := s.registry[ev.FD]
	if !ok {
		// Canceled concurrently; teardown already ran.
		s.mu.Unlock()
		return
	}
	if !e.valid {
		s.mu.Unlock()
		s.CloseChannel(ev.FD, api.ReasonNone, false)
		return
	}
	s.mu.Unlock()

	if e.kind == entryListener {
		if ev.Ready.Has(reactor.Read) {
			s.accept(e)
		}
		return
	}
	// Read before write when both are ready in one iteration.
	if ev.Ready.Has(reactor.Read) {
		s.readConn(e)
	}
	if ev.Ready.Has(reactor.Write) {
		s.writeConn(e)
	}
}

// accept takes exactly one pending connection from a ready listener and
// registers it read-interested. The loop revisits the listener on the next
// iteration if more connections are pending.
func (s *NonblockingServer) accept(e *entry) {
	ch, err := e.ln.Accept()
	if err != nil {
		if errors.Is(err, api.ErrAgain) {
			return
		}
		s.events.OnError(err)
		return
	}
	if err := s.RegisterReadable(ch); err != nil {
		// Already reported; the channel stays unregistered and is dropped.
		_ = ch.Close()
		return
	}
	s.stats.accepted.Inc()
	s.events.OnChannelOpen(ch)
}

// readConn drains readable bytes into the processor's input region and
// fires the input hook. End-of-stream and read errors are passed through
// to the listener; the connection is deliberately left open — the
// processor or listener decides whether to close.
func (s *NonblockingServer) readConn(e *entry) {
	c := e.conn
	buf := c.proc.InputBuffer()
	if len(buf) == 0 {
		return
	}
	n, err := c.ch.Read(buf)
	if err != nil {
		if errors.Is(err, api.ErrAgain) || errors.Is(err, api.ErrChannelClosed) {
			return
		}
		s.events.OnError(err)
		return
	}
	if n == 0 {
		s.events.OnError(io.EOF)
		return
	}
	s.stats.bytesRead.Add(int64(n))
	c.proc.OnInputAvailable(n)
}

// writeConn attempts to drain the processor's staged output, invoked from
// write-readiness dispatch or from the processor's out-of-band write
// callback. Reports true exactly when the output fully drained.
func (s *NonblockingServer) writeConn(e *entry) bool {
	c := e.conn
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.proc.OnBeforeWrite()
	out := c.proc.OutputBuffer()
	if out == nil {
		return true
	}
	if len(out) == 0 {
		// Fully drained earlier; make sure write interest is off.
		s.setWriteInterest(e, false)
		return true
	}
	if !c.ch.IsOpen() {
		return true
	}
	n, err := c.ch.Write(out)
	if err != nil {
		if errors.Is(err, api.ErrAgain) {
			s.setWriteInterest(e, true)
			return false
		}
		s.events.OnError(err)
		return false
	}
	if n > 0 {
		c.proc.ConsumeOutput(n)
		s.stats.bytesWritten.Add(int64(n))
	}
	busy := n < len(out)
	s.setWriteInterest(e, busy)
	return !busy
}

// setWriteInterest toggles the WRITE bit of a connection's interest mask.
// READ stays set for the lifetime of the registration.
func (s *NonblockingServer) setWriteInterest(e *entry, on bool) {
	s.mu.Lock()
	if !e.valid {
		s.mu.Unlock()
		return
	}
	next := e.interest.Without(reactor.Write)
	if on {
		next = e.interest.With(reactor.Write)
	}
	if next == e.interest {
		s.mu.Unlock()
		return
	}
	err := s.demux.Modify(e.fd, next)
	if err == nil {
		e.interest = next
	}
	s.mu.Unlock()
	if err != nil {
		s.events.OnError(err)
	}
}

// RegisterReadable switches a data channel to non-blocking mode, registers
// it with READ interest, applies the current no-delay toggle, and attaches
// a freshly created buffer processor wired with the out-of-band write
// callback. On registration failure the channel is left unregistered.
func (s *NonblockingServer) RegisterReadable(ch api.Channel) error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if err := ch.SetNonblock(); err != nil {
		s.events.OnError(err)
		return err
	}
	// Option failures are reported but do not abort registration.
	if err := ch.SetNoDelay(s.noDelay.Load()); err != nil {
		s.events.OnError(err)
	}

	e := &entry{
		kind:     entryConn,
		fd:       ch.FD(),
		interest: reactor.Read,
		valid:    true,
		conn:     &conn{ch: ch},
	}

	s.mu.Lock()
	if _, dup := s.registry[e.fd]; dup {
		s.mu.Unlock()
		s.events.OnError(api.ErrAlreadyRegistered)
		return api.ErrAlreadyRegistered
	}
	if err := s.demux.Add(e.fd, e.interest); err != nil {
		s.mu.Unlock()
		s.events.OnError(err)
		return err
	}
	// Attach the processor only after the registration itself succeeded,
	// and before the entry becomes dispatchable.
	proc := s.factory.NewBufferProcessor(ch)
	proc.BindOwner(ch)
	proc.BindWriteCallback(func() bool { return s.writeConn(e) })
	e.conn.proc = proc
	s.registry[e.fd] = e
	s.mu.Unlock()

	s.log.Debug("channel registered", zap.Int("fd", e.fd))
	return nil
}

// RegisterAcceptable registers a listening channel with ACCEPT interest
// only. No processor is attached.
func (s *NonblockingServer) RegisterAcceptable(ln api.ListenChannel) error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if err := ln.SetNonblock(); err != nil {
		s.events.OnError(err)
		return err
	}

	e := &entry{
		kind:     entryListener,
		fd:       ln.FD(),
		interest: reactor.Accept,
		valid:    true,
		ln:       ln,
	}

	s.mu.Lock()
	if _, dup := s.registry[e.fd]; dup {
		s.mu.Unlock()
		s.events.OnError(api.ErrAlreadyRegistered)
		return api.ErrAlreadyRegistered
	}
	if err := s.demux.Add(e.fd, e.interest); err != nil {
		s.mu.Unlock()
		s.events.OnError(err)
		return err
	}
	s.registry[e.fd] = e
	s.mu.Unlock()

	s.log.Debug("listener registered", zap.Int("fd", e.fd))
	return nil
}

// ConfigureNoDelay sets the process-wide no-delay toggle. It affects
// future registrations only.
func (s *NonblockingServer) ConfigureNoDelay(noDelay bool) {
	s.noDelay.Store(noDelay)
}

// NoDelay returns the current no-delay toggle.
func (s *NonblockingServer) NoDelay() bool {
	return s.noDelay.Load()
}

// CloseChannel cancels the registration of fd, closes the underlying
// channel, and runs processor teardown — flush-then-close when flush is
// set, abrupt otherwise. The listener is notified exactly once per
// connection: a second close of the same fd is a no-op.
func (s *NonblockingServer) CloseChannel(fd int, reason api.CloseReason, flush bool) {
	s.mu.Lock()
	e, ok := s.registry[fd]
	if !ok {
		s.mu.Unlock()
		return
	}
	alreadyInvalid := !e.valid
	e.valid = false
	delete(s.registry, fd)
	derr := s.demux.Remove(fd)
	if derr != nil && (errors.Is(derr, api.ErrNotRegistered) || errors.Is(derr, api.ErrDemuxClosed)) {
		derr = nil
	}
	s.mu.Unlock()

	if derr != nil {
		s.events.OnError(derr)
	}

	var cerr error
	if e.kind == entryListener {
		cerr = e.ln.Close()
	} else {
		cerr = e.conn.ch.Close()
	}
	if cerr != nil {
		s.events.OnError(cerr)
	}

	if e.kind == entryConn {
		if flush {
			e.conn.proc.FlushThenClose()
		} else {
			e.conn.proc.CloseImmediately()
		}
		if !alreadyInvalid {
			s.stats.closed.Inc()
			s.log.Debug("channel closed",
				zap.Int("fd", fd), zap.String("reason", string(reason)))
			s.events.OnChannelClosed(e.conn.ch, reason)
		}
	}
}

// CloseAllChannels closes every registered channel with the same reason
// and flush policy. With immediately set, the demultiplexer is woken first
// so a blocked wait returns promptly. Concurrent registrations are
// excluded for the duration of the sweep.
func (s *NonblockingServer) CloseAllChannels(reason api.CloseReason, immediately, flush bool) {
	if immediately {
		if err := s.demux.Wake(); err != nil {
			s.events.OnError(err)
		}
	}

	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	s.mu.Lock()
	fds := make([]int, 0, len(s.registry))
	for fd := range s.registry {
		fds = append(fds, fd)
	}
	s.mu.Unlock()

	for _, fd := range fds {
		s.CloseChannel(fd, reason, flush)
	}
}

// Close performs immediate full shutdown: every channel is closed
// abruptly with ReasonNone, the demultiplexer is closed (terminating the
// dispatch loop), and the base lifecycle finishes teardown.
func (s *NonblockingServer) Close() error {
	s.CloseAllChannels(api.ReasonNone, true, false)
	err := s.demux.Close()
	s.shutdown()
	return err
}

// CloseAfterSelect performs deferred full shutdown: the sweep does not
// wake the demultiplexer, so an in-flight wait/dispatch round completes
// first; closing the demultiplexer then ends the loop.
func (s *NonblockingServer) CloseAfterSelect(reason api.CloseReason, flush bool) error {
	s.CloseAllChannels(reason, false, flush)
	err := s.demux.Close()
	s.shutdown()
	return err
}

// Stats returns a snapshot of the core's counters.
func (s *NonblockingServer) Stats() Stats {
	return s.stats.snapshot()
}
