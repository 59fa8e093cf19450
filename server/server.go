// File: server/server.go
// Author: momentics <momentics@gmail.com>
//
// Base server lifecycle shared by server cores.

package server

import (
	"go.uber.org/atomic"

	"github.com/momentics/lnet/api"
)

// Server carries the collaborators and generic lifecycle every server core
// needs: the processor factory, the event listener, a running flag, and
// optional pre-run/post-close hooks around the core-specific logic.
type Server struct {
	factory api.BufferProcessorFactory
	events  api.EventListener
	running atomic.Bool

	preRun    func()
	postClose func()
}

func newBase(factory api.BufferProcessorFactory, events api.EventListener) *Server {
	return &Server{
		factory: factory,
		events:  events,
	}
}

// Factory returns the per-connection processor factory.
func (s *Server) Factory() api.BufferProcessorFactory { return s.factory }

// EventListener returns the lifecycle notification sink.
func (s *Server) EventListener() api.EventListener { return s.events }

// Running reports whether the core is between startup and shutdown.
func (s *Server) Running() bool { return s.running.Load() }

// startup flips the running flag and fires the pre-run hook once.
func (s *Server) startup() {
	if s.running.CompareAndSwap(false, true) && s.preRun != nil {
		s.preRun()
	}
}

// shutdown flips the running flag back and fires the post-close hook once.
func (s *Server) shutdown() {
	if s.running.CompareAndSwap(true, false) && s.postClose != nil {
		s.postClose()
	}
}
