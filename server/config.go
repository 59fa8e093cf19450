// File: server/config.go
// Author: momentics <momentics@gmail.com>
//
// Configuration and functional options for the nonblocking server core.

package server

import (
	"go.uber.org/zap"

	"github.com/momentics/lnet/reactor"
)

// Config holds the tunables of the nonblocking server core.
type Config struct {
	EventBatchSize int         // readiness events drained per wait call
	NoDelay        bool        // initial TCP_NODELAY toggle for new registrations
	Logger         *zap.Logger // internal structured logging; nop by default
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		EventBatchSize: 128,
		NoDelay:        false,
		Logger:         zap.NewNop(),
	}
}

// Option customizes a NonblockingServer at construction time.
type Option func(*NonblockingServer)

// WithEventBatchSize overrides the per-wait readiness batch size.
func WithEventBatchSize(n int) Option {
	return func(s *NonblockingServer) {
		if n > 0 {
			s.cfg.EventBatchSize = n
		}
	}
}

// WithNoDelay sets the initial no-delay toggle.
func WithNoDelay(noDelay bool) Option {
	return func(s *NonblockingServer) {
		s.cfg.NoDelay = noDelay
	}
}

// WithLogger injects a zap logger for the core's own diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(s *NonblockingServer) {
		if log != nil {
			s.cfg.Logger = log
		}
	}
}

// WithDemultiplexer injects a demultiplexer, replacing the platform
// default. Used by tests to drive the dispatch loop with a fake.
func WithDemultiplexer(d reactor.Demultiplexer) Option {
	return func(s *NonblockingServer) {
		s.demux = d
	}
}

// WithPreRunHook registers a hook fired once when Run starts.
func WithPreRunHook(fn func()) Option {
	return func(s *NonblockingServer) {
		s.preRun = fn
	}
}

// WithPostCloseHook registers a hook fired once after full shutdown.
func WithPostCloseHook(fn func()) Option {
	return func(s *NonblockingServer) {
		s.postClose = fn
	}
}
