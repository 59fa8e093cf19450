// File: server/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Internal counters for the server core.

package server

import "go.uber.org/atomic"

// statsCounters holds the core's counters. All fields are updated from
// the dispatch goroutine or from callers of the public surface, so every
// counter is atomic.
type statsCounters struct {
	iterations   atomic.Int64
	wakeups      atomic.Int64
	accepted     atomic.Int64
	closed       atomic.Int64
	bytesRead    atomic.Int64
	bytesWritten atomic.Int64
}

// Stats is a point-in-time snapshot of the core's counters.
type Stats struct {
	DispatchIterations int64 // completed wait/dispatch rounds
	Wakeups            int64 // explicit wakes with no readiness
	Accepted           int64 // connections accepted and registered
	Closed             int64 // connections closed with notification
	BytesRead          int64
	BytesWritten       int64
}

func (c *statsCounters) snapshot() Stats {
	return Stats{
		DispatchIterations: c.iterations.Load(),
		Wakeups:            c.wakeups.Load(),
		Accepted:           c.accepted.Load(),
		Closed:             c.closed.Load(),
		BytesRead:          c.bytesRead.Load(),
		BytesWritten:       c.bytesWritten.Load(),
	}
}
