// File: server/doc.go
// Author: momentics <momentics@gmail.com>

// Package server implements the lnet nonblocking server core: a single
// dispatch goroutine multiplexes all registered channels over one
// readiness demultiplexer, routes accept/read/write events to the attached
// buffer processors, and coordinates orderly or abrupt teardown of
// individual connections or the whole registry.
package server
