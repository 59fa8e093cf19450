//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without a supported readiness facility.

package reactor

import "github.com/momentics/lnet/api"

// NewDemultiplexer returns an error on unsupported platforms.
func NewDemultiplexer() (Demultiplexer, error) {
	return nil, api.ErrNotSupported
}
