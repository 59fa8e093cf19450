//go:build !linux
// +build !linux

// File: transport/transport_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without raw-fd socket support.

package transport

import "github.com/momentics/lnet/api"

// SockChannel is unavailable on this platform.
type SockChannel struct{}

// ListenSock is unavailable on this platform.
type ListenSock struct{}

// Listen returns an error on unsupported platforms.
func Listen(addr string, backlog int) (*ListenSock, error) {
	return nil, api.ErrNotSupported
}

// Dial returns an error on unsupported platforms.
func Dial(addr string) (*SockChannel, error) {
	return nil, api.ErrNotSupported
}

func (c *SockChannel) FD() int { return -1 }
func (c *SockChannel) Read([]byte) (int, error) { return 0, api.ErrNotSupported }
func (c *SockChannel) Write([]byte) (int, error) { return 0, api.ErrNotSupported }
func (c *SockChannel) IsOpen() bool { return false }
func (c *SockChannel) Close() error { return api.ErrNotSupported }
func (c *SockChannel) SetNonblock() error { return api.ErrNotSupported }
func (c *SockChannel) SetNoDelay(bool) error { return api.ErrNotSupported }

func (l *ListenSock) FD() int { return -1 }
func (l *ListenSock) Addr() (string, error) { return "", api.ErrNotSupported }
func (l *ListenSock) Accept() (api.Channel, error) { return nil, api.ErrNotSupported }
func (l *ListenSock) Close() error { return api.ErrNotSupported }
func (l *ListenSock) SetNonblock() error { return api.ErrNotSupported }
