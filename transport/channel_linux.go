//go:build linux
// +build linux

// File: transport/channel_linux.go
// Author: momentics <momentics@gmail.com>
//
// Raw-fd TCP data channel.

package transport

import (
	"fmt"

	"go.uber.org/atomic"
	"golang.org/x/sys/unix"

	"github.com/momentics/lnet/api"
)

// SockChannel is a TCP data channel over a raw descriptor.
type SockChannel struct {
	fd   int
	open atomic.Bool
}

// NewSockChannel wraps an already connected socket descriptor.
func NewSockChannel(fd int) *SockChannel {
	c := &SockChannel{fd: fd}
	c.open.Store(true)
	return c
}

// FD returns the socket descriptor.
func (c *SockChannel) FD() int { return c.fd }

// IsOpen reports whether Close has not been called.
func (c *SockChannel) IsOpen() bool { return c.open.Load() }

// Read fills p with available bytes. (0, nil) means end of stream;
// api.ErrAgain means no bytes are available right now.
func (c *SockChannel) Read(p []byte) (int, error) {
	if !c.open.Load() {
		return 0, api.ErrChannelClosed
	}
	n, err := unix.Read(c.fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, api.ErrAgain
		}
		return 0, fmt.Errorf("read fd %d: %w", c.fd, err)
	}
	return n, nil
}

// Write sends as many bytes of p as the socket accepts. A short count with
// nil error signals backpressure; api.ErrAgain signals a full send buffer
// with nothing written.
func (c *SockChannel) Write(p []byte) (int, error) {
	if !c.open.Load() {
		return 0, api.ErrChannelClosed
	}
	n, err := unix.Write(c.fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, api.ErrAgain
		}
		return 0, fmt.Errorf("write fd %d: %w", c.fd, err)
	}
	return n, nil
}

// SetNonblock switches the socket to non-blocking mode.
func (c *SockChannel) SetNonblock() error {
	if err := unix.SetNonblock(c.fd, true); err != nil {
		return fmt.Errorf("set nonblock fd %d: %w", c.fd, err)
	}
	return nil
}

// SetNoDelay toggles TCP_NODELAY.
func (c *SockChannel) SetNoDelay(noDelay bool) error {
	v := 0
	if noDelay {
		v = 1
	}
	if err := unix.SetsockoptInt(c.fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, v); err != nil {
		return fmt.Errorf("set TCP_NODELAY fd %d: %w", c.fd, err)
	}
	return nil
}

// Close releases the descriptor. Idempotent.
func (c *SockChannel) Close() error {
	if !c.open.CompareAndSwap(true, false) {
		return nil
	}
	if err := unix.Close(c.fd); err != nil {
		return fmt.Errorf("close fd %d: %w", c.fd, err)
	}
	return nil
}
