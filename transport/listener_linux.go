//go:build linux
// +build linux

// File: transport/listener_linux.go
// Author: momentics <momentics@gmail.com>
//
// Raw-fd TCP listener and dial helpers.

package transport

import (
	"fmt"
	"net"

	"go.uber.org/atomic"
	"golang.org/x/sys/unix"

	"github.com/momentics/lnet/api"
)

// ListenSock is a TCP listening channel over a raw descriptor.
type ListenSock struct {
	fd   int
	open atomic.Bool
}

// Listen binds a TCP listening socket on addr (e.g. ":9000") and returns
// it ready for RegisterAcceptable. The socket starts in blocking mode;
// registration switches it to non-blocking.
func Listen(addr string, backlog int) (*ListenSock, error) {
	sa, err := resolveSockaddr(addr)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("socket create: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("set SO_REUSEADDR: %w", err)
	}
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	l := &ListenSock{fd: fd}
	l.open.Store(true)
	return l, nil
}

// Dial opens a blocking TCP connection, for clients and tests that feed a
// reactor-driven server.
func Dial(addr string) (*SockChannel, error) {
	sa, err := resolveSockaddr(addr)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("socket create: %w", err)
	}
	if err := unix.Connect(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}
	return NewSockChannel(fd), nil
}

// FD returns the listening descriptor.
func (l *ListenSock) FD() int { return l.fd }

// Addr returns the bound address, useful after listening on port 0.
func (l *ListenSock) Addr() (string, error) {
	sa, err := unix.Getsockname(l.fd)
	if err != nil {
		return "", fmt.Errorf("getsockname: %w", err)
	}
	in4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		return "", fmt.Errorf("unexpected sockaddr family")
	}
	ip := net.IP(in4.Addr[:])
	return fmt.Sprintf("%s:%d", ip.String(), in4.Port), nil
}

// Accept takes one pending connection. The accepted socket is already
// non-blocking; api.ErrAgain means the backlog is empty.
func (l *ListenSock) Accept() (api.Channel, error) {
	nfd, _, err := unix.Accept4(l.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, api.ErrAgain
		}
		return nil, fmt.Errorf("accept fd %d: %w", l.fd, err)
	}
	return NewSockChannel(nfd), nil
}

// SetNonblock switches the listener to non-blocking mode.
func (l *ListenSock) SetNonblock() error {
	if err := unix.SetNonblock(l.fd, true); err != nil {
		return fmt.Errorf("set nonblock fd %d: %w", l.fd, err)
	}
	return nil
}

// Close releases the listening descriptor. Idempotent.
func (l *ListenSock) Close() error {
	if !l.open.CompareAndSwap(true, false) {
		return nil
	}
	if err := unix.Close(l.fd); err != nil {
		return fmt.Errorf("close fd %d: %w", l.fd, err)
	}
	return nil
}

func resolveSockaddr(addr string) (unix.Sockaddr, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	sa := &unix.SockaddrInet4{Port: tcpAddr.Port}
	if ip4 := tcpAddr.IP.To4(); ip4 != nil {
		copy(sa.Addr[:], ip4)
	}
	return sa, nil
}
