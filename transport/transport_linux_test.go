//go:build linux
// +build linux

package transport_test

import (
	"errors"
	"testing"

	"github.com/momentics/lnet/api"
	"github.com/momentics/lnet/transport"
)

func TestListenDialLoopback(t *testing.T) {
	ln, err := transport.Listen("127.0.0.1:0", 16)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	addr, err := ln.Addr()
	if err != nil {
		t.Fatalf("addr: %v", err)
	}

	client, err := transport.Dial(addr)
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	defer client.Close()

	// Listener is still blocking here, so Accept waits for the handshake.
	accepted, err := ln.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	defer accepted.Close()

	if err := accepted.SetNoDelay(true); err != nil {
		t.Errorf("set no-delay: %v", err)
	}

	if _, err := client.Write([]byte("ping")); err != nil {
		t.Fatalf("client write: %v", err)
	}
	buf := make([]byte, 16)
	var n int
	for {
		n, err = accepted.Read(buf)
		if errors.Is(err, api.ErrAgain) {
			continue // accepted socket is non-blocking
		}
		break
	}
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf[:n]) != "ping" {
		t.Errorf("read %q, want %q", buf[:n], "ping")
	}
}

func TestChannelCloseIdempotent(t *testing.T) {
	ln, err := transport.Listen("127.0.0.1:0", 1)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr, _ := ln.Addr()
	client, err := transport.Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("first close: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if client.IsOpen() {
		t.Error("channel still open")
	}
	if _, err := client.Read(make([]byte, 1)); !errors.Is(err, api.ErrChannelClosed) {
		t.Errorf("read after close err = %v", err)
	}
	if err := ln.Close(); err != nil {
		t.Errorf("listener close: %v", err)
	}
	if err := ln.Close(); err != nil {
		t.Errorf("listener second close: %v", err)
	}
}

func TestAcceptNonblockReportsAgain(t *testing.T) {
	ln, err := transport.Listen("127.0.0.1:0", 1)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	if err := ln.SetNonblock(); err != nil {
		t.Fatalf("set nonblock: %v", err)
	}
	if _, err := ln.Accept(); !errors.Is(err, api.ErrAgain) {
		t.Errorf("accept on empty backlog err = %v, want ErrAgain", err)
	}
}
