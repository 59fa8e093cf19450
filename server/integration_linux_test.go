//go:build linux
// +build linux

package server_test

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/lnet/api"
	"github.com/momentics/lnet/fake"
	"github.com/momentics/lnet/pool"
	"github.com/momentics/lnet/processor"
	"github.com/momentics/lnet/server"
	"github.com/momentics/lnet/transport"
)

// Full stack: epoll demultiplexer, raw TCP sockets, echo processor.
func TestEchoEndToEnd(t *testing.T) {
	bp := pool.NewBytePool(4096)
	lis := fake.NewListener()
	srv, err := server.NewNonblockingServer(processor.NewEchoFactory(bp), lis)
	if err != nil {
		t.Fatalf("server init: %v", err)
	}
	ln, err := transport.Listen("127.0.0.1:0", 16)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if err := srv.RegisterAcceptable(ln); err != nil {
		t.Fatalf("register listener: %v", err)
	}

	done := make(chan struct{})
	go func() {
		srv.Run()
		close(done)
	}()

	addr, err := ln.Addr()
	if err != nil {
		t.Fatalf("addr: %v", err)
	}
	client, err := transport.Dial(addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	// Bound the blocking reads below.
	tv := unix.Timeval{Sec: 2}
	if err := unix.SetsockoptTimeval(client.FD(), unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		t.Fatalf("set rcv timeout: %v", err)
	}

	msg := "hello reactor"
	if _, err := client.Write([]byte(msg)); err != nil {
		t.Fatalf("client write: %v", err)
	}
	got := make([]byte, 0, len(msg))
	buf := make([]byte, 64)
	for len(got) < len(msg) {
		n, err := client.Read(buf)
		if err != nil {
			t.Fatalf("client read after %q: %v", got, err)
		}
		if n == 0 {
			t.Fatalf("connection closed after %q", got)
		}
		got = append(got, buf[:n]...)
	}
	if string(got) != msg {
		t.Errorf("echo = %q, want %q", got, msg)
	}

	if err := srv.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch loop did not stop after close")
	}

	stats := srv.Stats()
	if stats.Accepted != 1 {
		t.Errorf("accepted = %d, want 1", stats.Accepted)
	}
	if stats.BytesRead < int64(len(msg)) || stats.BytesWritten < int64(len(msg)) {
		t.Errorf("byte counters = %+v, want at least %d each way", stats, len(msg))
	}
}

// A blocked wait must return promptly when a second goroutine shuts the
// core down, not only when the next connection arrives.
func TestShutdownInterruptsBlockedWait(t *testing.T) {
	bp := pool.NewBytePool(1024)
	srv, err := server.NewNonblockingServer(processor.NewEchoFactory(bp), fake.NewListener())
	if err != nil {
		t.Fatalf("server init: %v", err)
	}
	ln, err := transport.Listen("127.0.0.1:0", 4)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if err := srv.RegisterAcceptable(ln); err != nil {
		t.Fatalf("register listener: %v", err)
	}

	done := make(chan struct{})
	go func() {
		srv.Run()
		close(done)
	}()
	time.Sleep(20 * time.Millisecond) // let the loop block in wait

	start := time.Now()
	go srv.CloseAllChannels(api.ReasonShutdown, true, false)

	select {
	case <-done:
		t.Fatal("loop exited on bulk close alone; only demux close ends it")
	case <-time.After(100 * time.Millisecond):
	}
	if err := srv.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch loop did not stop")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("shutdown took %v", elapsed)
	}
}
