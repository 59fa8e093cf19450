//go:build linux
// +build linux

package reactor_test

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/lnet/api"
	"github.com/momentics/lnet/reactor"
)

func newDemux(t *testing.T) reactor.Demultiplexer {
	t.Helper()
	d, err := reactor.NewDemultiplexer()
	if err != nil {
		t.Fatalf("demux init: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func socketPair(t *testing.T) (int, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	t.Cleanup(func() {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func TestWakeUnblocksWait(t *testing.T) {
	d := newDemux(t)
	returned := make(chan struct{})
	go func() {
		events := make([]reactor.Event, 8)
		n, err := d.Wait(events)
		if err != nil {
			t.Errorf("wait: %v", err)
		}
		if n != 0 {
			t.Errorf("wake produced %d events, want 0", n)
		}
		close(returned)
	}()

	time.Sleep(10 * time.Millisecond) // let the goroutine block
	if err := d.Wake(); err != nil {
		t.Fatalf("wake: %v", err)
	}
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return after wake")
	}
}

func TestReadinessDelivery(t *testing.T) {
	d := newDemux(t)
	rd, wr := socketPair(t)

	if err := d.Add(rd, reactor.Read); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := unix.Write(wr, []byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}

	events := make([]reactor.Event, 8)
	n, err := d.Wait(events)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if n != 1 || events[0].FD != rd || !events[0].Ready.Has(reactor.Read) {
		t.Fatalf("events = %+v (n=%d), want read readiness on fd %d", events[:n], n, rd)
	}

	// Enabling write interest on an idle socket reports writable.
	if err := d.Modify(rd, reactor.Read.With(reactor.Write)); err != nil {
		t.Fatalf("modify: %v", err)
	}
	n, err = d.Wait(events)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	var sawWrite bool
	for i := 0; i < n; i++ {
		if events[i].FD == rd && events[i].Ready.Has(reactor.Write) {
			sawWrite = true
		}
	}
	if !sawWrite {
		t.Fatalf("no write readiness after interest change, events = %+v", events[:n])
	}

	if err := d.Remove(rd); err != nil {
		t.Fatalf("remove: %v", err)
	}
}

func TestRegistrationErrors(t *testing.T) {
	d := newDemux(t)
	rd, _ := socketPair(t)

	if err := d.Add(rd, reactor.Read); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := d.Add(rd, reactor.Read); !errors.Is(err, api.ErrAlreadyRegistered) {
		t.Errorf("duplicate add err = %v, want ErrAlreadyRegistered", err)
	}
	if err := d.Modify(rd+1000, reactor.Read); !errors.Is(err, api.ErrNotRegistered) {
		t.Errorf("modify unknown err = %v, want ErrNotRegistered", err)
	}
	if err := d.Remove(rd + 1000); !errors.Is(err, api.ErrNotRegistered) {
		t.Errorf("remove unknown err = %v, want ErrNotRegistered", err)
	}
}

func TestCloseUnblocksWait(t *testing.T) {
	d := newDemux(t)
	returned := make(chan error, 1)
	go func() {
		events := make([]reactor.Event, 8)
		_, err := d.Wait(events)
		returned <- err
	}()

	time.Sleep(10 * time.Millisecond)
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case err := <-returned:
		if !errors.Is(err, api.ErrDemuxClosed) {
			// The wake may race ahead of the closed flag; a clean zero
			// return followed by a closed error is also acceptable.
			events := make([]reactor.Event, 1)
			if _, err2 := d.Wait(events); !errors.Is(err2, api.ErrDemuxClosed) {
				t.Errorf("wait after close err = %v / %v, want ErrDemuxClosed", err, err2)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return after close")
	}
	if d.IsOpen() {
		t.Error("demux still open after close")
	}
}
