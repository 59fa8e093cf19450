//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7) demultiplexer with an eventfd(2) wake primitive.

package reactor

import (
	"encoding/binary"
	"fmt"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sys/unix"

	"github.com/momentics/lnet/api"
)

type epollDemux struct {
	epfd   int
	wakeFD int
	open   atomic.Bool

	mu        sync.Mutex
	interests map[int]Interest
}

// NewDemultiplexer opens an epoll instance and registers its wake eventfd.
func NewDemultiplexer() (Demultiplexer, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	wakeFD, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		_ = unix.Close(epfd)
		return nil, fmt.Errorf("eventfd create: %w", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakeFD)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakeFD, &ev); err != nil {
		_ = unix.Close(wakeFD)
		_ = unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add wake fd: %w", err)
	}
	d := &epollDemux{
		epfd:      epfd,
		wakeFD:    wakeFD,
		interests: make(map[int]Interest),
	}
	d.open.Store(true)
	return d, nil
}

func epollMask(interest Interest) uint32 {
	var events uint32
	if interest.Has(Accept) || interest.Has(Read) {
		events |= unix.EPOLLIN
	}
	if interest.Has(Write) {
		events |= unix.EPOLLOUT
	}
	return events
}

// Add registers fd with the given interest mask.
func (d *epollDemux) Add(fd int, interest Interest) error {
	if !d.open.Load() {
		return api.ErrDemuxClosed
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.interests[fd]; dup {
		return api.ErrAlreadyRegistered
	}
	ev := unix.EpollEvent{Events: epollMask(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(d.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	d.interests[fd] = interest
	return nil
}

// Modify replaces the interest mask of a registered fd.
func (d *epollDemux) Modify(fd int, interest Interest) error {
	if !d.open.Load() {
		return api.ErrDemuxClosed
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.interests[fd]; !ok {
		return api.ErrNotRegistered
	}
	ev := unix.EpollEvent{Events: epollMask(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(d.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl mod: %w", err)
	}
	d.interests[fd] = interest
	return nil
}

// Remove cancels the registration of fd.
func (d *epollDemux) Remove(fd int) error {
	if !d.open.Load() {
		return api.ErrDemuxClosed
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.interests[fd]; !ok {
		return api.ErrNotRegistered
	}
	delete(d.interests, fd)
	if err := unix.EpollCtl(d.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	return nil
}

// Wait blocks until readiness or wake. Wake events are drained and not
// reported; an interrupted wait returns (0, nil).
func (d *epollDemux) Wait(events []Event) (int, error) {
	if !d.open.Load() {
		return 0, api.ErrDemuxClosed
	}
	raw := make([]unix.EpollEvent, len(events))
	n, err := unix.EpollWait(d.epfd, raw, -1)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		if !d.open.Load() {
			return 0, api.ErrDemuxClosed
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}
	out := 0
	for i := 0; i < n; i++ {
		fd := int(raw[i].Fd)
		if fd == d.wakeFD {
			d.drainWake()
			continue
		}
		var ready Interest
		if raw[i].Events&(unix.EPOLLIN|unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			ready = ready.With(Read)
		}
		if raw[i].Events&unix.EPOLLOUT != 0 {
			ready = ready.With(Write)
		}
		events[out] = Event{FD: fd, Ready: ready}
		out++
	}
	return out, nil
}

// Wake posts one eventfd tick, forcing a blocked Wait to return.
func (d *epollDemux) Wake() error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(d.wakeFD, buf[:])
	if err != nil && err != unix.EAGAIN {
		return fmt.Errorf("eventfd write: %w", err)
	}
	return nil
}

func (d *epollDemux) drainWake() {
	var buf [8]byte
	for {
		if _, err := unix.Read(d.wakeFD, buf[:]); err != nil {
			return
		}
	}
}

// IsOpen reports whether Close has not been called.
func (d *epollDemux) IsOpen() bool {
	return d.open.Load()
}

// Close marks the demultiplexer closed, unblocks any waiter, and releases
// both descriptors. Idempotent.
func (d *epollDemux) Close() error {
	if !d.open.CompareAndSwap(true, false) {
		return nil
	}
	_ = d.Wake()
	d.mu.Lock()
	d.interests = make(map[int]Interest)
	d.mu.Unlock()
	err := unix.Close(d.wakeFD)
	if cerr := unix.Close(d.epfd); err == nil {
		err = cerr
	}
	return err
}
