//go:build linux
// +build linux

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package reactor - Linux epoll(7) implementation.
package reactor

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

type epollReactor struct {
	epfd      int
	mu        sync.Mutex
	callbacks map[int32]FDCallback
}

// NewReactor constructs the epoll-backed Reactor for Linux.
func NewReactor() (Reactor, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("reactor: epoll_create1: %w", err)
	}
	return &epollReactor{
		epfd:      epfd,
		callbacks: make(map[int32]FDCallback),
	}, nil
}

func toEpollMask(events FDEventType) uint32 {
	var mask uint32
	if events&EventRead != 0 {
		mask |= unix.EPOLLIN
	}
	if events&EventWrite != 0 {
		mask |= unix.EPOLLOUT
	}
	return mask
}

func (r *epollReactor) Register(fd uintptr, events FDEventType, cb FDCallback) error {
	ev := unix.EpollEvent{Events: toEpollMask(events), Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, int(fd), &ev); err != nil {
		return fmt.Errorf("reactor: epoll_ctl add: %w", err)
	}
	r.mu.Lock()
	r.callbacks[int32(fd)] = cb
	r.mu.Unlock()
	return nil
}

func (r *epollReactor) Modify(fd uintptr, events FDEventType) error {
	ev := unix.EpollEvent{Events: toEpollMask(events), Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, int(fd), &ev); err != nil {
		return fmt.Errorf("reactor: epoll_ctl mod: %w", err)
	}
	return nil
}

func (r *epollReactor) Unregister(fd uintptr) error {
	// Linux ignores the event argument on EPOLL_CTL_DEL but older kernels
	// require a non-nil pointer.
	err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, int(fd), &unix.EpollEvent{})
	r.mu.Lock()
	delete(r.callbacks, int32(fd))
	r.mu.Unlock()
	if err != nil && err != unix.ENOENT {
		return fmt.Errorf("reactor: epoll_ctl del: %w", err)
	}
	return nil
}

func (r *epollReactor) Poll(timeoutMs int) (int, error) {
	const maxEvents = 256
	var raw [maxEvents]unix.EpollEvent

	n, err := unix.EpollWait(r.epfd, raw[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("reactor: epoll_wait: %w", err)
	}

	for i := 0; i < n; i++ {
		fd := raw[i].Fd
		var events FDEventType
		if raw[i].Events&unix.EPOLLIN != 0 {
			events |= EventRead
		}
		if raw[i].Events&unix.EPOLLOUT != 0 {
			events |= EventWrite
		}
		if raw[i].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			events |= EventError
		}

		r.mu.Lock()
		cb := r.callbacks[fd]
		r.mu.Unlock()
		if cb == nil {
			continue
		}
		func() {
			defer func() { _ = recover() }()
			cb(uintptr(fd), events)
		}()
	}
	return n, nil
}

func (r *epollReactor) Close() error {
	return unix.Close(r.epfd)
}
