// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package node

import (
	"sync"

	"github.com/d5/node-native/api"
)

// timerEntry implements api.Cancelable for a single scheduled callback.
type timerEntry struct {
	mu        sync.Mutex
	due       int64
	fn        func()
	cancelled bool
	fired     bool
	closed    bool
	done      chan struct{}
	err       error
}

// closeDone closes done exactly once, however many of Cancel and
// fireDueTimers race to call it — a fired timer's own callback is free to
// cancel itself (the idle-timeout handler does, via closeConn's cleanup)
// without a second close panicking the loop.
func (t *timerEntry) closeDone() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	close(t.done)
}

func (t *timerEntry) Cancel() error {
	t.mu.Lock()
	alreadyDone := t.cancelled || t.fired
	t.cancelled = true
	if !alreadyDone {
		t.err = api.ErrOperationTimeout // reuse: "cancelled before firing"
	}
	t.mu.Unlock()
	t.closeDone()
	return nil
}

func (t *timerEntry) Done() <-chan struct{} { return t.done }

func (t *timerEntry) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Schedule arranges for fn to run after delayNanos have elapsed on the loop
// clock. Firing happens on the loop's own goroutine, between reactor polls,
// never concurrently with reactor callbacks.
func (n *Node) Schedule(delayNanos int64, fn func()) (api.Cancelable, error) {
	if fn == nil {
		return nil, api.ErrInvalidArgument
	}
	t := &timerEntry{
		due:  n.Now() + delayNanos,
		fn:   fn,
		done: make(chan struct{}),
	}
	n.mu.Lock()
	n.timers = append(n.timers, t)
	n.mu.Unlock()
	return t, nil
}

// Cancel cancels a previously scheduled callback.
func (n *Node) Cancel(c api.Cancelable) error {
	return c.Cancel()
}

func (n *Node) fireDueTimers() {
	now := n.Now()

	n.mu.Lock()
	due := n.timers[:0]
	var ready []*timerEntry
	for _, t := range n.timers {
		t.mu.Lock()
		cancelled := t.cancelled
		t.mu.Unlock()
		if cancelled {
			continue
		}
		if t.due <= now {
			ready = append(ready, t)
			continue
		}
		due = append(due, t)
	}
	n.timers = due
	n.mu.Unlock()

	for _, t := range ready {
		t.mu.Lock()
		t.fired = true
		t.mu.Unlock()
		invokeSafely(t.fn)
		t.closeDone()
	}
}
