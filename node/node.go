// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package node

import (
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/d5/node-native/api"
	"github.com/d5/node-native/internal/logging"
	"github.com/d5/node-native/reactor"
)

// idlePollMs bounds how long a loop iteration blocks in the reactor when no
// tick is pending and no timer is due, so timers still fire with reasonable
// granularity even on an otherwise quiet loop.
const idlePollMs = 50

// Node is the loop singleton: one reactor, one next-tick queue, one set of
// timers. It is not safe to run more than one Node concurrently — exactly
// like native::detail::node, which binds to uv_default_loop().
type Node struct {
	mu         sync.Mutex
	reactor    reactor.Reactor
	tickQueue  *queue.Queue
	needTick   bool
	startTime  time.Time
	timers     []*timerEntry
	stopCh     chan struct{}
	stopped    bool
	runOnce    sync.Once
}

var (
	instance     *Node
	instanceOnce sync.Once
)

// Default returns the process-wide Node, creating it on first use.
func Default() *Node {
	instanceOnce.Do(func() {
		instance = &Node{
			tickQueue: queue.New(),
			stopCh:    make(chan struct{}),
		}
	})
	return instance
}

// Reactor exposes the underlying reactor so Stream/Handle can register fds.
func (n *Node) Reactor() reactor.Reactor {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reactor
}

// Start initializes the loop and runs logic before entering Run, matching
// native::detail::node::start: init(), then logic(), then the poll loop.
func Start(logic func()) error {
	if logic == nil {
		panic("node: Start requires a non-nil logic function")
	}
	n := Default()
	if err := n.init(); err != nil {
		return err
	}
	logic()
	return n.Run()
}

func (n *Node) init() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.reactor != nil {
		return nil
	}
	r, err := reactor.NewReactor()
	if err != nil {
		return err
	}
	n.reactor = r
	n.startTime = time.Now()
	return nil
}

// Run drives the loop until Stop is called or the reactor reports an error.
func (n *Node) Run() error {
	for {
		select {
		case <-n.stopCh:
			return nil
		default:
		}

		n.tick()
		n.fireDueTimers()

		timeout := idlePollMs
		n.mu.Lock()
		needTick := n.needTick
		n.mu.Unlock()
		if needTick {
			timeout = 0
		}

		r := n.Reactor()
		if r == nil {
			return nil
		}
		if _, err := r.Poll(timeout); err != nil {
			return err
		}

		n.tick()
	}
}

// Stop ends the loop at its next iteration boundary. Idempotent.
func (n *Node) Stop() {
	n.runOnce.Do(func() { close(n.stopCh) })
}

// AddTickCallback schedules callback to run on the next loop tick,
// equivalent to native::detail::node::add_tick_callback / process.nextTick.
func (n *Node) AddTickCallback(callback func()) {
	n.mu.Lock()
	n.tickQueue.Add(callback)
	n.needTick = true
	n.mu.Unlock()
}

// tick drains the next-tick queue. A panicking callback stops further
// processing for this tick, leaving whatever remains in the queue for the
// next one — the Go analogue of node::tick()'s catch-and-truncate loop.
func (n *Node) tick() {
	n.mu.Lock()
	if !n.needTick {
		n.mu.Unlock()
		return
	}
	n.needTick = false
	n.mu.Unlock()

	for {
		n.mu.Lock()
		if n.tickQueue.Length() == 0 {
			n.mu.Unlock()
			break
		}
		cb := n.tickQueue.Remove().(func())
		n.mu.Unlock()

		if !invokeSafely(cb) {
			n.mu.Lock()
			if n.tickQueue.Length() > 0 {
				n.needTick = true
			}
			n.mu.Unlock()
			break
		}
	}
}

func invokeSafely(cb func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.L().WithField("panic", r).Error("node: next-tick callback panicked")
			ok = false
		}
	}()
	cb()
	return true
}

// Now returns nanoseconds elapsed since the loop started, satisfying
// api.Scheduler.
func (n *Node) Now() int64 {
	n.mu.Lock()
	start := n.startTime
	n.mu.Unlock()
	if start.IsZero() {
		return 0
	}
	return time.Since(start).Nanoseconds()
}

var _ api.Scheduler = (*Node)(nil)
