// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package node

import "testing"

// TestFireDueTimerCancelledFromOwnCallbackDoesNotPanic reproduces the
// idle-timeout path: a timer's own fn cancels the very timerEntry that is
// mid-fire (httpserver.Server's onClose closure does this via
// timer.Cancel()). fireDueTimers must not double-close t.done.
func TestFireDueTimerCancelledFromOwnCallbackDoesNotPanic(t *testing.T) {
	n := Default()

	var self *timerEntry
	fn := func() {
		if self != nil {
			_ = self.Cancel()
		}
	}
	cancelable, err := n.Schedule(0, fn)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	self = cancelable.(*timerEntry)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("fireDueTimers panicked: %v", r)
		}
	}()
	n.fireDueTimers()

	select {
	case <-self.Done():
	default:
		t.Error("Done() should be closed after firing")
	}
}
