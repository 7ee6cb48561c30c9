package node_test

import (
	"testing"
	"time"

	"github.com/d5/node-native/node"
)

func TestScheduleAndCancelClosesDone(t *testing.T) {
	n := node.Default()

	fired := make(chan struct{}, 1)
	timer, err := n.Schedule(0, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	cancelled, cerr := n.Schedule(int64(time.Hour), func() {
		t.Error("cancelled timer must not fire")
	})
	if cerr != nil {
		t.Fatalf("Schedule: %v", cerr)
	}
	if err := cancelled.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	select {
	case <-cancelled.Done():
	default:
		t.Error("Done() channel should be closed after Cancel")
	}

	_ = timer
}

// TestNextTickOrdering exercises S6's ordering: nextTick(A) then nextTick(B)
// scheduled from logic runs A before B.
func TestNextTickOrdering(t *testing.T) {
	n := node.Default()

	var order []string
	done := make(chan struct{})

	err := node.Start(func() {
		n.AddTickCallback(func() { order = append(order, "A") })
		n.AddTickCallback(func() {
			order = append(order, "B")
			close(done)
			n.Stop()
		})
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-done

	if len(order) != 2 || order[0] != "A" || order[1] != "B" {
		t.Errorf("tick order = %v, want [A B]", order)
	}
}
