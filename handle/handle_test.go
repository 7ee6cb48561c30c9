package handle_test

import (
	"os"
	"testing"

	"github.com/d5/node-native/handle"
	"github.com/d5/node-native/reactor"
)

func TestCloseIdempotent(t *testing.T) {
	r, err := reactor.NewReactor()
	if err != nil {
		t.Fatalf("NewReactor: %v", err)
	}
	defer r.Close()

	rf, wf, perr := os.Pipe()
	if perr != nil {
		t.Fatalf("Pipe: %v", perr)
	}
	defer wf.Close()

	h := handle.NewHandle(rf.Fd(), r)

	closedCount := 0
	h.OnClose(func() { closedCount++ })

	h.Close()
	h.Close()
	h.Close()

	if closedCount != 1 {
		t.Errorf("onClose invoked %d times, want 1", closedCount)
	}
	if !h.Closed() {
		t.Error("Closed() = false after Close()")
	}
}

func TestRefUnrefIdempotent(t *testing.T) {
	r, err := reactor.NewReactor()
	if err != nil {
		t.Fatalf("NewReactor: %v", err)
	}
	defer r.Close()

	rf, wf, perr := os.Pipe()
	if perr != nil {
		t.Fatalf("Pipe: %v", perr)
	}
	defer wf.Close()
	defer rf.Close()

	h := handle.NewHandle(rf.Fd(), r)
	h.Ref()
	h.Ref()
	h.Unref()
	h.Unref()
}
