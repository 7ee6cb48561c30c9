package pool_test

import (
	"testing"

	"github.com/d5/node-native/pool"
)

func TestRingBufferFIFOOrder(t *testing.T) {
	r := pool.NewRingBuffer[int](4)
	for i := 1; i <= 3; i++ {
		if !r.Enqueue(i) {
			t.Fatalf("Enqueue(%d) failed unexpectedly", i)
		}
	}
	for i := 1; i <= 3; i++ {
		got, ok := r.Dequeue()
		if !ok {
			t.Fatalf("Dequeue() ok=false, want true at i=%d", i)
		}
		if got != i {
			t.Errorf("Dequeue() = %d, want %d", got, i)
		}
	}
	if _, ok := r.Dequeue(); ok {
		t.Error("Dequeue() on empty ring returned ok=true")
	}
}

func TestRingBufferRejectsWhenFull(t *testing.T) {
	r := pool.NewRingBuffer[int](2)
	if !r.Enqueue(1) || !r.Enqueue(2) {
		t.Fatal("expected first two enqueues to succeed")
	}
	if r.Enqueue(3) {
		t.Error("Enqueue on full ring should return false")
	}
	if r.Len() != 2 || r.Cap() != 2 {
		t.Errorf("Len/Cap = %d/%d, want 2/2", r.Len(), r.Cap())
	}
}
