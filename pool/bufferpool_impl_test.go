package pool_test

import (
	"testing"

	"github.com/d5/node-native/pool"
)

func TestBufferPoolGetPutStats(t *testing.T) {
	mgr := pool.NewBufferPoolManager()
	bp := mgr.GetPool(-1)

	b1 := bp.Get(100, -1)
	if len(b1.Bytes()) != 100 {
		t.Errorf("Bytes() len = %d, want 100", len(b1.Bytes()))
	}
	if cap(b1.Bytes()) < 100 {
		t.Errorf("cap = %d, want >= 100", cap(b1.Bytes()))
	}

	stats := bp.Stats()
	if stats.TotalAlloc != 1 || stats.InUse != 1 {
		t.Errorf("stats after Get = %+v, want TotalAlloc=1 InUse=1", stats)
	}

	b1.Release()
	stats = bp.Stats()
	if stats.TotalFree != 1 || stats.InUse != 0 {
		t.Errorf("stats after Release = %+v, want TotalFree=1 InUse=0", stats)
	}
}

func TestBufferPoolReusesSizeClass(t *testing.T) {
	mgr := pool.NewBufferPoolManager()
	bp := mgr.GetPool(-1)

	b1 := bp.Get(128, -1)
	b1.Release()

	b2 := bp.Get(64, -1)
	if cap(b2.Bytes()) < 128 {
		t.Error("expected reuse of the 128-byte size class for a 64-byte request")
	}
}
