// File: pool/bufferpool_impl.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral BufferPool backend. The reactor in this module drives a
// single OS thread, so the NUMA segmentation BufferPoolManager offers is
// used only to keep separate size-class pools per node id; allocation
// itself has no platform-specific path.

package pool

import (
	"sync"

	"github.com/d5/node-native/api"
)

// sizeClass rounds a requested size up to the nearest power-of-two bucket,
// bounded at 1MiB, so that reclaimed buffers are reusable across requests of
// similar size without pinning the pool to one exact length.
func sizeClass(n int) int {
	c := 512
	for c < n && c < 1<<20 {
		c <<= 1
	}
	return c
}

type genericBufferPool struct {
	numaNode int
	mu       sync.Mutex
	classes  map[int]*sync.Pool
	stats    api.BufferPoolStats
}

func newBufferPool(numaNode int) api.BufferPool {
	return &genericBufferPool{
		numaNode: numaNode,
		classes:  make(map[int]*sync.Pool),
	}
}

func (p *genericBufferPool) poolFor(class int) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	sp, ok := p.classes[class]
	if !ok {
		sp = &sync.Pool{New: func() any {
			b := make([]byte, class)
			return &b
		}}
		p.classes[class] = sp
	}
	return sp
}

func (p *genericBufferPool) Get(size int, numaPreferred int) api.Buffer {
	class := sizeClass(size)
	sp := p.poolFor(class)
	bp := sp.Get().(*[]byte)
	data := (*bp)[:size]

	p.mu.Lock()
	p.stats.TotalAlloc++
	p.stats.InUse++
	p.mu.Unlock()

	return api.Buffer{
		Data:  data,
		NUMA:  p.numaNode,
		Pool:  p,
		Class: class,
	}
}

func (p *genericBufferPool) Put(b api.Buffer) {
	if b.Class == 0 {
		return
	}
	sp := p.poolFor(b.Class)
	full := b.Data[:0:b.Class]
	sp.Put(&full)

	p.mu.Lock()
	p.stats.TotalFree++
	p.stats.InUse--
	p.mu.Unlock()
}

func (p *genericBufferPool) Stats() api.BufferPoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
