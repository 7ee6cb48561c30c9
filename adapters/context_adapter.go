// File: adapters/context_adapter.go
// Package adapters
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread-safe, propagation-aware context store implementing api.Context.
// Used by httpserver to give each Request an optional per-request
// metadata bag, the same role native/detail/node's handle.data() pointer
// plays in the original.

package adapters

import (
	"sync"
	"time"

	"github.com/d5/node-native/api"
)

type contextEntry struct {
	value      any
	propagated bool
	expiry     time.Time
}

// RequestContext implements api.Context.
type RequestContext struct {
	mu    sync.RWMutex
	store map[string]contextEntry
}

var _ api.Context = (*RequestContext)(nil)

// NewRequestContext returns an empty context.
func NewRequestContext() *RequestContext {
	return &RequestContext{store: make(map[string]contextEntry)}
}

func (c *RequestContext) Set(key string, value any, propagated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = contextEntry{value: value, propagated: propagated}
}

func (c *RequestContext) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[key]
	if !ok {
		return nil, false
	}
	if !e.expiry.IsZero() && time.Now().After(e.expiry) {
		return nil, false
	}
	return e.value, true
}

func (c *RequestContext) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
}

func (c *RequestContext) Clone() api.Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dup := make(map[string]contextEntry, len(c.store))
	for k, v := range c.store {
		dup[k] = v
	}
	return &RequestContext{store: dup}
}

func (c *RequestContext) WithExpiration(key string, ttlNanos int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.store[key]; ok {
		e.expiry = time.Now().Add(time.Duration(ttlNanos))
		c.store[key] = e
	}
}

func (c *RequestContext) IsPropagated(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[key]
	return ok && e.propagated
}

func (c *RequestContext) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := time.Now()
	keys := make([]string, 0, len(c.store))
	for k, v := range c.store {
		if v.expiry.IsZero() || v.expiry.After(now) {
			keys = append(keys, k)
		}
	}
	return keys
}
