package adapters_test

import (
	"testing"
	"time"

	"github.com/d5/node-native/adapters"
)

func TestRequestContextSetGetDelete(t *testing.T) {
	ctx := adapters.NewRequestContext()
	ctx.Set("user", "alice", false)

	v, ok := ctx.Get("user")
	if !ok || v != "alice" {
		t.Errorf("Get(user) = (%v, %v), want (alice, true)", v, ok)
	}

	ctx.Delete("user")
	if _, ok := ctx.Get("user"); ok {
		t.Error("Get after Delete should report ok=false")
	}
}

func TestRequestContextPropagation(t *testing.T) {
	ctx := adapters.NewRequestContext()
	ctx.Set("trace-id", "abc", true)
	ctx.Set("secret", "xyz", false)

	if !ctx.IsPropagated("trace-id") {
		t.Error("trace-id should be propagated")
	}
	if ctx.IsPropagated("secret") {
		t.Error("secret should not be propagated")
	}
}

func TestRequestContextExpiration(t *testing.T) {
	ctx := adapters.NewRequestContext()
	ctx.Set("temp", 1, false)
	ctx.WithExpiration("temp", int64(time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	if _, ok := ctx.Get("temp"); ok {
		t.Error("Get should report ok=false after expiration")
	}
}

func TestRequestContextClone(t *testing.T) {
	ctx := adapters.NewRequestContext()
	ctx.Set("a", 1, false)

	clone := ctx.Clone()
	clone.Set("b", 2, false)

	if _, ok := ctx.Get("b"); ok {
		t.Error("mutating the clone should not affect the original")
	}
	if v, ok := clone.Get("a"); !ok || v != 1 {
		t.Error("clone should carry over values set before Clone")
	}
}
