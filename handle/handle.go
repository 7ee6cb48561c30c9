// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package handle

import (
	"github.com/d5/node-native/reactor"
)

// CloseCallback runs once a Handle has finished closing, mirroring the
// deferred self-release native::detail::handle performs inside its
// uv_close callback.
type CloseCallback func()

// Handle is a reactor-registered OS descriptor with ref/unref bookkeeping.
// Unlike native::detail::handle it does not gate loop exit on ref count —
// this runtime exits via an explicit node.Stop() — but ref/unref remain
// present and idempotent for API fidelity with the original surface.
type Handle struct {
	fd      uintptr
	reactor reactor.Reactor
	unref   bool
	closed  bool
	onClose CloseCallback
}

// NewHandle wraps fd for reactor-driven I/O. New handles start unref'd,
// matching native::detail::handle's default.
func NewHandle(fd uintptr, r reactor.Reactor) *Handle {
	return &Handle{fd: fd, reactor: r, unref: true}
}

// FD returns the underlying OS descriptor.
func (h *Handle) FD() uintptr { return h.fd }

// Closed reports whether Close has already run.
func (h *Handle) Closed() bool { return h.closed }

// Ref marks the handle as significant to the loop's liveness.
func (h *Handle) Ref() {
	if !h.unref {
		return
	}
	h.unref = false
}

// Unref marks the handle as not keeping the loop alive on its own.
func (h *Handle) Unref() {
	if h.unref {
		return
	}
	h.unref = true
}

// OnClose registers the callback fired once Close completes.
func (h *Handle) OnClose(cb CloseCallback) {
	h.onClose = cb
}

// Close unregisters the descriptor from the reactor and closes it exactly
// once. Calling Close on an already-closed Handle is a no-op, matching
// native::detail::handle::close's `if(!handle_) return;` guard.
func (h *Handle) Close() {
	if h.closed {
		return
	}
	h.closed = true
	if h.reactor != nil {
		_ = h.reactor.Unregister(h.fd)
	}
	_ = closeFD(h.fd)
	h.Ref()
	if h.onClose != nil {
		h.onClose()
	}
}
