// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package httpserver

import (
	"sync"

	"github.com/d5/node-native/adapters"
	"github.com/d5/node-native/api"
	"github.com/d5/node-native/internal/logging"
	"github.com/d5/node-native/node"
	"github.com/d5/node-native/pool"
	"github.com/d5/node-native/tcp"
)

// debugController is the slice of adapters.ControlAdapter this package
// needs beyond api.Control: a debug-probe sink for the route table.
type debugController interface {
	GetDebug() api.Debug
}

// defaultIdleTimeoutNanos closes a connection that is still open this long
// after it was accepted, whether or not it has sent bytes in the meantime;
// the timer is cancelled when the connection closes. The supplemented feature
// native::detail::stream left to the OS's own TCP keepalive/timeout.
const defaultIdleTimeoutNanos = int64(30 * 1e9)

// Server accepts TCP connections, parses HTTP/1.x requests off each one and
// dispatches them to a Handler (or a Router, via Serve).
type Server struct {
	control   api.Control
	debug     api.Debug
	scheduler api.Scheduler
	bufPool   api.BufferPool

	mu          sync.Mutex
	listener    *tcp.TCPHandle
	idleTimeout int64
	active      map[*clientContext]api.Cancelable
	router      *Router
}

// NewServer constructs a Server backed by a fresh control adapter, the
// process-wide node for scheduling, and a generic buffer pool.
func NewServer() *Server {
	ctrl := adapters.NewControlAdapter()
	var dbg api.Debug
	if dc, ok := ctrl.(debugController); ok {
		dbg = dc.GetDebug()
	}
	s := &Server{
		control:     ctrl,
		debug:       dbg,
		scheduler:   node.Default(),
		bufPool:     pool.NewBufferPoolManager().GetPool(-1),
		idleTimeout: defaultIdleTimeoutNanos,
		active:      make(map[*clientContext]api.Cancelable),
	}
	s.control.SetConfig(map[string]any{
		"server.idle_timeout_ns": defaultIdleTimeoutNanos,
	})
	if s.debug != nil {
		s.debug.RegisterProbe("server.connections", func() any {
			s.mu.Lock()
			defer s.mu.Unlock()
			return len(s.active)
		})
		s.debug.RegisterProbe("server.routes", func() any {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.router == nil {
				return []string{}
			}
			return s.router.Routes()
		})
	}
	return s
}

// SetIdleTimeout overrides how long after accept a connection is kept open
// before being closed by the scheduler.
func (s *Server) SetIdleTimeout(nanos int64) {
	s.mu.Lock()
	s.idleTimeout = nanos
	s.mu.Unlock()
}

// Listen binds addr and begins accepting connections, dispatching each
// completed request to handler. It must be called from within node logic
// passed to node.Start, so the reactor already exists.
func (s *Server) Listen(addr tcp.NetAddr, backlog int, handler Handler) error {
	r := node.Default().Reactor()
	if r == nil {
		return api.NewError(api.ErrCodeInternal, "httpserver: node not started")
	}

	l, err := tcp.Listen(addr, backlog, r, s.bufPool, func(conn *tcp.TCPHandle, aerr *api.Error) {
		if aerr != nil {
			logging.L().WithError(aerr).Warn("httpserver: accept failed")
			return
		}
		s.serve(conn, handler)
	})
	if err != nil {
		return err
	}
	s.listener = l
	return nil
}

// Addr returns the listener's bound local address. Useful after binding to
// port 0 to discover the OS-assigned port.
func (s *Server) Addr() (tcp.NetAddr, error) {
	if s.listener == nil {
		return tcp.NetAddr{}, api.NewError(api.ErrCodeInternal, "httpserver: not listening")
	}
	return s.listener.GetSockName()
}

// Serve is Listen with a Router in place of a bare Handler.
func (s *Server) Serve(addr tcp.NetAddr, backlog int, router *Router) error {
	s.mu.Lock()
	s.router = router
	s.mu.Unlock()
	return s.Listen(addr, backlog, router.asHandler())
}

func (s *Server) serve(conn *tcp.TCPHandle, handler Handler) {
	_ = conn.SetNoDelay(true)

	var cc *clientContext
	cc = newClientContext(conn, handler, func() {
		s.mu.Lock()
		if timer, ok := s.active[cc]; ok {
			_ = timer.Cancel()
			delete(s.active, cc)
		}
		s.mu.Unlock()
	})

	s.mu.Lock()
	timeout := s.idleTimeout
	s.mu.Unlock()
	if timeout > 0 {
		timer, terr := s.scheduler.Schedule(timeout, func() {
			cc.closeConn()
		})
		if terr == nil {
			s.mu.Lock()
			s.active[cc] = timer
			s.mu.Unlock()
		}
	}

	cc.start()
}

// Close stops accepting new connections.
func (s *Server) Close() {
	if s.listener != nil {
		s.listener.Close()
	}
}

// Shutdown satisfies api.GracefulShutdown: close the listener and every
// still-open connection's idle timer. In-flight requests are not drained —
// this runtime has no keep-alive state to wait out.
func (s *Server) Shutdown() error {
	s.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for cc, timer := range s.active {
		_ = timer.Cancel()
		delete(s.active, cc)
	}
	return nil
}

var _ api.GracefulShutdown = (*Server)(nil)
