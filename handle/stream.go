// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package handle

import (
	"github.com/d5/node-native/api"
	"github.com/d5/node-native/pool"
	"github.com/d5/node-native/reactor"
)

// ReadCallback delivers a chunk read from the stream. A non-nil err (end of
// stream or a failure) means data is nil/empty and no further reads will be
// delivered until ReadStart is called again. Mirrors native::detail::
// stream::after_read_'s nread<0/nread==0 handling, collapsed into one
// Go-idiomatic signature.
type ReadCallback func(data []byte, err *api.Error)

// CompleteCallback reports completion of a write or shutdown request.
type CompleteCallback func(err *api.Error)

// ConnectionCallback reports a newly accepted descriptor, or a listen-time
// failure. It stands in for native::detail::stream::accept_new_, which was
// a virtual method subclasses overrode; here the behavior is supplied by
// whichever concrete transport (tcp) drives the accept syscall.
type ConnectionCallback func(fd uintptr, err *api.Error)

// AcceptFunc performs one non-blocking accept attempt. It returns
// (0, isAgainErr) when nothing is pending.
type AcceptFunc func() (uintptr, error)

const defaultReadBufSize = 65536

type writeRequest struct {
	data       []byte
	onComplete CompleteCallback
}

// Stream is a non-blocking byte stream built on a reactor-registered fd. It
// implements read_start/read_stop/write/shutdown/listen from native::detail
// ::stream, plus the TCP specialization's accept loop via AcceptFunc.
type Stream struct {
	*Handle

	reactor     reactor.Reactor
	pool        api.BufferPool
	readBufSize int

	onRead       ReadCallback
	onComplete   CompleteCallback
	onConnection ConnectionCallback
	acceptFn     AcceptFunc

	registered bool
	events     reactor.FDEventType

	writeQueue    *pool.RingBuffer[*writeRequest]
	current       *writeRequest
	currentOffset int

	listening bool
}

// NewStream wraps fd, registered with r, allocating read buffers from p.
func NewStream(fd uintptr, r reactor.Reactor, p api.BufferPool) *Stream {
	return &Stream{
		Handle:      NewHandle(fd, r),
		reactor:     r,
		pool:        p,
		readBufSize: defaultReadBufSize,
		writeQueue:  pool.NewRingBuffer[*writeRequest](1024),
	}
}

// SetReadBufferSize overrides the per-read allocation size (default 64KiB).
func (s *Stream) SetReadBufferSize(n int) {
	if n > 0 {
		s.readBufSize = n
	}
}

// SetAcceptFunc installs the accept hook used while Listen is active.
func (s *Stream) SetAcceptFunc(fn AcceptFunc) {
	s.acceptFn = fn
}

func (s *Stream) updateEvents(add, remove reactor.FDEventType) error {
	newEvents := (s.events &^ remove) | add
	if newEvents == s.events && s.registered {
		return nil
	}
	if !s.registered {
		if err := s.reactor.Register(s.FD(), newEvents, s.dispatch); err != nil {
			return err
		}
		s.registered = true
	} else if newEvents != s.events {
		if err := s.reactor.Modify(s.FD(), newEvents); err != nil {
			return err
		}
	}
	s.events = newEvents
	return nil
}

func (s *Stream) dispatch(_ uintptr, events reactor.FDEventType) {
	if events&reactor.EventError != 0 {
		s.handleError()
		return
	}
	if events&reactor.EventRead != 0 {
		if s.listening {
			s.handleAcceptable()
		} else {
			s.handleReadable()
		}
	}
	if events&reactor.EventWrite != 0 {
		s.flush()
	}
}

func (s *Stream) handleError() {
	if cb := s.onRead; cb != nil {
		_ = s.ReadStop()
		cb(nil, api.NewError(api.ErrCodeInternal, "stream: descriptor error").WithContext("fd", s.FD()))
	}
}

// OnRead registers the callback that receives chunks of incoming data.
func (s *Stream) OnRead(cb ReadCallback) { s.onRead = cb }

// OnComplete registers the callback fired when a write or shutdown completes.
func (s *Stream) OnComplete(cb CompleteCallback) { s.onComplete = cb }

// OnConnection registers the callback fired for each accepted connection
// (or for a listen-time failure) while Listen is active.
func (s *Stream) OnConnection(cb ConnectionCallback) { s.onConnection = cb }

// ReadStart begins delivering data to cb as it arrives.
func (s *Stream) ReadStart(cb ReadCallback) error {
	s.onRead = cb
	return s.updateEvents(reactor.EventRead, 0)
}

// ReadStop stops delivering data until ReadStart is called again.
func (s *Stream) ReadStop() error {
	s.onRead = nil
	return s.updateEvents(0, reactor.EventRead)
}

func (s *Stream) handleReadable() {
	if s.onRead == nil {
		return
	}
	buf := s.pool.Get(s.readBufSize, -1)
	n, err := readFD(s.FD(), buf.Bytes())
	if err != nil {
		if isAgain(err) {
			buf.Release()
			return
		}
		buf.Release()
		cb := s.onRead
		_ = s.ReadStop()
		cb(nil, mapErrno(err))
		return
	}
	if n == 0 {
		buf.Release()
		cb := s.onRead
		_ = s.ReadStop()
		cb(nil, api.NewError(api.ErrCodeNotFound, "stream: EOF"))
		return
	}
	s.onRead(buf.Bytes()[:n], nil)
	buf.Release()
}

// Write enqueues data for delivery, in order, behind any writes already
// queued. onComplete fires once this specific write has fully drained.
func (s *Stream) Write(data []byte, onComplete CompleteCallback) error {
	if !s.writeQueue.Enqueue(&writeRequest{data: data, onComplete: onComplete}) {
		return api.ErrResourceExhausted
	}
	s.flush()
	return nil
}

// WriteQueueSize reports the number of write requests not yet fully
// flushed, including the one currently in flight.
func (s *Stream) WriteQueueSize() int {
	n := s.writeQueue.Len()
	if s.current != nil {
		n++
	}
	return n
}

func (s *Stream) flush() {
	for {
		if s.current == nil {
			item, ok := s.writeQueue.Dequeue()
			if !ok {
				_ = s.updateEvents(0, reactor.EventWrite)
				return
			}
			s.current = item
			s.currentOffset = 0
		}

		n, err := writeFD(s.FD(), s.current.data[s.currentOffset:])
		if err != nil {
			if isAgain(err) {
				_ = s.updateEvents(reactor.EventWrite, 0)
				return
			}
			cb := s.current.onComplete
			s.current = nil
			s.currentOffset = 0
			if cb != nil {
				cb(mapErrno(err))
			}
			continue
		}

		s.currentOffset += n
		if s.currentOffset >= len(s.current.data) {
			cb := s.current.onComplete
			s.current = nil
			s.currentOffset = 0
			if cb != nil {
				cb(nil)
			}
		}
	}
}

// Shutdown half-closes the write side of the stream.
func (s *Stream) Shutdown(onComplete CompleteCallback) error {
	err := shutdownWriteFD(s.FD())
	if onComplete != nil {
		onComplete(mapErrno(err))
	}
	return err
}

// Listen marks the stream as a passive socket and starts delivering
// accepted descriptors to onConnection via acceptFn, set beforehand with
// SetAcceptFunc.
func (s *Stream) Listen(onConnection ConnectionCallback) error {
	s.onConnection = onConnection
	s.listening = true
	return s.updateEvents(reactor.EventRead, 0)
}

func (s *Stream) handleAcceptable() {
	if s.acceptFn == nil || s.onConnection == nil {
		return
	}
	for {
		fd, err := s.acceptFn()
		if err != nil {
			if isAgain(err) {
				return
			}
			s.onConnection(0, mapErrno(err))
			return
		}
		if fd == 0 {
			return
		}
		s.onConnection(fd, nil)
	}
}

// IsReadable reports whether reads are currently enabled.
func (s *Stream) IsReadable() bool { return s.events&reactor.EventRead != 0 }

// IsWritable reports whether the stream can still accept writes.
func (s *Stream) IsWritable() bool { return !s.Closed() }

func mapErrno(err error) *api.Error {
	if err == nil {
		return nil
	}
	return api.NewError(api.ErrCodeInternal, err.Error())
}
