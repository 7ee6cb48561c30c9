// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package httpresponse implements the response-writer component: a
// case-insensitive header map seeded with Content-Type: text/html, an
// automatically computed Content-Length, and a single write of the
// complete status line + headers + body to the underlying stream.
package httpresponse

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/d5/node-native/api"
	"github.com/d5/node-native/handle"
	"github.com/d5/node-native/httpparser"
)

// StreamWriter is the minimal surface Response needs from a handle.Stream,
// kept as an interface so tests can substitute a recorder.
type StreamWriter interface {
	Write(data []byte, onComplete handle.CompleteCallback) error
}

// Response accumulates a status, headers and body, then serializes them in
// one write. Calling End more than once is an error, matching the
// single-write contract native::detail::stream::write enforces implicitly
// by being fire-and-forget per call.
type Response struct {
	w       StreamWriter
	status  int
	headers *httpparser.Header
	body    bytes.Buffer
	sent    bool
}

// New returns a Response with status 200 and the default
// Content-Type: text/html header, ready for a handler to override.
func New(w StreamWriter) *Response {
	r := &Response{w: w, status: 200, headers: httpparser.NewHeader()}
	r.headers.Set("Content-Type", "text/html")
	return r
}

// SetStatus sets the response status code.
func (r *Response) SetStatus(code int) { r.status = code }

// Sent reports whether End has already been called.
func (r *Response) Sent() bool { return r.sent }

// SetHeader overrides (rather than appends to) a header value.
func (r *Response) SetHeader(key, value string) { r.headers.Set(key, value) }

// Write buffers body bytes; it may be called multiple times before End.
func (r *Response) Write(p []byte) (int, error) {
	return r.body.Write(p)
}

// End appends any final bytes, sets Content-Length from the total buffered
// body unless the handler already set one, and performs the single write to
// the underlying stream.
func (r *Response) End(final []byte) *api.Error {
	if r.sent {
		return api.NewError(api.ErrCodeAlreadyExists, "response: already sent")
	}
	r.sent = true

	if len(final) > 0 {
		r.body.Write(final)
	}
	if r.headers.Get("Content-Length") == "" {
		r.headers.Set("Content-Length", strconv.Itoa(r.body.Len()))
	}

	var out bytes.Buffer
	reason := StatusText(r.status)
	fmt.Fprintf(&out, "HTTP/1.1 %d %s\r\n", r.status, reason)
	for _, k := range r.headers.Keys() {
		fmt.Fprintf(&out, "%s: %s\r\n", k, r.headers.Combined(k))
	}
	out.WriteString("\r\n")
	out.Write(r.body.Bytes())

	if err := r.w.Write(out.Bytes(), nil); err != nil {
		return api.NewError(api.ErrCodeInternal, err.Error())
	}
	return nil
}
