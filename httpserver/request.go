// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package httpserver wires the reactor, the incremental HTTP parser and the
// response writer into a complete request/response server, the Go analogue
// of native::net::http/webserver.cpp's accept-parse-dispatch pipeline.
package httpserver

import (
	"github.com/d5/node-native/adapters"
	"github.com/d5/node-native/api"
	"github.com/d5/node-native/httpparser"
	"github.com/d5/node-native/urlparser"
)

// Request is the handler-facing view of a completed parse: method, URL,
// headers and body, plus an optional Context bag for per-request metadata
// and the path parameters a Router matched.
type Request struct {
	result  *httpparser.HTTPParseResult
	ctx     api.Context
	params  map[string]string
}

func newRequest(result *httpparser.HTTPParseResult) *Request {
	return &Request{result: result}
}

// Method returns the HTTP method, e.g. "GET".
func (r *Request) Method() string { return r.result.Method }

// Path returns the request-target's path component.
func (r *Request) Path() string {
	if r.result.URL == nil {
		return ""
	}
	return r.result.URL.Path
}

// Query returns the raw query string, without the leading '?'.
func (r *Request) Query() string {
	if r.result.URL == nil {
		return ""
	}
	return r.result.URL.Query
}

// URL returns the parsed request-target, or nil if the parser never
// produced one (always populated on a successful parse).
func (r *Request) URL() *urlparser.UrlObject { return r.result.URL }

// Fragment returns the request-target's fragment component, or "" if it
// carried none. A fragment is never actually sent by a conforming client
// (RFC 7230 request-targets exclude it); this exists for parity with
// url.fragment() since UrlObject always carries the field.
func (r *Request) Fragment() string {
	if r.result.URL == nil {
		return ""
	}
	return r.result.URL.Fragment
}

// Header returns the combined value of a request header.
func (r *Request) Header(key string) string {
	return r.result.Headers.Combined(key)
}

// Headers returns the full parsed header map.
func (r *Request) Headers() *httpparser.Header { return r.result.Headers }

// Body returns the parsed request body, or nil if Content-Length was 0/absent.
func (r *Request) Body() []byte { return r.result.Body }

// Host and Port return the request's destination, derived from the Host
// header the way native::detail::http_parser_context does.
func (r *Request) Host() string { return r.result.Host }
func (r *Request) Port() int    { return r.result.Port }

// Version returns the declared HTTP major/minor version.
func (r *Request) Version() (int, int) { return r.result.Major, r.result.Minor }

// Context lazily creates and returns this request's metadata store.
func (r *Request) Context() api.Context {
	if r.ctx == nil {
		r.ctx = adapters.NewRequestContext()
	}
	return r.ctx
}

// Param returns a path parameter a Router matched, or "" if there was none
// by that name (including when no Router was used at all).
func (r *Request) Param(name string) string {
	if r.params == nil {
		return ""
	}
	return r.params[name]
}

func (r *Request) setParams(params map[string]string) { r.params = params }
