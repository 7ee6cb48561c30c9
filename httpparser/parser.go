// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package httpparser implements the incremental byte parser described by
// native/detail/http.h's http_parser_context: request-line, headers (with
// the field/value flip-flop needed for folded continuation lines split
// arbitrarily across reads), and a fixed-length body. Chunked
// transfer-encoding is rejected rather than decoded — it is an explicit
// Non-goal.
package httpparser

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/d5/node-native/api"
	"github.com/d5/node-native/urlparser"
)

type state int

const (
	stateRequestLine state = iota
	stateHeaders
	stateBody
	stateDone
	stateError
)

// HTTPParseResult is the output of a completed parse, the Go analogue of
// native::detail::http_parse_result.
type HTTPParseResult struct {
	Method    string
	URL       *urlparser.UrlObject
	RawTarget string
	Major     int
	Minor     int
	Headers   *Header
	Body      []byte
	Upgrade   bool
	// KeepAlive is always false: this runtime never reuses a connection
	// across requests, regardless of what the client asked for.
	KeepAlive bool
	Host      string
	Port      int
}

// HTTPParserContext is fed bytes as they arrive on a Stream and invokes
// onComplete exactly once, with either a result or an error.
type HTTPParserContext struct {
	st    state
	onMsg func(*HTTPParseResult, *api.Error)

	lineAcc         []byte
	headerBytesRead int
	maxHeaderBytes  int

	curField      string
	curValueParts []string

	result            *HTTPParseResult
	contentLength     int
	haveContentLength bool
	bodyBuf           []byte
}

// NewHTTPParserContext constructs a parser for one request. onComplete
// fires once, synchronously from within Execute.
func NewHTTPParserContext(onComplete func(*HTTPParseResult, *api.Error)) *HTTPParserContext {
	return &HTTPParserContext{
		st:             stateRequestLine,
		onMsg:          onComplete,
		result:         &HTTPParseResult{Headers: NewHeader()},
		maxHeaderBytes: 1 << 20,
	}
}

// Done reports whether the parser has produced a result or an error.
func (c *HTTPParserContext) Done() bool {
	return c.st == stateDone || c.st == stateError
}

// Execute feeds newly-arrived bytes into the parser. It may be called any
// number of times with chunks of any size, including one byte at a time —
// the request line and headers are reassembled across calls exactly like
// the original's per-byte callback parser, just buffered a line at a time
// instead of a byte at a time.
func (c *HTTPParserContext) Execute(data []byte) *api.Error {
	for len(data) > 0 && c.st != stateDone && c.st != stateError {
		switch c.st {
		case stateRequestLine, stateHeaders:
			idx := bytes.IndexByte(data, '\n')
			if idx < 0 {
				c.lineAcc = append(c.lineAcc, data...)
				c.headerBytesRead += len(data)
				if c.headerBytesRead > c.maxHeaderBytes {
					return c.fail(api.NewError(api.ErrCodeInvalidArgument, "httpparser: headers too large"))
				}
				return nil
			}

			line := append(c.lineAcc, data[:idx]...)
			c.lineAcc = nil
			data = data[idx+1:]
			line = bytes.TrimSuffix(line, []byte{'\r'})

			if c.st == stateRequestLine {
				if err := c.parseRequestLine(string(line)); err != nil {
					return c.fail(err)
				}
				c.st = stateHeaders
				continue
			}

			if err := c.consumeHeaderLine(line); err != nil {
				return c.fail(err)
			}

		case stateBody:
			need := c.contentLength - len(c.bodyBuf)
			n := len(data)
			if n > need {
				n = need
			}
			c.bodyBuf = append(c.bodyBuf, data[:n]...)
			data = data[n:]
			if len(c.bodyBuf) >= c.contentLength {
				c.result.Body = c.bodyBuf
				c.finish()
			}
		}
	}
	return nil
}

func (c *HTTPParserContext) consumeHeaderLine(line []byte) *api.Error {
	if len(line) == 0 {
		c.flushHeader()
		if err := c.onHeadersComplete(); err != nil {
			return err
		}
		if c.haveContentLength && c.contentLength > 0 {
			c.st = stateBody
		} else {
			c.result.Body = nil
			c.finish()
		}
		return nil
	}

	if line[0] == ' ' || line[0] == '\t' {
		// Obsolete line folding: this line continues the previous value.
		c.curValueParts = append(c.curValueParts, strings.TrimSpace(string(line)))
		return nil
	}

	// A non-indented line starts a new header: flush whatever was pending
	// (the flip from accumulating a value back to starting a new field).
	c.flushHeader()

	colon := bytes.IndexByte(line, ':')
	if colon < 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "httpparser: malformed header line")
	}
	c.curField = strings.TrimSpace(string(line[:colon]))
	c.curValueParts = []string{strings.TrimSpace(string(line[colon+1:]))}
	return nil
}

func (c *HTTPParserContext) flushHeader() {
	if c.curField == "" {
		return
	}
	c.result.Headers.Add(c.curField, strings.Join(c.curValueParts, " "))
	c.curField = ""
	c.curValueParts = nil
}

func (c *HTTPParserContext) parseRequestLine(line string) *api.Error {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return api.NewError(api.ErrCodeInvalidArgument, "httpparser: malformed request line")
	}
	method, target, version := parts[0], parts[1], parts[2]

	url, uerr := urlparser.Parse(target)
	if uerr != nil {
		return uerr
	}

	major, minor, verr := parseHTTPVersion(version)
	if verr != nil {
		return verr
	}

	c.result.Method = method
	c.result.RawTarget = target
	c.result.URL = url
	c.result.Major = major
	c.result.Minor = minor
	return nil
}

func parseHTTPVersion(v string) (int, int, *api.Error) {
	const prefix = "HTTP/"
	if !strings.HasPrefix(v, prefix) {
		return 0, 0, api.NewError(api.ErrCodeInvalidArgument, "httpparser: malformed version")
	}
	rest := v[len(prefix):]
	dot := strings.IndexByte(rest, '.')
	if dot < 0 {
		return 0, 0, api.NewError(api.ErrCodeInvalidArgument, "httpparser: malformed version")
	}
	major, err1 := strconv.Atoi(rest[:dot])
	minor, err2 := strconv.Atoi(rest[dot+1:])
	if err1 != nil || err2 != nil {
		return 0, 0, api.NewError(api.ErrCodeInvalidArgument, "httpparser: malformed version")
	}
	return major, minor, nil
}

func (c *HTTPParserContext) onHeadersComplete() *api.Error {
	if te := c.result.Headers.Combined("Transfer-Encoding"); te != "" {
		return api.NewError(api.ErrCodeNotSupported, "httpparser: chunked transfer-encoding not supported")
	}

	if cl := c.result.Headers.Combined("Content-Length"); cl != "" {
		n, err := strconv.Atoi(cl)
		if err != nil || n < 0 {
			return api.NewError(api.ErrCodeInvalidArgument, "httpparser: malformed Content-Length")
		}
		c.contentLength = n
		c.haveContentLength = true
	}

	if c.result.Headers.Combined("Upgrade") != "" {
		c.result.Upgrade = true
	}

	c.result.Host, c.result.Port = hostPortFromHeader(c.result.Headers.Combined("Host"))

	return nil
}

// hostPortFromHeader mirrors http_parser_context::on_message_complete's
// derivation of host/port from the Host header: split at the last colon
// (so IPv6 literals in brackets keep their colons), default port 80.
func hostPortFromHeader(host string) (string, int) {
	if host == "" {
		return "", 80
	}
	idx := strings.LastIndex(host, ":")
	if idx < 0 || strings.Contains(host[idx:], "]") {
		return host, 80
	}
	port, err := strconv.Atoi(host[idx+1:])
	if err != nil {
		return host, 80
	}
	return host[:idx], port
}

func (c *HTTPParserContext) finish() {
	c.st = stateDone
	if c.onMsg != nil {
		c.onMsg(c.result, nil)
	}
}

func (c *HTTPParserContext) fail(err *api.Error) *api.Error {
	c.st = stateError
	if c.onMsg != nil {
		c.onMsg(nil, err)
	}
	return err
}
