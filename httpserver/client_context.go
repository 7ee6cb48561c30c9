// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package httpserver

import (
	"github.com/d5/node-native/api"
	"github.com/d5/node-native/httpparser"
	"github.com/d5/node-native/httpresponse"
	"github.com/d5/node-native/internal/logging"
	"github.com/d5/node-native/tcp"
)

// Handler processes one fully-parsed request and produces a response. When
// the handler returns, the connection is closed; if it has not called
// resp.End, End is called on its behalf with whatever body it buffered.
type Handler func(req *Request, resp *httpresponse.Response)

// clientContext owns one accepted connection end to end: the stream, its
// parser, the in-flight request/response pair and the user handler. There
// is exactly one owner of each of these at any time — no back-pointer or
// shared-pointer duality the way native::detail::stream and its parser
// context used to reference each other.
type clientContext struct {
	conn    *tcp.TCPHandle
	parser  *httpparser.HTTPParserContext
	handler Handler
	onClose func()
}

func newClientContext(conn *tcp.TCPHandle, handler Handler, onClose func()) *clientContext {
	cc := &clientContext{conn: conn, handler: handler, onClose: onClose}
	cc.resetParser()
	return cc
}

func (cc *clientContext) resetParser() {
	cc.parser = httpparser.NewHTTPParserContext(cc.onParsed)
}

func (cc *clientContext) start() {
	if err := cc.conn.ReadStart(cc.onRead); err != nil {
		cc.closeConn()
	}
}

func (cc *clientContext) onRead(data []byte, err *api.Error) {
	if err != nil {
		// EOF before the parser reached a complete request leaves the
		// peer with no response, matching parse_http_request's callback(
		// nullptr, error) path: the context is torn down, nothing is
		// written back.
		if !cc.parser.Done() {
			incomplete := api.NewError(api.ErrCodeIncomplete, "httpserver: peer closed before request completed").
				WithContext("cause", err.Error())
			logging.L().WithError(incomplete).Warn("httpserver: incomplete request")
		}
		cc.closeConn()
		return
	}
	if perr := cc.parser.Execute(data); perr != nil {
		// A malformed request gets the same treatment as EOF-before-done:
		// close the peer stream without sending a response.
		logging.L().WithError(perr).Warn("httpserver: malformed request")
		cc.closeConn()
		return
	}
}

func (cc *clientContext) onParsed(result *httpparser.HTTPParseResult, err *api.Error) {
	if err != nil {
		logging.L().WithError(err).Warn("httpserver: malformed request")
		cc.closeConn()
		return
	}

	req := newRequest(result)
	resp := httpresponse.New(cc.conn)

	// This runtime never reuses a connection across requests (no
	// keep-alive), so the connection closes once the response write has
	// been handed to the stream, regardless of what the handler set.
	cc.handler(req, resp)
	cc.finish(resp)
}

func (cc *clientContext) finish(resp *httpresponse.Response) {
	if !resp.Sent() {
		_ = resp.End(nil)
	}
	cc.closeConn()
}

func (cc *clientContext) closeConn() {
	cc.conn.Close()
	if cc.onClose != nil {
		cc.onClose()
	}
}
