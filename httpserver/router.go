// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package httpserver

import (
	"strings"

	"github.com/d5/node-native/httpresponse"
)

// Router dispatches by method and path, supporting literal segments and
// ":name" parameter segments. It is optional: a Server can be driven by a
// single Handler instead.
type Router struct {
	routes map[string][]route
	order  []route
}

type route struct {
	method   string
	path     string
	segments []string
	handler  Handler
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{routes: make(map[string][]route)}
}

// Handle registers handler for method and path, e.g. "GET", "/users/:id".
func (rt *Router) Handle(method, path string, handler Handler) {
	r := route{
		method:   method,
		path:     path,
		segments: splitPath(path),
		handler:  handler,
	}
	rt.routes[method] = append(rt.routes[method], r)
	rt.order = append(rt.order, r)
}

// Routes lists every registered route as "METHOD path", in registration
// order, for the server's route-table debug probe.
func (rt *Router) Routes() []string {
	out := make([]string, 0, len(rt.order))
	for _, r := range rt.order {
		out = append(out, r.method+" "+r.path)
	}
	return out
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// match finds the first registered route for method whose segments match
// path, returning the handler and any bound :param values.
func (rt *Router) match(method, path string) (Handler, map[string]string, bool) {
	candidates := rt.routes[method]
	reqSegments := splitPath(path)

	for _, r := range candidates {
		if len(r.segments) != len(reqSegments) {
			continue
		}
		params := make(map[string]string)
		ok := true
		for i, seg := range r.segments {
			if strings.HasPrefix(seg, ":") {
				params[seg[1:]] = reqSegments[i]
				continue
			}
			if seg != reqSegments[i] {
				ok = false
				break
			}
		}
		if ok {
			return r.handler, params, true
		}
	}
	return nil, nil, false
}

// asHandler adapts the Router into a plain Handler, responding 404 when no
// route matches.
func (rt *Router) asHandler() Handler {
	return func(req *Request, resp *httpresponse.Response) {
		handler, params, ok := rt.match(req.Method(), req.Path())
		if !ok {
			resp.SetStatus(404)
			_, _ = resp.Write([]byte("not found"))
			_ = resp.End(nil)
			return
		}
		req.setParams(params)
		handler(req, resp)
	}
}
