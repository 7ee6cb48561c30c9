// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package urlparser implements the UrlObject component from
// native/detail/http.h's url_obj: a parsed request-target with the same
// defaulting rules (schema defaults to "HTTP", path defaults to "/", port
// defaults to 80 or 443 depending on schema) and has_* presence flags. The
// original parses the whole request-target in a single
// http_parser_parse_url call rather than incrementally; net/url.Parse
// plays that same single-call role here.
package urlparser

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/d5/node-native/api"
)

// UrlObject mirrors native::detail::url_obj's fields.
type UrlObject struct {
	Schema   string
	Host     string
	Port     int
	Path     string
	Query    string
	Fragment string

	HasHost     bool
	HasPort     bool
	HasPath     bool
	HasQuery    bool
	HasFragment bool
}

// defaultPortFor mirrors url_obj's port-by-schema default.
func defaultPortFor(schema string) int {
	if strings.EqualFold(schema, "HTTPS") {
		return 443
	}
	return 80
}

// Parse parses a request-target (either an absolute URI or an
// origin-form path such as "/a/b?c=d") the way http_parser_parse_url
// does for an HTTP request line.
func Parse(raw string) (*UrlObject, *api.Error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "urlparser: "+err.Error())
	}

	obj := &UrlObject{
		Schema: "HTTP",
		Path:   "/",
	}

	if u.Scheme != "" {
		obj.Schema = strings.ToUpper(u.Scheme)
	}

	if host := u.Hostname(); host != "" {
		obj.Host = host
		obj.HasHost = true
	}

	if portStr := u.Port(); portStr != "" {
		p, perr := strconv.Atoi(portStr)
		if perr != nil {
			return nil, api.NewError(api.ErrCodeInvalidArgument, "urlparser: invalid port")
		}
		obj.Port = p
		obj.HasPort = true
	} else {
		obj.Port = defaultPortFor(obj.Schema)
	}

	if u.Path != "" {
		obj.Path = u.Path
		obj.HasPath = true
	}

	if u.RawQuery != "" {
		obj.Query = u.RawQuery
		obj.HasQuery = true
	}

	if u.Fragment != "" {
		obj.Fragment = u.Fragment
		obj.HasFragment = true
	}

	return obj, nil
}
