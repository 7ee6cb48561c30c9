// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package httpparser

import "strings"

// Header is a case-insensitive header map that preserves the casing of the
// first occurrence of each key, the same contract native/detail/http.h's
// http_parse_result exposes and the one badu-http's vendored header
// utilities implement for net/http.
type Header struct {
	keys   map[string]string   // lower(key) -> first-seen-case key
	values map[string][]string // lower(key) -> values, in arrival order
	order  []string            // lower(key), in first-seen order
}

// NewHeader returns an empty Header.
func NewHeader() *Header {
	return &Header{keys: make(map[string]string), values: make(map[string][]string)}
}

// setCookieKey is the one header RFC 7230 readers conventionally keep as
// distinct values rather than comma-joining — the same carve-out net/http
// makes for Set-Cookie.
const setCookieKey = "set-cookie"

// Add appends a value for key. Repeats are stored as separate values;
// Combined applies the RFC 7230 §3.2.2 comma-joining (Set-Cookie excepted).
func (h *Header) Add(key, value string) {
	lower := strings.ToLower(key)
	if _, ok := h.keys[lower]; !ok {
		h.keys[lower] = key
		h.order = append(h.order, lower)
	}
	h.values[lower] = append(h.values[lower], value)
}

// Get returns the first value recorded for key, matching net/http's
// Header.Get behavior for multi-valued headers. Use Combined for the
// comma-joined value.
func (h *Header) Get(key string) string {
	vals := h.values[strings.ToLower(key)]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// Set replaces all values for key with a single value, the way a handler
// overrides a header the parser (or the default Content-Type) already set.
func (h *Header) Set(key, value string) {
	lower := strings.ToLower(key)
	if _, ok := h.keys[lower]; !ok {
		h.keys[lower] = key
		h.order = append(h.order, lower)
	}
	h.values[lower] = []string{value}
}

// Values returns every value recorded for key, in arrival order.
func (h *Header) Values(key string) []string {
	return h.values[strings.ToLower(key)]
}

// Keys returns every header name using its first-seen casing, in the order
// each key was first added or set.
func (h *Header) Keys() []string {
	out := make([]string, 0, len(h.order))
	for _, lower := range h.order {
		out = append(out, h.keys[lower])
	}
	return out
}

// Combined returns the single value net/http-style readers see: repeats
// other than Set-Cookie comma-joined per RFC 7230 §3.2.2.
func (h *Header) Combined(key string) string {
	lower := strings.ToLower(key)
	vals := h.values[lower]
	if len(vals) == 0 {
		return ""
	}
	if lower == setCookieKey {
		return vals[0]
	}
	return strings.Join(vals, ", ")
}
