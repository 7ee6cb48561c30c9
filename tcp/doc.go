// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package tcp is the TCP specialization of handle.Stream, grounded on
// original_source/net.h's native::net::tcp: nodelay, keepalive,
// simultaneous_accepts, bind/bind6, getsockname/getpeername, plus the
// server-side Listen and client-side Dial surfaces from webserver.cpp and
// webclient.cpp.
package tcp
