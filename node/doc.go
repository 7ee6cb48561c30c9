// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package node is the event-loop driver: a reactor poll loop plus a
// next-tick callback queue, modeled directly on native::detail::node's
// prepare/check/idle/tick design. There is one Node per process, reached
// through Default(); Start runs it to completion.
package node
