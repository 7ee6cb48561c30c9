// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package handle implements the Handle/Stream abstraction from
// native::detail::handle and native::detail::stream: a reactor-registered
// descriptor with ref/unref bookkeeping and an idempotent close that runs
// synchronously (the descriptor is closed and the close callback invoked
// before Close returns), and a
// non-blocking byte stream built on top of it with read/write/shutdown/
// listen and a FIFO write queue.
package handle
