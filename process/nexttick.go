// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package process provides the thin process.nextTick surface the external
// interface names, backed by the process-wide node.
package process

import "github.com/d5/node-native/node"

// NextTick enqueues f to run after the current callback drains and before
// the next reactor wait, in the order NextTick was called.
func NextTick(f func()) {
	node.Default().AddTickCallback(f)
}
