// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package nodenative is the module's root: it re-exports the single
// entrypoint, run(logic), that native/detail/node::start exposes to example
// programs.
package nodenative

import "github.com/d5/node-native/node"

// Run enters the loop after invoking logic, returning any error the loop
// or its reactor produced. It blocks until node.Stop is called from within
// logic (or one of its callbacks).
func Run(logic func()) error {
	return node.Start(logic)
}
