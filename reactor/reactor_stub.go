//go:build !linux && !windows
// +build !linux,!windows

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package reactor

import "errors"

// NewReactor reports that no poller backend exists for this platform.
func NewReactor() (Reactor, error) {
	return nil, errors.New("reactor: unsupported platform")
}
