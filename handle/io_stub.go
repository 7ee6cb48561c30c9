//go:build !linux && !windows
// +build !linux,!windows

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package handle

import "errors"

var errUnsupported = errors.New("handle: unsupported platform")

func closeFD(fd uintptr) error                       { return errUnsupported }
func readFD(fd uintptr, buf []byte) (int, error)      { return 0, errUnsupported }
func writeFD(fd uintptr, buf []byte) (int, error)     { return 0, errUnsupported }
func shutdownWriteFD(fd uintptr) error                { return errUnsupported }
func isAgain(err error) bool                          { return false }
