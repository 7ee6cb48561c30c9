//go:build !linux && !windows
// +build !linux,!windows

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package tcp

import "errors"

var errUnsupported = errors.New("tcp: unsupported platform")

func setNonBlocking(fd uintptr) error                           { return errUnsupported }
func closeFD(fd uintptr) error                                  { return errUnsupported }
func createListenSocket(addr NetAddr, backlog int) (uintptr, error) { return 0, errUnsupported }
func acceptOnce(fd uintptr) (uintptr, error)                    { return 0, errUnsupported }
func createConnectingSocket(addr NetAddr) (uintptr, error)      { return 0, errUnsupported }
func getSocketError(fd uintptr) (int, error)                    { return 0, errUnsupported }
func setNoDelay(fd uintptr, enable bool) error                  { return errUnsupported }
func setKeepAlive(fd uintptr, enable bool, delaySeconds int) error { return errUnsupported }
func getSockName(fd uintptr) (NetAddr, error)                   { return NetAddr{}, errUnsupported }
func getPeerName(fd uintptr) (NetAddr, error)                   { return NetAddr{}, errUnsupported }
