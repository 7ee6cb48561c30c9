//go:build linux
// +build linux

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package handle

import "golang.org/x/sys/unix"

func closeFD(fd uintptr) error {
	return unix.Close(int(fd))
}

// readFD performs one non-blocking read attempt. n==0, err==nil means EOF;
// err==unix.EAGAIN means "try again once the reactor says readable".
func readFD(fd uintptr, buf []byte) (int, error) {
	n, err := unix.Read(int(fd), buf)
	return n, err
}

func writeFD(fd uintptr, buf []byte) (int, error) {
	n, err := unix.Write(int(fd), buf)
	return n, err
}

func shutdownWriteFD(fd uintptr) error {
	return unix.Shutdown(int(fd), unix.SHUT_WR)
}

func isAgain(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK
}
