//go:build windows
// +build windows

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package handle

import "golang.org/x/sys/windows"

func closeFD(fd uintptr) error {
	return windows.Closesocket(windows.Handle(fd))
}

func readFD(fd uintptr, buf []byte) (int, error) {
	var n uint32
	var flags uint32
	wbuf := windows.WSABuf{Len: uint32(len(buf)), Buf: &buf[0]}
	var overlapped windows.Overlapped
	err := windows.WSARecv(windows.Handle(fd), &wbuf, 1, &n, &flags, &overlapped, nil)
	return int(n), err
}

func writeFD(fd uintptr, buf []byte) (int, error) {
	var n uint32
	wbuf := windows.WSABuf{Len: uint32(len(buf)), Buf: &buf[0]}
	var overlapped windows.Overlapped
	err := windows.WSASend(windows.Handle(fd), &wbuf, 1, &n, 0, &overlapped, nil)
	return int(n), err
}

func shutdownWriteFD(fd uintptr) error {
	return windows.Shutdown(windows.Handle(fd), windows.SHUT_WR)
}

func isAgain(err error) bool {
	return err == windows.WSAEWOULDBLOCK
}
