//go:build windows
// +build windows

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package tcp

import (
	"net"

	"golang.org/x/sys/windows"
)

func sockaddrFor(addr NetAddr) (windows.Sockaddr, error) {
	if addr.IPv6 {
		var sa windows.SockaddrInet6
		sa.Port = addr.Port
		if addr.IP != "" {
			ip := net.ParseIP(addr.IP).To16()
			if ip == nil {
				return nil, windows.EINVAL
			}
			copy(sa.Addr[:], ip)
		}
		return &sa, nil
	}
	var sa windows.SockaddrInet4
	sa.Port = addr.Port
	if addr.IP != "" {
		ip := net.ParseIP(addr.IP).To4()
		if ip == nil {
			return nil, windows.EINVAL
		}
		copy(sa.Addr[:], ip)
	}
	return &sa, nil
}

func addrFromSockaddr(sa windows.Sockaddr) NetAddr {
	switch v := sa.(type) {
	case *windows.SockaddrInet4:
		return NetAddr{IP: net.IP(v.Addr[:]).String(), Port: v.Port}
	case *windows.SockaddrInet6:
		return NetAddr{IP: net.IP(v.Addr[:]).String(), Port: v.Port, IPv6: true}
	default:
		return NetAddr{}
	}
}

func setNonBlocking(fd uintptr) error {
	return windows.SetNonblock(windows.Handle(fd), true)
}

func closeFD(fd uintptr) error {
	return windows.Closesocket(windows.Handle(fd))
}

func createListenSocket(addr NetAddr, backlog int) (uintptr, error) {
	domain := windows.AF_INET
	if addr.IPv6 {
		domain = windows.AF_INET6
	}
	fd, err := windows.Socket(domain, windows.SOCK_STREAM, windows.IPPROTO_TCP)
	if err != nil {
		return 0, err
	}
	if err := windows.SetsockoptInt(fd, windows.SOL_SOCKET, windows.SO_REUSEADDR, 1); err != nil {
		_ = windows.Closesocket(fd)
		return 0, err
	}
	sa, err := sockaddrFor(addr)
	if err != nil {
		_ = windows.Closesocket(fd)
		return 0, err
	}
	if err := windows.Bind(fd, sa); err != nil {
		_ = windows.Closesocket(fd)
		return 0, err
	}
	if err := windows.Listen(fd, backlog); err != nil {
		_ = windows.Closesocket(fd)
		return 0, err
	}
	if err := setNonBlocking(uintptr(fd)); err != nil {
		_ = windows.Closesocket(fd)
		return 0, err
	}
	return uintptr(fd), nil
}

func acceptOnce(fd uintptr) (uintptr, error) {
	nfd, _, err := windows.Accept(windows.Handle(fd))
	if err != nil {
		return 0, err
	}
	return uintptr(nfd), nil
}

func createConnectingSocket(addr NetAddr) (uintptr, error) {
	domain := windows.AF_INET
	if addr.IPv6 {
		domain = windows.AF_INET6
	}
	fd, err := windows.Socket(domain, windows.SOCK_STREAM, windows.IPPROTO_TCP)
	if err != nil {
		return 0, err
	}
	if err := setNonBlocking(uintptr(fd)); err != nil {
		_ = windows.Closesocket(fd)
		return 0, err
	}
	sa, err := sockaddrFor(addr)
	if err != nil {
		_ = windows.Closesocket(fd)
		return 0, err
	}
	err = windows.Connect(fd, sa)
	if err != nil && err != windows.WSAEWOULDBLOCK {
		_ = windows.Closesocket(fd)
		return 0, err
	}
	return uintptr(fd), nil
}

func getSocketError(fd uintptr) (int, error) {
	errno, err := windows.GetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_ERROR)
	return errno, err
}

func setNoDelay(fd uintptr, enable bool) error {
	v := 0
	if enable {
		v = 1
	}
	return windows.SetsockoptInt(windows.Handle(fd), windows.IPPROTO_TCP, windows.TCP_NODELAY, v)
}

func setKeepAlive(fd uintptr, enable bool, delaySeconds int) error {
	v := 0
	if enable {
		v = 1
	}
	return windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_KEEPALIVE, v)
}

func getSockName(fd uintptr) (NetAddr, error) {
	sa, err := windows.Getsockname(windows.Handle(fd))
	if err != nil {
		return NetAddr{}, err
	}
	return addrFromSockaddr(sa), nil
}

func getPeerName(fd uintptr) (NetAddr, error) {
	sa, err := windows.Getpeername(windows.Handle(fd))
	if err != nil {
		return NetAddr{}, err
	}
	return addrFromSockaddr(sa), nil
}
