//go:build linux
// +build linux

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package tcp

import (
	"net"

	"golang.org/x/sys/unix"
)

func sockaddrFor(addr NetAddr) (unix.Sockaddr, error) {
	if addr.IPv6 {
		var sa unix.SockaddrInet6
		sa.Port = addr.Port
		if addr.IP != "" {
			ip := net.ParseIP(addr.IP).To16()
			if ip == nil {
				return nil, unix.EINVAL
			}
			copy(sa.Addr[:], ip)
		}
		return &sa, nil
	}
	var sa unix.SockaddrInet4
	sa.Port = addr.Port
	if addr.IP != "" {
		ip := net.ParseIP(addr.IP).To4()
		if ip == nil {
			return nil, unix.EINVAL
		}
		copy(sa.Addr[:], ip)
	}
	return &sa, nil
}

func addrFromSockaddr(sa unix.Sockaddr) NetAddr {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return NetAddr{IP: net.IP(v.Addr[:]).String(), Port: v.Port}
	case *unix.SockaddrInet6:
		return NetAddr{IP: net.IP(v.Addr[:]).String(), Port: v.Port, IPv6: true}
	default:
		return NetAddr{}
	}
}

func setNonBlocking(fd uintptr) error {
	return unix.SetNonblock(int(fd), true)
}

func closeFD(fd uintptr) error {
	return unix.Close(int(fd))
}

func createListenSocket(addr NetAddr, backlog int) (uintptr, error) {
	domain := unix.AF_INET
	if addr.IPv6 {
		domain = unix.AF_INET6
	}
	fd, err := unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return 0, err
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return 0, err
	}
	sa, err := sockaddrFor(addr)
	if err != nil {
		_ = unix.Close(fd)
		return 0, err
	}
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return 0, err
	}
	if err := unix.Listen(fd, backlog); err != nil {
		_ = unix.Close(fd)
		return 0, err
	}
	return uintptr(fd), nil
}

func acceptOnce(fd uintptr) (uintptr, error) {
	nfd, _, err := unix.Accept4(int(fd), unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		return 0, err
	}
	return uintptr(nfd), nil
}

func createConnectingSocket(addr NetAddr) (uintptr, error) {
	domain := unix.AF_INET
	if addr.IPv6 {
		domain = unix.AF_INET6
	}
	fd, err := unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return 0, err
	}
	sa, err := sockaddrFor(addr)
	if err != nil {
		_ = unix.Close(fd)
		return 0, err
	}
	err = unix.Connect(fd, sa)
	if err != nil && err != unix.EINPROGRESS {
		_ = unix.Close(fd)
		return 0, err
	}
	return uintptr(fd), nil
}

func getSocketError(fd uintptr) (int, error) {
	errno, err := unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_ERROR)
	return errno, err
}

func setNoDelay(fd uintptr, enable bool) error {
	v := 0
	if enable {
		v = 1
	}
	return unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, v)
}

func setKeepAlive(fd uintptr, enable bool, delaySeconds int) error {
	v := 0
	if enable {
		v = 1
	}
	if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_KEEPALIVE, v); err != nil {
		return err
	}
	if enable && delaySeconds > 0 {
		return unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_KEEPIDLE, delaySeconds)
	}
	return nil
}

func getSockName(fd uintptr) (NetAddr, error) {
	sa, err := unix.Getsockname(int(fd))
	if err != nil {
		return NetAddr{}, err
	}
	return addrFromSockaddr(sa), nil
}

func getPeerName(fd uintptr) (NetAddr, error) {
	sa, err := unix.Getpeername(int(fd))
	if err != nil {
		return NetAddr{}, err
	}
	return addrFromSockaddr(sa), nil
}
