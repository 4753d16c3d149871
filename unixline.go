// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !windows

package line

import (
	"errors"
	"net"
	"os"
	"time"
)

// unixLine is the "local" scheme's Line on POSIX: a Unix-domain stream
// socket, grounded on original_source/src/posix/io_socket.h's UnixSocket.
type unixLine struct {
	conn *net.UnixConn

	recvTimeout time.Duration
	sendTimeout time.Duration
}

func newUnixLine(conn *net.UnixConn) *unixLine { return &unixLine{conn: conn} }

func (l *unixLine) Read(buf []byte) (int, error) {
	if l.recvTimeout > 0 {
		_ = l.conn.SetReadDeadline(time.Now().Add(l.recvTimeout))
	} else {
		_ = l.conn.SetReadDeadline(time.Time{})
	}
	n, err := l.conn.Read(buf)
	if err != nil {
		return n, classifyNetErr(err)
	}
	return n, nil
}

func (l *unixLine) Write(buf []byte) (int, error) {
	if l.sendTimeout > 0 {
		_ = l.conn.SetWriteDeadline(time.Now().Add(l.sendTimeout))
	} else {
		_ = l.conn.SetWriteDeadline(time.Time{})
	}
	n, err := l.conn.Write(buf)
	if err != nil {
		return n, classifyNetErr(err)
	}
	return n, nil
}

func (l *unixLine) SetOption(opt LineOption, value time.Duration) error {
	switch opt {
	case ReceiveTimeout:
		l.recvTimeout = value
	case SendTimeout:
		l.sendTimeout = value
	default:
		return ErrUnsupportedOption
	}
	return nil
}

func (l *unixLine) NativeHandle() (uintptr, bool) {
	raw, err := l.conn.SyscallConn()
	if err != nil {
		return 0, false
	}
	var fd uintptr
	_ = raw.Control(func(h uintptr) { fd = h })
	return fd, true
}

func (l *unixLine) Close() error { return l.conn.Close() }

type unixAcceptor struct {
	ln   *net.UnixListener
	path string
}

func (a *unixAcceptor) Accept(timeout time.Duration) (Line, error) {
	if timeout > 0 {
		_ = a.ln.SetDeadline(time.Now().Add(timeout))
	} else {
		_ = a.ln.SetDeadline(time.Time{})
	}
	conn, err := a.ln.AcceptUnix()
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, nil
		}
		return nil, newIoError("unix accept", err)
	}
	return newUnixLine(conn), nil
}

func (a *unixAcceptor) NativeHandle() (uintptr, bool) {
	raw, err := a.ln.SyscallConn()
	if err != nil {
		return 0, false
	}
	var fd uintptr
	_ = raw.Control(func(h uintptr) { fd = h })
	return fd, true
}

func (a *unixAcceptor) Close() error {
	err := a.ln.Close()
	_ = os.Remove(a.path)
	return err
}

// UnixLineFactory is the "local" scheme's LineFactory on POSIX. Addresses
// are absolute filesystem paths, per spec.md §4.8.
type UnixLineFactory struct{}

func (f *UnixLineFactory) Scheme() string { return "local" }

func (f *UnixLineFactory) CreateClient(address string) (Line, error) {
	addr, err := net.ResolveUnixAddr("unix", address)
	if err != nil {
		return nil, newIoError("unix resolve "+address, err)
	}
	conn, err := net.DialUnix("unix", nil, addr)
	if err != nil {
		return nil, newIoError("unix dial "+address, err)
	}
	return newUnixLine(conn), nil
}

func (f *UnixLineFactory) CreateServer(address string) (Acceptor, error) {
	addr, err := net.ResolveUnixAddr("unix", address)
	if err != nil {
		return nil, newIoError("unix resolve "+address, err)
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, newIoError("unix listen "+address, err)
	}
	return &unixAcceptor{ln: ln, path: address}, nil
}
