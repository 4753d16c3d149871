// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import (
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"time"
)

// tcpLine is the "tcp" scheme's Line: a thin adapter from net.TCPConn's
// deadline-based timeouts to the SetOption(ReceiveTimeout|SendTimeout)
// contract in spec.md §4.8. OS backends are specified only as
// collaborators (spec.md §1) — this is a real, working implementation
// because Go's net package makes that cheap, not because the spec
// requires more than the contract.
type tcpLine struct {
	conn *net.TCPConn

	recvTimeout time.Duration
	sendTimeout time.Duration
}

func newTCPLine(conn *net.TCPConn) *tcpLine { return &tcpLine{conn: conn} }

func (l *tcpLine) Read(buf []byte) (int, error) {
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

func (l *tcpLine) Write(buf []byte) (int, error) {
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

func (l *tcpLine) SetOption(opt LineOption, value time.Duration) error {
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

func (l *tcpLine) NativeHandle() (uintptr, bool) {
	raw, err := l.conn.SyscallConn()
	if err != nil {
		return 0, false
	}
	var fd uintptr
	_ = raw.Control(func(h uintptr) { fd = h })
	return fd, true
}

func (l *tcpLine) Close() error { return l.conn.Close() }

// classifyNetErr maps OS-level errors per spec.md §7: a read/write
// deadline expiring maps to a plain timeout (0 bytes, nil error — the
// caller observes this via n==0); a closed peer or EOF maps to
// ErrConnectionLost; anything else is wrapped for diagnostics.
func classifyNetErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return nil
	}
	if errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ENETRESET) {
		return ErrConnectionLost
	}
	return newIoError("tcp", err)
}

type tcpAcceptor struct {
	ln *net.TCPListener
}

func (a *tcpAcceptor) Accept(timeout time.Duration) (Line, error) {
	if timeout > 0 {
		_ = a.ln.SetDeadline(time.Now().Add(timeout))
	} else {
		_ = a.ln.SetDeadline(time.Time{})
	}
	conn, err := a.ln.AcceptTCP()
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, nil
		}
		return nil, newIoError("tcp accept", err)
	}
	return newTCPLine(conn), nil
}

func (a *tcpAcceptor) NativeHandle() (uintptr, bool) {
	raw, err := a.ln.SyscallConn()
	if err != nil {
		return 0, false
	}
	var fd uintptr
	_ = raw.Control(func(h uintptr) { fd = h })
	return fd, true
}

func (a *tcpAcceptor) Close() error { return a.ln.Close() }

// TCPLineFactory is the "tcp" scheme's LineFactory. Addresses follow
// spec.md §4.8: "host:port" or "*:port" for a wildcard bind.
type TCPLineFactory struct{}

func (f *TCPLineFactory) Scheme() string { return "tcp" }

func tcpResolve(address string) (*net.TCPAddr, error) {
	host, port, ok := strings.Cut(address, ":")
	if !ok {
		return nil, newIoError("tcp resolve "+address, errBadAddress)
	}
	if host == "*" {
		host = ""
	}
	return net.ResolveTCPAddr("tcp", host+":"+port)
}

func (f *TCPLineFactory) CreateClient(address string) (Line, error) {
	addr, err := tcpResolve(address)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialTCP("tcp", nil, addr)
	if err != nil {
		return nil, newIoError("tcp dial "+address, err)
	}
	return newTCPLine(conn), nil
}

func (f *TCPLineFactory) CreateServer(address string) (Acceptor, error) {
	addr, err := tcpResolve(address)
	if err != nil {
		return nil, err
	}
	ln, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return nil, newIoError("tcp listen "+address, err)
	}
	return &tcpAcceptor{ln: ln}, nil
}
