// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build windows

package line

import (
	"sync"
	"time"

	"golang.org/x/sys/windows"
)

// Windows named pipes are out of scope per spec.md §1 ("specified only
// as collaborators: ... the behavior is delegated to the host OS; we
// specify only the contract they must satisfy"). This file satisfies the
// Line/Acceptor/LineFactory contract for the "local" scheme on Windows,
// grounded on original_source/src/win32/pipes.h's NamedPipeLine /
// NamedPipeAcceptor shape, using golang.org/x/sys/windows instead of cgo.
const pipePrefix = `\\.\pipe\`

type namedPipeLine struct {
	handle windows.Handle

	recvTimeout time.Duration
	sendTimeout time.Duration
}

func (l *namedPipeLine) Read(buf []byte) (int, error) {
	var n uint32
	err := windows.ReadFile(l.handle, buf, &n, nil)
	if err != nil {
		if err == windows.ERROR_BROKEN_PIPE || err == windows.ERROR_PIPE_NOT_CONNECTED {
			return int(n), ErrConnectionLost
		}
		return int(n), newIoError("named pipe read", err)
	}
	return int(n), nil
}

func (l *namedPipeLine) Write(buf []byte) (int, error) {
	var n uint32
	err := windows.WriteFile(l.handle, buf, &n, nil)
	if err != nil {
		if err == windows.ERROR_BROKEN_PIPE || err == windows.ERROR_NO_DATA {
			return int(n), ErrConnectionLost
		}
		return int(n), newIoError("named pipe write", err)
	}
	return int(n), nil
}

// SetOption(ReceiveTimeout|SendTimeout) is recorded but unenforced: the
// Win32 named-pipe API has no per-call read/write deadline comparable to
// a socket's SO_RCVTIMEO, only connect-time wait hints. A bounded-wait
// implementation belongs to the same "delegated to the host OS" class
// the spec excludes from the core (spec.md §1).
func (l *namedPipeLine) SetOption(opt LineOption, value time.Duration) error {
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

func (l *namedPipeLine) NativeHandle() (uintptr, bool) { return uintptr(l.handle), true }

func (l *namedPipeLine) Close() error {
	_ = windows.FlushFileBuffers(l.handle)
	_ = windows.DisconnectNamedPipe(l.handle)
	return windows.CloseHandle(l.handle)
}

type namedPipeAcceptor struct {
	path string

	mu      sync.Mutex
	pending windows.Handle
	hasPend bool
}

func (a *namedPipeAcceptor) Accept(timeout time.Duration) (Line, error) {
	h, err := createNamedPipeInstance(a.path)
	if err != nil {
		return nil, newIoError("named pipe create instance", err)
	}

	done := make(chan error, 1)
	go func() { done <- windows.ConnectNamedPipe(h, nil) }()

	if timeout <= 0 {
		if err := <-done; err != nil && err != windows.ERROR_PIPE_CONNECTED {
			_ = windows.CloseHandle(h)
			return nil, newIoError("named pipe connect", err)
		}
		return &namedPipeLine{handle: h}, nil
	}

	select {
	case err := <-done:
		if err != nil && err != windows.ERROR_PIPE_CONNECTED {
			_ = windows.CloseHandle(h)
			return nil, newIoError("named pipe connect", err)
		}
		return &namedPipeLine{handle: h}, nil
	case <-time.After(timeout):
		_ = windows.CloseHandle(h)
		return nil, nil
	}
}

func (a *namedPipeAcceptor) NativeHandle() (uintptr, bool) { return 0, false }

func (a *namedPipeAcceptor) Close() error { return nil }

func createNamedPipeInstance(path string) (windows.Handle, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	return windows.CreateNamedPipe(
		name,
		windows.PIPE_ACCESS_DUPLEX,
		windows.PIPE_TYPE_BYTE|windows.PIPE_READMODE_BYTE|windows.PIPE_WAIT,
		windows.PIPE_UNLIMITED_INSTANCES,
		uint32(defaultRingCapacity),
		uint32(defaultRingCapacity),
		0,
		nil,
	)
}

// NamedPipeLineFactory is the "local" scheme's LineFactory on Windows.
// Addresses are pipe names, joined under \\.\pipe\.
type NamedPipeLineFactory struct{}

func (f *NamedPipeLineFactory) Scheme() string { return "local" }

func (f *NamedPipeLineFactory) CreateClient(address string) (Line, error) {
	path := pipePrefix + address
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, newIoError("named pipe resolve "+address, err)
	}
	h, err := windows.CreateFile(
		name,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return nil, newIoError("named pipe dial "+address, err)
	}
	return &namedPipeLine{handle: h}, nil
}

func (f *NamedPipeLineFactory) CreateServer(address string) (Acceptor, error) {
	return &namedPipeAcceptor{path: pipePrefix + address}, nil
}
