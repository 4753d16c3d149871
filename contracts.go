// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package line provides a uniform byte-stream endpoint ("Line") and
// connection acceptor over multiple interchangeable backends — an
// in-process queue, Unix-domain sockets, TCP sockets, and (contract-only)
// Windows named pipes — dispatched by URI scheme through a LineManager.
//
// A MessageProtocol layers an ordered sequence of length-delimited Frames
// (a Message) on top of any Line.
//
// Scheduling model: parallel OS threads (goroutines), no task system.
// Every blocking call accepts no context.Context by design — timeouts are
// expressed as explicit millisecond/duration parameters via SetOption or
// Accept, matching the bounded-wait contract in the package this was
// ported from. Capability sets (Line, Acceptor, LineFactory) are kept
// small and are implemented as concrete types per backend, never a deep
// interface hierarchy.
package line

import "time"

// LineOption selects a configurable behavior on a Line.
type LineOption int

const (
	// ReceiveTimeout sets the bounded-wait duration for Read. A zero value
	// means block indefinitely. The option value is a time.Duration.
	ReceiveTimeout LineOption = iota + 1

	// SendTimeout configures a bounded-wait duration for Write. Supported
	// by OS-socket backends; the in-process backend always rejects it with
	// ErrUnsupportedOption (spec leaves this asymmetry in place).
	SendTimeout
)

// Line is a bidirectional byte-stream endpoint.
//
// Read blocks until at least one byte is available, the configured
// receive timeout elapses (returning 0, nil), or the peer is gone
// (returning ErrConnectionLost). Write blocks until the whole buffer is
// accepted or the peer is gone; short writes are legal only in the sense
// that a single call may accept fewer bytes than requested without error,
// and the caller is expected to loop (see MessageProtocol for the
// canonical loop). The in-process backend does not block on a buffer at
// least as large as its queue capacity: Write fails at once with
// ErrTooBigBuffer.
type Line interface {
	Pollable

	Read(buf []byte) (int, error)
	Write(buf []byte) (int, error)
	SetOption(opt LineOption, value time.Duration) error
	Close() error
}

// Acceptor produces server-side Lines for incoming connections.
type Acceptor interface {
	Pollable

	// Accept waits up to timeout for a pending connection. It returns
	// (nil, nil) on timeout, a connected Line on success, or an error for
	// anything else. With timeout <= 0 the socket and named-pipe acceptors
	// wait indefinitely, while the in-process acceptor checks its pending
	// clients once and returns (nil, nil) if none matches.
	Accept(timeout time.Duration) (Line, error)
	Close() error
}

// Pollable is satisfied by any endpoint whose underlying handle can be
// registered with a Poller. Endpoints that have no OS-pollable handle
// (e.g. InprocLine) return ok=false.
type Pollable interface {
	NativeHandle() (handle uintptr, ok bool)
}

// LineFactory is a pluggable constructor keyed by a URI scheme.
type LineFactory interface {
	Scheme() string
	CreateClient(address string) (Line, error)
	CreateServer(address string) (Acceptor, error)
}
