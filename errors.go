// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import (
	"errors"
	"fmt"
)

// Sentinel errors returned from Line.Read/Write and Acceptor.Accept.
//
// These mirror cppio's negative error codes (eTimeout, eConnectionLost,
// eTooBigBuffer) but follow Go convention: compare with errors.Is rather
// than a numeric sentinel.
var (
	// ErrTimeout reports that a bounded-wait operation elapsed with no progress.
	ErrTimeout = errors.New("line: timeout")

	// ErrConnectionLost reports that the peer closed, or the queue was
	// disconnected, while the caller was blocked or about to block.
	ErrConnectionLost = errors.New("line: connection lost")

	// ErrTooBigBuffer reports that a write exceeded the queue's capacity.
	ErrTooBigBuffer = errors.New("line: buffer too big for queue")

	// ErrUnsupportedOption reports that SetOption was given an option the
	// backend does not implement.
	ErrUnsupportedOption = errors.New("line: unsupported option")

	// ErrNotPollable reports that Poller.Add was given a handle that is
	// not compatible with readiness polling.
	ErrNotPollable = errors.New("line: not pollable")

	// ErrNoFactory reports that no registered LineFactory claims a URI scheme.
	ErrNoFactory = errors.New("line: no factory for scheme")

	// ErrBadURI reports a URI missing the "scheme://address" delimiter.
	ErrBadURI = errors.New("line: malformed uri, want scheme://address")

	// errShortBuffer reports that a declared frame length would overrun
	// the buffer being decoded.
	errShortBuffer = errors.New("line: frame length overruns buffer")

	// errDuplicateAddress reports that an inproc acceptor already exists
	// for the requested address.
	errDuplicateAddress = errors.New("line: acceptor address already in use")

	// errBadAddress reports a malformed backend-specific address (e.g. a
	// "tcp" address missing the ":port" suffix).
	errBadAddress = errors.New("line: malformed address")
)

// IoError reports a construction-time failure: a duplicate acceptor
// address, a backend-specific setup failure, and the like. It is the Go
// counterpart of cppio::IoException — distinguished from the read/write
// sentinels above because callers need a message, not just a kind.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("line: %s", e.Op)
	}
	return fmt.Sprintf("line: %s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

func newIoError(op string, err error) error {
	return &IoError{Op: op, Err: err}
}
