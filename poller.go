// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import "time"

// Event is a bitmask of readiness conditions a Poller reports, matching
// original_source/include/cppio/poller.h's LineEvent.
type Event uint8

const (
	EventNone  Event = 0
	EventRead  Event = 1 << 0
	EventWrite Event = 1 << 1
	EventError Event = 1 << 2
)

// Poller multiplexes readiness across multiple Pollables. This is
// contract-only per spec.md §1/§4.9 — its implementation is a collaborator,
// not core, because it only makes sense for backends with an OS-pollable
// handle (TCP, Unix-domain; not in-process lines). See selectpoller_unix.go
// for a concrete POSIX implementation.
type Poller interface {
	// Add registers p for the given events. It fails with ErrNotPollable
	// if p has no OS-compatible handle (Pollable.NativeHandle reports ok=false).
	Add(p Pollable, events Event) error

	// Remove deregisters p. Removing an unregistered Pollable is a no-op.
	Remove(p Pollable)

	// Poll blocks for at most timeout, or indefinitely if timeout <= 0,
	// waiting for any registered Pollable to become ready. It returns
	// whether any event fired.
	Poll(timeout time.Duration) (bool, error)

	// EventsFor returns the events observed for p by the most recent
	// successful Poll call, or EventNone if none were observed (a Poll
	// that times out leaves no events recorded).
	EventsFor(p Pollable) Event
}
