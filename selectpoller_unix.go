// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package line

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

type registration struct {
	p      Pollable
	events Event
}

// SelectPoller is a concrete POSIX Poller built on select(2), grounded on
// original_source/src/common/select_poller.cpp. It uses
// golang.org/x/sys/unix instead of cgo.
type SelectPoller struct {
	mu     sync.Mutex
	regs   []registration
	events map[Pollable]Event
}

// NewSelectPoller returns an empty SelectPoller.
func NewSelectPoller() *SelectPoller {
	return &SelectPoller{events: make(map[Pollable]Event)}
}

func (sp *SelectPoller) Add(p Pollable, events Event) error {
	if _, ok := p.NativeHandle(); !ok {
		return ErrNotPollable
	}
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.regs = append(sp.regs, registration{p: p, events: events})
	return nil
}

func (sp *SelectPoller) Remove(p Pollable) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	for i, r := range sp.regs {
		if r.p == p {
			sp.regs = append(sp.regs[:i], sp.regs[i+1:]...)
			return
		}
	}
}

func fdSet(set *unix.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << (uint(fd) % 64)
}

func fdIsSet(set *unix.FdSet, fd int) bool {
	return set.Bits[fd/64]&(1<<(uint(fd)%64)) != 0
}

func (sp *SelectPoller) Poll(timeout time.Duration) (bool, error) {
	sp.mu.Lock()
	regs := append([]registration(nil), sp.regs...)
	sp.mu.Unlock()

	var readFds, writeFds, errFds unix.FdSet
	maxFd := 0
	for _, r := range regs {
		handle, ok := r.p.NativeHandle()
		if !ok {
			continue
		}
		fd := int(handle)
		if r.events&EventRead != 0 {
			fdSet(&readFds, fd)
		}
		if r.events&EventWrite != 0 {
			fdSet(&writeFds, fd)
		}
		if r.events&EventError != 0 {
			fdSet(&errFds, fd)
		}
		if fd > maxFd {
			maxFd = fd
		}
	}

	var tv *unix.Timeval
	if timeout > 0 {
		t := unix.NsecToTimeval(timeout.Nanoseconds())
		tv = &t
	}

	n, err := unix.Select(maxFd+1, &readFds, &writeFds, &errFds, tv)
	if err != nil {
		return false, newIoError("select poll", err)
	}

	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.events = make(map[Pollable]Event, n)
	if n == 0 {
		return false, nil
	}
	for _, r := range regs {
		handle, ok := r.p.NativeHandle()
		if !ok {
			continue
		}
		fd := int(handle)
		var ev Event
		if fdIsSet(&readFds, fd) {
			ev |= EventRead
		}
		if fdIsSet(&writeFds, fd) {
			ev |= EventWrite
		}
		if fdIsSet(&errFds, fd) {
			ev |= EventError
		}
		if ev != EventNone {
			sp.events[r.p] = ev
		}
	}
	return true, nil
}

func (sp *SelectPoller) EventsFor(p Pollable) Event {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.events[p]
}
