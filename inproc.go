// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import (
	"sync"
	"time"
)

// defaultRingCapacity is the default size of the two queues backing an
// in-process connection. It is tunable via WithRingBufferCapacity or
// InprocLineFactory.RingBufferCapacity; any positive value is used as
// given, and it is not checked to be a power of two or >= 1024.
const defaultRingCapacity = 65536

// dataQueue turns a non-blocking ringBuffer into a blocking byte pipe that
// honours connection lifecycle: Read/Write block on the buffer's
// data/space predicates and unblock on disconnect with ErrConnectionLost.
//
// There is exactly one producer and one consumer per dataQueue: the two
// InprocLines sharing a queue write into it (producer) and read out of it
// (consumer) from opposite ends of one connection.
type dataQueue struct {
	rb *ringBuffer

	mu        sync.Mutex
	dataCond  *sync.Cond
	spaceCond *sync.Cond
	connected bool
}

func newDataQueue(capacity int) *dataQueue {
	q := &dataQueue{rb: newRingBuffer(capacity)}
	q.dataCond = sync.NewCond(&q.mu)
	q.spaceCond = sync.NewCond(&q.mu)
	return q
}

// setConnected flips the connection flag. false->true happens once, at
// pairing time. true->false broadcasts both conditions so every blocked
// caller wakes and either completes with remaining data or fails with
// ErrConnectionLost.
func (q *dataQueue) setConnected(c bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if c {
		q.connected = true
		return
	}
	if q.connected {
		q.connected = false
		q.dataCond.Broadcast()
		q.spaceCond.Broadcast()
	}
}

// condWaitTimeout waits on cond, which must be held via q.mu, for at most
// d before returning. sync.Cond has no native timed wait, so a one-shot
// timer broadcasts on expiry; the timer is stopped once the wait returns
// by any means, including a regular signal.
func (q *dataQueue) condWaitTimeout(cond *sync.Cond, d time.Duration) {
	timer := time.AfterFunc(d, func() {
		q.mu.Lock()
		cond.Broadcast()
		q.mu.Unlock()
	})
	defer timer.Stop()
	cond.Wait()
}

// Read blocks until at least one byte is available or the queue is
// disconnected with an empty buffer (ErrConnectionLost). It wakes one
// writer waiting for space after consuming.
func (q *dataQueue) Read(dst []byte) (int, error) {
	q.mu.Lock()
	for q.rb.availableRead() == 0 && q.connected {
		q.dataCond.Wait()
	}
	if q.rb.availableRead() == 0 && !q.connected {
		q.mu.Unlock()
		return 0, ErrConnectionLost
	}
	q.mu.Unlock()

	n := q.rb.read(dst)

	q.mu.Lock()
	q.spaceCond.Signal()
	q.mu.Unlock()
	return n, nil
}

// ReadTimeout is Read bounded by d. If no data arrives within d, it
// returns (0, nil): a plain timeout, not a failure. If the queue becomes
// disconnected with nothing buffered — whether before or at the deadline —
// it fails with ErrConnectionLost instead.
func (q *dataQueue) ReadTimeout(dst []byte, d time.Duration) (int, error) {
	deadline := time.Now().Add(d)

	q.mu.Lock()
	for q.rb.availableRead() == 0 && q.connected {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			if q.rb.availableRead() == 0 && !q.connected {
				q.mu.Unlock()
				return 0, ErrConnectionLost
			}
			q.mu.Unlock()
			return 0, nil
		}
		q.condWaitTimeout(q.dataCond, remaining)
	}
	if q.rb.availableRead() == 0 && !q.connected {
		q.mu.Unlock()
		return 0, ErrConnectionLost
	}
	q.mu.Unlock()

	n := q.rb.read(dst)

	q.mu.Lock()
	q.spaceCond.Signal()
	q.mu.Unlock()
	return n, nil
}

// Write fails immediately with ErrTooBigBuffer if src can never fit the
// queue's capacity. Otherwise it blocks until enough space is free, then
// writes the whole of src in one ringBuffer.write call (a single write
// call never sees a partial result once space has been reserved for it),
// waking one blocked reader afterward. If the queue disconnects while
// blocked, it fails with ErrConnectionLost.
func (q *dataQueue) Write(src []byte) (int, error) {
	if len(src) >= q.rb.cap {
		return 0, ErrTooBigBuffer
	}

	q.mu.Lock()
	for q.rb.availableWrite() < len(src) && q.connected {
		q.spaceCond.Wait()
	}
	if q.rb.availableWrite() < len(src) && !q.connected {
		q.mu.Unlock()
		return 0, ErrConnectionLost
	}
	q.mu.Unlock()

	n := q.rb.write(src)

	q.mu.Lock()
	q.dataCond.Signal()
	q.mu.Unlock()
	return n, nil
}

// InprocLine is an in-process Line: two shared dataQueues, "in" (drained
// by Read) and "out" (appended to by Write). The two Lines constituting
// one connection share queues crosswise: A.in == B.out and A.out == B.in.
type InprocLine struct {
	address string

	mu   sync.Mutex
	cond *sync.Cond
	in   *dataQueue
	out  *dataQueue

	recvTimeout time.Duration
}

// newPendingInprocLine constructs the client side of a connection: the
// address is remembered but the queues are unset until a server pairs
// with it via pairWithClient.
func newPendingInprocLine(address string) *InprocLine {
	l := &InprocLine{address: address}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// pairWithClient performs server-side pairing: it allocates two fresh
// dataQueues, installs them crosswise on both lines, flips both to
// connected, and wakes the peer's waitForConnection. It returns the new
// server-side InprocLine.
func pairWithClient(client *InprocLine, ringCapacity int) *InprocLine {
	server := &InprocLine{address: client.address}
	server.cond = sync.NewCond(&server.mu)

	serverIn := newDataQueue(ringCapacity)
	serverOut := newDataQueue(ringCapacity)

	client.mu.Lock()
	client.out = serverIn
	client.in = serverOut
	client.mu.Unlock()

	server.in = serverIn
	server.out = serverOut

	serverOut.setConnected(true)
	serverIn.setConnected(true)

	client.mu.Lock()
	client.cond.Broadcast()
	client.mu.Unlock()

	return server
}

// waitForConnection blocks until a server has paired with this (client)
// line, installing its queues.
func (l *InprocLine) waitForConnection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.in == nil || l.out == nil {
		l.cond.Wait()
	}
}

// Address returns the line's advertised address.
func (l *InprocLine) Address() string { return l.address }

// Read delegates to the receive-timeout variant of the "in" queue when a
// timeout is configured, else blocks indefinitely.
func (l *InprocLine) Read(buf []byte) (int, error) {
	l.mu.Lock()
	timeout := l.recvTimeout
	in := l.in
	l.mu.Unlock()

	if timeout > 0 {
		return in.ReadTimeout(buf, timeout)
	}
	return in.Read(buf)
}

// Write delegates to the "out" queue.
func (l *InprocLine) Write(buf []byte) (int, error) {
	l.mu.Lock()
	out := l.out
	l.mu.Unlock()
	return out.Write(buf)
}

// SetOption supports ReceiveTimeout; SendTimeout is intentionally
// unsupported on the in-process backend (spec.md §9).
func (l *InprocLine) SetOption(opt LineOption, value time.Duration) error {
	switch opt {
	case ReceiveTimeout:
		l.mu.Lock()
		l.recvTimeout = value
		l.mu.Unlock()
		return nil
	default:
		return ErrUnsupportedOption
	}
}

// NativeHandle reports that in-process lines have no OS-pollable handle.
func (l *InprocLine) NativeHandle() (uintptr, bool) { return 0, false }

// Close flips both queues to disconnected, releasing any peer blocked on
// them with ErrConnectionLost.
func (l *InprocLine) Close() error {
	l.mu.Lock()
	in, out := l.in, l.out
	l.mu.Unlock()
	if out != nil {
		out.setConnected(false)
	}
	if in != nil {
		in.setConnected(false)
	}
	return nil
}

// rendezvous is the process-wide singleton matching pending client
// connect requests to server acceptors by address. A single mutex and
// condition variable guard a list of live acceptors and a FIFO queue of
// pending clients; no two live acceptors may share an address.
type rendezvous struct {
	mu        sync.Mutex
	cond      *sync.Cond
	acceptors []*InprocAcceptor
	pending   []*InprocLine
}

func newRendezvous() *rendezvous {
	r := &rendezvous{}
	r.cond = sync.NewCond(&r.mu)
	return r
}

var globalRendezvous = newRendezvous()

// addAcceptor registers a, failing if an acceptor with the same address
// is already live.
func (r *rendezvous) addAcceptor(a *InprocAcceptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.acceptors {
		if existing.address == a.address {
			return newIoError("create inproc acceptor", errDuplicateAddress)
		}
	}
	r.acceptors = append(r.acceptors, a)
	return nil
}

// removeAcceptor deregisters a. It is idempotent: removing an acceptor
// that was already removed (or never registered) is a no-op, mirroring
// the original's catch-all on double deregistration.
func (r *rendezvous) removeAcceptor(a *InprocAcceptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.acceptors {
		if existing == a {
			r.acceptors = append(r.acceptors[:i], r.acceptors[i+1:]...)
			return
		}
	}
}

// pushPending enqueues a new client connect request and wakes every
// waiting acceptor to re-scan the queue.
func (r *rendezvous) pushPending(l *InprocLine) {
	r.mu.Lock()
	r.pending = append(r.pending, l)
	r.mu.Unlock()
	r.cond.Broadcast()
}

// accept implements the bounded-wait match: scan the pending queue for
// the oldest entry whose address equals addr (FIFO within an address);
// on a match, remove it and return it; otherwise wait for the remaining
// timeout and rescan.
func (r *rendezvous) accept(addr string, timeout time.Duration) *InprocLine {
	deadline := time.Now().Add(timeout)

	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		for i, pending := range r.pending {
			if pending.address == addr {
				r.pending = append(r.pending[:i], r.pending[i+1:]...)
				return pending
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		r.condWaitTimeout(remaining)
	}
}

func (r *rendezvous) condWaitTimeout(d time.Duration) {
	timer := time.AfterFunc(d, func() {
		r.mu.Lock()
		r.cond.Broadcast()
		r.mu.Unlock()
	})
	defer timer.Stop()
	r.cond.Wait()
}

// InprocAcceptor accepts in-process connections for one address. It
// registers itself in the global rendezvous at construction and
// deregisters at Close.
type InprocAcceptor struct {
	address      string
	ringCapacity int

	closeOnce sync.Once
}

func newInprocAcceptor(address string, ringCapacity int) (*InprocAcceptor, error) {
	a := &InprocAcceptor{address: address, ringCapacity: ringCapacity}
	if err := globalRendezvous.addAcceptor(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Accept waits up to timeout for a pending client at this acceptor's
// address. It returns (nil, nil) on timeout.
func (a *InprocAcceptor) Accept(timeout time.Duration) (Line, error) {
	client := globalRendezvous.accept(a.address, timeout)
	if client == nil {
		return nil, nil
	}
	server := pairWithClient(client, a.ringCapacity)
	return server, nil
}

// NativeHandle reports that in-process acceptors have no OS-pollable handle.
func (a *InprocAcceptor) NativeHandle() (uintptr, bool) { return 0, false }

// Close deregisters the acceptor, freeing its address for reuse.
func (a *InprocAcceptor) Close() error {
	a.closeOnce.Do(func() { globalRendezvous.removeAcceptor(a) })
	return nil
}

// InprocLineFactory is the "inproc" scheme's LineFactory.
type InprocLineFactory struct {
	// RingBufferCapacity overrides the default 64KiB queue size for every
	// connection this factory creates. Zero means use defaultRingCapacity.
	RingBufferCapacity int
}

func (f *InprocLineFactory) Scheme() string { return "inproc" }

func (f *InprocLineFactory) capacity() int {
	if f.RingBufferCapacity > 0 {
		return f.RingBufferCapacity
	}
	return defaultRingCapacity
}

// CreateClient allocates a pending line, publishes it to the rendezvous
// queue, and blocks until a matching acceptor pairs with it.
func (f *InprocLineFactory) CreateClient(address string) (Line, error) {
	l := newPendingInprocLine(address)
	globalRendezvous.pushPending(l)
	l.waitForConnection()
	return l, nil
}

// CreateServer registers a new acceptor for address, failing if one is
// already live.
func (f *InprocLineFactory) CreateServer(address string) (Acceptor, error) {
	return newInprocAcceptor(address, f.capacity())
}
