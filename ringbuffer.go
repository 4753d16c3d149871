// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import "sync/atomic"

// ringBuffer is a fixed-capacity single-producer/single-consumer byte
// queue. Exactly one goroutine may call write and exactly one goroutine
// may call read concurrently; the type enforces this by convention, the
// same contract drgolem-ringbuffer documents for its own SPSC buffer.
//
// One slot is always reserved to distinguish full from empty: usable
// capacity is cap-1. rd and wr are monotonically increasing counts (never
// wrapped themselves); indexing into buf takes them modulo cap. The
// writer publishes new bytes by storing the advanced wr with release
// semantics after the copy; the reader observes wr with acquire semantics
// before copying out the bytes it covers. atomic.Uint64 gives Go's
// sequentially consistent ordering, a strict superset of the acquire/
// release discipline this requires.
type ringBuffer struct {
	buf []byte
	cap int

	wr atomic.Uint64 // advanced by the writer only
	rd atomic.Uint64 // advanced by the reader only
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity < 2 {
		capacity = 2
	}
	return &ringBuffer{buf: make([]byte, capacity), cap: capacity}
}

// availableRead returns the current read occupancy.
func (r *ringBuffer) availableRead() int {
	return int(r.wr.Load() - r.rd.Load())
}

// availableWrite returns cap-1 minus the current occupancy.
func (r *ringBuffer) availableWrite() int {
	return r.cap - 1 - r.availableRead()
}

// write copies up to len(src) bytes into the free region and returns the
// number of bytes actually copied. It never blocks. If the free region
// straddles the end of buf, the copy is split in two.
func (r *ringBuffer) write(src []byte) int {
	n := len(src)
	if n == 0 {
		return 0
	}
	free := r.availableWrite()
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}

	wr := r.wr.Load()
	start := int(wr % uint64(r.cap))
	end := start + n
	if end <= r.cap {
		copy(r.buf[start:end], src[:n])
	} else {
		first := r.cap - start
		copy(r.buf[start:], src[:first])
		copy(r.buf[:end-r.cap], src[first:n])
	}
	r.wr.Store(wr + uint64(n)) // release: publishes the bytes just copied
	return n
}

// read copies up to len(dst) bytes from the occupied region into dst and
// returns the number of bytes actually copied. It never blocks.
func (r *ringBuffer) read(dst []byte) int {
	n := len(dst)
	if n == 0 {
		return 0
	}
	occ := r.availableRead() // acquire: observes all writes below this wr
	if n > occ {
		n = occ
	}
	if n == 0 {
		return 0
	}

	rd := r.rd.Load()
	start := int(rd % uint64(r.cap))
	end := start + n
	if end <= r.cap {
		copy(dst[:n], r.buf[start:end])
	} else {
		first := r.cap - start
		copy(dst[:first], r.buf[start:])
		copy(dst[first:n], r.buf[:end-r.cap])
	}
	r.rd.Store(rd + uint64(n))
	return n
}
