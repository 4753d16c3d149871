// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import (
	"code.hybscloud.com/line/internal/bo"
)

// MessageProtocol is a length-prefixed framing codec layered on top of any
// Line. It borrows, and does not own, the Line: it carries no buffered
// bytes between calls, and every message is drained completely or the
// underlying stream is considered broken (spec.md §4.7).
//
// Wire format, all fields in native byte order (internal/bo.Native):
//
//	frame_count(4) [ frame[i].length(4) frame[i].payload(length) ]*
type MessageProtocol struct {
	ln Line
}

// NewMessageProtocol wraps ln. It does not take ownership of ln: closing
// the MessageProtocol (there is nothing to close) has no effect on ln.
func NewMessageProtocol(ln Line) *MessageProtocol {
	return &MessageProtocol{ln: ln}
}

// Line returns the underlying Line.
func (p *MessageProtocol) Line() Line { return p.ln }

// readFull loops p.ln.Read until buf is full. A short read (0 < n < len)
// resumes; a zero-progress result — whether a plain timeout (n==0, err==nil)
// or a hard failure (err!=nil) — aborts immediately, matching spec.md §4.7's
// "any read returns <= 0 aborts the entire message read".
func (p *MessageProtocol) readFull(buf []byte) error {
	got := 0
	for got < len(buf) {
		n, err := p.ln.Read(buf[got:])
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrTimeout
		}
		got += n
	}
	return nil
}

// ReadMessage reads exactly one Message from the underlying line. m must
// be empty on entry (use NewMessage or Message.Clear first).
func (p *MessageProtocol) ReadMessage(m *Message) error {
	var hdr [4]byte
	if err := p.readFull(hdr[:]); err != nil {
		return err
	}
	frameCount := bo.Native().Uint32(hdr[:])

	for i := uint32(0); i < frameCount; i++ {
		var lenbuf [4]byte
		if err := p.readFull(lenbuf[:]); err != nil {
			return err
		}
		frameLen := bo.Native().Uint32(lenbuf[:])

		payload := make([]byte, frameLen)
		if frameLen > 0 {
			if err := p.readFull(payload); err != nil {
				return err
			}
		}
		m.AppendFrame(Frame(payload))
	}
	return nil
}

// SendMessage serializes m into a contiguous buffer and writes it to the
// line, looping until every byte is accepted or the line fails.
func (p *MessageProtocol) SendMessage(m *Message) error {
	buf := EncodeMessage(m)
	off := 0
	for off < len(buf) {
		n, err := p.ln.Write(buf[off:])
		if err != nil {
			return err
		}
		off += n
	}
	return nil
}

// EncodeMessage serializes m into a freshly allocated buffer using the
// wire format documented on MessageProtocol.
func EncodeMessage(m *Message) []byte {
	buf := make([]byte, m.wireSize())
	order := bo.Native()
	order.PutUint32(buf, uint32(len(m.frames)))
	off := 4
	for _, f := range m.frames {
		order.PutUint32(buf[off:], uint32(len(f)))
		off += 4
		off += copy(buf[off:], f)
	}
	return buf
}

// DecodeMessage deserializes a Message from a complete in-memory buffer
// (as opposed to ReadMessage, which reads incrementally from a Line). It
// fails with ErrBadURI's sibling, a length error, if any declared frame
// length would overrun buf — the Go counterpart of message.cpp's
// Message::readMessage, which throws std::length_error for the same case.
func DecodeMessage(buf []byte) (*Message, error) {
	if len(buf) < 4 {
		return nil, newIoError("decode message", errShortBuffer)
	}
	order := bo.Native()
	frameCount := order.Uint32(buf)
	off := 4

	m := NewMessage()
	for i := uint32(0); i < frameCount; i++ {
		if off+4 > len(buf) {
			return nil, newIoError("decode message", errShortBuffer)
		}
		frameLen := int(order.Uint32(buf[off:]))
		off += 4
		if frameLen < 0 || off+frameLen > len(buf) {
			return nil, newIoError("decode message", errShortBuffer)
		}
		frame := make(Frame, frameLen)
		copy(frame, buf[off:off+frameLen])
		off += frameLen
		m.AppendFrame(frame)
	}
	return m, nil
}
