// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import "code.hybscloud.com/line/internal/bo"

// Frame is an immutable, owned byte block — the atomic unit of a Message.
type Frame []byte

// FrameFromUint8 builds a one-byte Frame from v.
func FrameFromUint8(v uint8) Frame { return Frame{v} }

// FrameFromUint16 builds a two-byte Frame from v in native byte order.
func FrameFromUint16(v uint16) Frame {
	b := make([]byte, 2)
	bo.Native().PutUint16(b, v)
	return b
}

// FrameFromUint32 builds a four-byte Frame from v in native byte order.
func FrameFromUint32(v uint32) Frame {
	b := make([]byte, 4)
	bo.Native().PutUint32(b, v)
	return b
}

// FrameFromString builds a Frame from the raw bytes of s.
func FrameFromString(s string) Frame { return Frame(s) }

// Uint8 interprets the frame's first byte as a uint8.
func (f Frame) Uint8() uint8 { return f[0] }

// Uint16 interprets the frame as a native-byte-order uint16.
func (f Frame) Uint16() uint16 { return bo.Native().Uint16(f) }

// Uint32 interprets the frame as a native-byte-order uint32.
func (f Frame) Uint32() uint32 { return bo.Native().Uint32(f) }

// String returns the frame's bytes as a string.
func (f Frame) String() string { return string(f) }

// Len returns the frame's length in bytes.
func (f Frame) Len() int { return len(f) }

// Message is an ordered, finite sequence of Frames, delivered atomically
// by MessageProtocol. A Message is owned by its holder; appended frames
// share its lifetime.
type Message struct {
	frames []Frame
}

// NewMessage returns an empty Message.
func NewMessage() *Message { return &Message{} }

// FrameCount returns the number of frames currently in the message.
func (m *Message) FrameCount() int { return len(m.frames) }

// Frame returns the frame at index i. It panics if i is out of range,
// matching the original's unchecked vector-index access.
func (m *Message) Frame(i int) Frame { return m.frames[i] }

// AppendFrame appends f to the end of the message.
func (m *Message) AppendFrame(f Frame) { m.frames = append(m.frames, f) }

// Clear removes all frames, resetting the message to empty.
func (m *Message) Clear() { m.frames = m.frames[:0] }

// wireSize returns the serialized size per the wire format documented on
// MessageProtocol: 4 bytes frame count, then per frame 4 bytes length
// + payload.
func (m *Message) wireSize() int64 {
	var total int64 = 4
	for _, f := range m.frames {
		total += 4 + int64(len(f))
	}
	return total
}
