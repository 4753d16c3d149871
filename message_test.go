// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameConstructorsAndAccessors(t *testing.T) {
	require.Equal(t, uint8(0x7f), FrameFromUint8(0x7f).Uint8())
	require.Equal(t, uint16(0xbeef), FrameFromUint16(0xbeef).Uint16())
	require.Equal(t, uint32(0xdeadbeef), FrameFromUint32(0xdeadbeef).Uint32())
	require.Equal(t, "hello", FrameFromString("hello").String())
	require.Equal(t, 5, FrameFromString("hello").Len())
}

func TestMessageAppendFrameCountClear(t *testing.T) {
	m := NewMessage()
	require.Equal(t, 0, m.FrameCount())

	m.AppendFrame(FrameFromString("a"))
	m.AppendFrame(FrameFromString("bb"))
	require.Equal(t, 2, m.FrameCount())
	require.Equal(t, "a", m.Frame(0).String())
	require.Equal(t, "bb", m.Frame(1).String())

	m.Clear()
	require.Equal(t, 0, m.FrameCount())
}

func TestMessageFrameOutOfRangePanics(t *testing.T) {
	m := NewMessage()
	require.Panics(t, func() { m.Frame(0) })
}

func TestMessageEncodeDecodeRoundTrip(t *testing.T) {
	m := NewMessage()
	m.AppendFrame(FrameFromString("hello"))
	m.AppendFrame(FrameFromUint32(42))
	m.AppendFrame(Frame{}) // zero-length frame must round-trip too

	buf := EncodeMessage(m)
	decoded, err := DecodeMessage(buf)
	require.NoError(t, err)
	require.Equal(t, m.FrameCount(), decoded.FrameCount())
	require.Equal(t, "hello", decoded.Frame(0).String())
	require.Equal(t, uint32(42), decoded.Frame(1).Uint32())
	require.Equal(t, 0, decoded.Frame(2).Len())
}

func TestMessageDecodeTruncatedBufferFails(t *testing.T) {
	_, err := DecodeMessage([]byte{0, 0})
	require.Error(t, err)

	m := NewMessage()
	m.AppendFrame(FrameFromString("abcdef"))
	buf := EncodeMessage(m)
	_, err = DecodeMessage(buf[:len(buf)-1])
	require.Error(t, err)
}

func TestMessageDecodeEmptyMessage(t *testing.T) {
	m := NewMessage()
	buf := EncodeMessage(m)
	decoded, err := DecodeMessage(buf)
	require.NoError(t, err)
	require.Equal(t, 0, decoded.FrameCount())
}
