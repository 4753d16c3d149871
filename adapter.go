// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import "io"

// LineReadWriter adapts a Line to io.ReadWriter, so a Line can be handed
// to anything in the standard io ecosystem (io.Copy, bufio.Reader, ...).
// Not part of the original cppio surface — a low-risk addition given how
// the teacher package groups Reader/Writer into a single ReadWriter type.
//
// ConnectionLost and TooBigBuffer surface as plain errors; callers that
// need to distinguish them from io.EOF should use errors.Is.
type LineReadWriter struct {
	Line Line
}

// NewLineReadWriter wraps ln as an io.ReadWriter.
func NewLineReadWriter(ln Line) *LineReadWriter { return &LineReadWriter{Line: ln} }

func (a *LineReadWriter) Read(p []byte) (int, error) {
	n, err := a.Line.Read(p)
	if err == nil && n == 0 && len(p) > 0 {
		// A Line may legitimately return (0, nil) to mean "timeout, no
		// data yet". io.Reader forbids returning (0, nil) for anything
		// other than a zero-length request, so translate it into the
		// closest io-idiomatic signal: keep retrying is the caller's
		// job, but a single stdlib-facing call cannot block forever
		// without violating its own configured timeout, so report it as
		// ErrTimeout instead of breaking the io.Reader contract.
		return 0, ErrTimeout
	}
	return n, err
}

func (a *LineReadWriter) Write(p []byte) (int, error) { return a.Line.Write(p) }

var _ io.ReadWriter = (*LineReadWriter)(nil)
