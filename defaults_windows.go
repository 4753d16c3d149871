// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build windows

package line

// DefaultManager returns a LineManager wired with the platform default
// factory set for Windows: {inproc, local (named pipe), tcp}, matching
// original_source/src/win32/createlinemanager.cpp.
func DefaultManager(opts ...ManagerOption) *LineManager {
	m := NewManager(opts...)
	m.RegisterFactory(&InprocLineFactory{RingBufferCapacity: m.ringBufferCapacity()})
	m.RegisterFactory(&NamedPipeLineFactory{})
	m.RegisterFactory(&TCPLineFactory{})
	return m
}
