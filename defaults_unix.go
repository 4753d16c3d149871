// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !windows

package line

// DefaultManager returns a LineManager wired with the platform default
// factory set for POSIX: {inproc, local (unix-domain), tcp}, matching
// original_source/src/posix/createlinemanager.cpp.
func DefaultManager(opts ...ManagerOption) *LineManager {
	m := NewManager(opts...)
	m.RegisterFactory(&InprocLineFactory{RingBufferCapacity: m.ringBufferCapacity()})
	m.RegisterFactory(&UnixLineFactory{})
	m.RegisterFactory(&TCPLineFactory{})
	return m
}
