// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSplitURI(t *testing.T) {
	scheme, address, err := splitURI("tcp://127.0.0.1:9000")
	require.NoError(t, err)
	require.Equal(t, "tcp", scheme)
	require.Equal(t, "127.0.0.1:9000", address)

	_, _, err = splitURI("not-a-uri")
	require.ErrorIs(t, err, ErrBadURI)
}

func TestManagerCreateServerNoFactory(t *testing.T) {
	mgr := NewManager()
	_, err := mgr.CreateServer("inproc://anything")
	require.ErrorIs(t, err, ErrNoFactory)
}

func TestManagerCreateClientBadURI(t *testing.T) {
	mgr := NewManager(WithFactory(&InprocLineFactory{}))
	_, err := mgr.CreateClient("inproc-missing-delimiter")
	require.ErrorIs(t, err, ErrBadURI)
}

func TestManagerDispatchesFirstMatchingFactory(t *testing.T) {
	mgr := NewManager(
		WithFactory(&InprocLineFactory{RingBufferCapacity: 1024}),
		WithFactory(&InprocLineFactory{RingBufferCapacity: 2048}), // registered second, never reached
	)

	acceptor, err := mgr.CreateServer("inproc://mgr-dispatch")
	require.NoError(t, err)
	defer acceptor.Close()
	require.Equal(t, 1024, acceptor.(*InprocAcceptor).ringCapacity, "the first registered factory must serve the call")

	clientErr := make(chan error, 1)
	go func() {
		_, err := mgr.CreateClient("inproc://mgr-dispatch")
		clientErr <- err
	}()

	server, err := acceptor.Accept(time.Second)
	require.NoError(t, err)
	require.NotNil(t, server)
	require.NoError(t, <-clientErr)
}

func TestManagerRegisterFactoryAfterConstruction(t *testing.T) {
	mgr := NewManager()
	mgr.RegisterFactory(&InprocLineFactory{})

	acceptor, err := mgr.CreateServer("inproc://mgr-register")
	require.NoError(t, err)
	defer acceptor.Close()
}

func TestDefaultManagerRegistersInprocAndStreamSchemes(t *testing.T) {
	mgr := DefaultManager()
	acceptor, err := mgr.CreateServer("inproc://default-mgr")
	require.NoError(t, err)
	defer acceptor.Close()

	require.NotNil(t, mgr.factoryFor("local"))
	require.NotNil(t, mgr.factoryFor("tcp"))

	_, err = mgr.CreateServer("not-a-registered-scheme://x")
	require.ErrorIs(t, err, ErrNoFactory)
}

// TestWithRingBufferCapacityReachesDefaultManagerInprocFactory guards
// against WithRingBufferCapacity being recorded but never applied: the
// option must actually reach the "inproc" factory DefaultManager wires.
func TestWithRingBufferCapacityReachesDefaultManagerInprocFactory(t *testing.T) {
	mgr := DefaultManager(WithRingBufferCapacity(4096))
	require.Equal(t, 4096, mgr.ringBufferCapacity())

	f := mgr.factoryFor("inproc")
	require.NotNil(t, f)
	inprocFactory, ok := f.(*InprocLineFactory)
	require.True(t, ok)
	require.Equal(t, 4096, inprocFactory.RingBufferCapacity)
}
