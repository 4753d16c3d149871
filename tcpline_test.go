// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package line

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTCPResolveRejectsMissingPort(t *testing.T) {
	_, err := tcpResolve("localhost")
	require.Error(t, err)
}

func TestTCPResolveWildcardHost(t *testing.T) {
	addr, err := tcpResolve("*:0")
	require.NoError(t, err)
	require.True(t, addr.IP == nil || addr.IP.IsUnspecified())
}

func TestTCPLineLoopbackRoundTrip(t *testing.T) {
	factory := &TCPLineFactory{}
	acceptor, err := factory.CreateServer("127.0.0.1:0")
	require.NoError(t, err)
	defer acceptor.Close()

	addr := acceptor.(*tcpAcceptor).ln.Addr().String()

	clientErr := make(chan error, 1)
	var client Line
	go func() {
		c, err := factory.CreateClient(addr)
		client = c
		clientErr <- err
	}()

	server, err := acceptor.Accept(time.Second)
	require.NoError(t, err)
	require.NotNil(t, server)
	require.NoError(t, <-clientErr)
	defer client.Close()
	defer server.Close()

	n, err := client.Write([]byte("hello tcp"))
	require.NoError(t, err)
	require.Equal(t, 9, n)

	buf := make([]byte, 9)
	total := 0
	for total < 9 {
		n, err := server.Read(buf[total:])
		require.NoError(t, err)
		total += n
	}
	require.Equal(t, "hello tcp", string(buf))
}

func TestTCPLineReadTimeoutReturnsZeroNil(t *testing.T) {
	factory := &TCPLineFactory{}
	acceptor, err := factory.CreateServer("127.0.0.1:0")
	require.NoError(t, err)
	defer acceptor.Close()

	addr := acceptor.(*tcpAcceptor).ln.Addr().String()

	clientErr := make(chan error, 1)
	var client Line
	go func() {
		c, err := factory.CreateClient(addr)
		client = c
		clientErr <- err
	}()

	server, err := acceptor.Accept(time.Second)
	require.NoError(t, err)
	require.NoError(t, <-clientErr)
	defer client.Close()
	defer server.Close()

	require.NoError(t, server.SetOption(ReceiveTimeout, 50*time.Millisecond))
	n, err := server.Read(make([]byte, 16))
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestTCPLineConnectionLostOnPeerClose(t *testing.T) {
	factory := &TCPLineFactory{}
	acceptor, err := factory.CreateServer("127.0.0.1:0")
	require.NoError(t, err)
	defer acceptor.Close()

	addr := acceptor.(*tcpAcceptor).ln.Addr().String()

	clientErr := make(chan error, 1)
	var client Line
	go func() {
		c, err := factory.CreateClient(addr)
		client = c
		clientErr <- err
	}()

	server, err := acceptor.Accept(time.Second)
	require.NoError(t, err)
	require.NoError(t, <-clientErr)
	defer server.Close()

	require.NoError(t, client.Close())

	require.NoError(t, server.SetOption(ReceiveTimeout, time.Second))
	_, err = server.Read(make([]byte, 16))
	require.ErrorIs(t, err, ErrConnectionLost)
}
