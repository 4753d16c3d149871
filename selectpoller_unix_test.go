// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package line

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSelectPollerAddRejectsNonPollable(t *testing.T) {
	sp := NewSelectPoller()
	client, server := newInprocPipe(t, "poller-reject")
	defer client.Close()
	defer server.Close()

	err := sp.Add(server, EventRead)
	require.ErrorIs(t, err, ErrNotPollable)
}

func TestSelectPollerDetectsReadableTCPLine(t *testing.T) {
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

	sp := NewSelectPoller()
	require.NoError(t, sp.Add(server, EventRead))

	_, err = client.Write([]byte("x"))
	require.NoError(t, err)

	ready, err := sp.Poll(time.Second)
	require.NoError(t, err)
	require.True(t, ready)
	require.NotEqual(t, EventNone, sp.EventsFor(server)&EventRead)
}

func TestSelectPollerTimeoutNoEvents(t *testing.T) {
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

	sp := NewSelectPoller()
	require.NoError(t, sp.Add(server, EventRead))

	ready, err := sp.Poll(50 * time.Millisecond)
	require.NoError(t, err)
	require.False(t, ready)
}
