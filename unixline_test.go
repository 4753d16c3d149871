// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !windows

package line

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUnixLineLoopbackRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line-test.sock")
	factory := &UnixLineFactory{}

	acceptor, err := factory.CreateServer(path)
	require.NoError(t, err)
	defer acceptor.Close()

	clientErr := make(chan error, 1)
	var client Line
	go func() {
		c, err := factory.CreateClient(path)
		client = c
		clientErr <- err
	}()

	server, err := acceptor.Accept(time.Second)
	require.NoError(t, err)
	require.NotNil(t, server)
	require.NoError(t, <-clientErr)
	defer client.Close()
	defer server.Close()

	n, err := client.Write([]byte("hello unix"))
	require.NoError(t, err)
	require.Equal(t, 10, n)

	buf := make([]byte, 10)
	total := 0
	for total < 10 {
		n, err := server.Read(buf[total:])
		require.NoError(t, err)
		total += n
	}
	require.Equal(t, "hello unix", string(buf))
}

func TestUnixAcceptorCloseRemovesSocketFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line-test-remove.sock")
	factory := &UnixLineFactory{}

	acceptor, err := factory.CreateServer(path)
	require.NoError(t, err)
	require.NoError(t, acceptor.Close())

	second, err := factory.CreateServer(path)
	require.NoError(t, err, "closing the acceptor must free the socket path for reuse")
	defer second.Close()
}
