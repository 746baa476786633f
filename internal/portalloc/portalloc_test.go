package portalloc_test

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicesharp/mcp-server/internal/portalloc"
)

func TestFindReturnsAvailablePort(t *testing.T) {
	port, err := portalloc.Find(18100, 50)
	require.NoError(t, err)
	assert.Greater(t, port, 0)
}

func TestFindSkipsOccupiedPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:18201")
	require.NoError(t, err)
	defer ln.Close()

	port, err := portalloc.Find(18201, 5)
	require.NoError(t, err)
	assert.NotEqual(t, 18201, port)
}

func TestFindExhaustsRange(t *testing.T) {
	listeners := make([]net.Listener, 0, 3)
	defer func() {
		for _, ln := range listeners {
			ln.Close()
		}
	}()
	for port := 18300; port < 18303; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		require.NoError(t, err)
		listeners = append(listeners, ln)
	}

	_, err := portalloc.Find(18300, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, portalloc.ErrNoFreePort)
}

func TestVerifySucceedsAgainstListeningPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:18401")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	err = portalloc.Verify(18401)
	assert.NoError(t, err)
}

func TestVerifyFailsAgainstClosedPort(t *testing.T) {
	err := portalloc.Verify(18501)
	assert.Error(t, err)
}
