package server

import (
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termcmd/termcmd/pkg/types"
)

func startServer(t *testing.T) net.Addr {
	t.Helper()
	table := []types.Command{
		{
			Name:    "add",
			Params:  "dd",
			Summary: "add two integers",
			Handler: func(args *types.Args, out io.Writer) error {
				fmt.Fprintf(out, "%d\r\n", args.V[0].N+args.V[1].N)
				return nil
			},
		},
	}
	cfg := types.DefaultConfig()
	cfg.EnableExit = true
	srv := New("127.0.0.1:0", cfg, table, nil)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)
	return srv.Addr()
}

// readUntil reads from conn until want appears or the deadline passes.
func readUntil(t *testing.T, conn net.Conn, want string) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var sb strings.Builder
	buf := make([]byte, 256)
	for !strings.Contains(sb.String(), want) {
		n, err := conn.Read(buf)
		require.NoError(t, err, "waiting for %q, got %q", want, sb.String())
		sb.Write(buf[:n])
	}
	return sb.String()
}

func TestSessionRoundTrip(t *testing.T) {
	addr := startServer(t)
	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	got := readUntil(t, conn, "cmd> ")
	assert.Contains(t, got, "\xff\xfb\x01", "echo negotiation sent")

	_, err = conn.Write([]byte("add 2 3\r"))
	require.NoError(t, err)
	readUntil(t, conn, "5\r\n")
}

func TestSessionExitClosesConnection(t *testing.T) {
	addr := startServer(t)
	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	readUntil(t, conn, "cmd> ")
	_, err = conn.Write([]byte("exit\r"))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 256)
	for {
		if _, err := conn.Read(buf); err != nil {
			assert.ErrorIs(t, err, io.EOF)
			return
		}
	}
}

func TestIACSequencesFiltered(t *testing.T) {
	addr := startServer(t)
	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	readUntil(t, conn, "cmd> ")

	// A client negotiation reply interleaved with input must not reach
	// the command line.
	_, err = conn.Write([]byte("add 1\xff\xfd\x01 2\r"))
	require.NoError(t, err)
	readUntil(t, conn, "3\r\n")
}
