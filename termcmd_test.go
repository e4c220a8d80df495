package termcmd

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRoundTrip(t *testing.T) {
	out := &bytes.Buffer{}
	var svc *Service
	cfg := DefaultConfig()
	cfg.Transmit = func(p []byte) error {
		out.Write(p)
		svc.TxComplete()
		return nil
	}
	table := []Command{
		{
			Name:    "ping",
			Params:  "",
			Summary: "reply with pong",
			Handler: func(args *Args, w io.Writer) error {
				fmt.Fprintf(w, "pong\r\n")
				return nil
			},
		},
	}
	svc, err := New(cfg, table)
	require.NoError(t, err)

	for _, b := range []byte("ping\r") {
		svc.RxByte(b)
	}
	svc.Pump()
	require.NoError(t, svc.Flush())
	assert.Contains(t, out.String(), "pong\r\n")
}

func TestNewWithoutTransmit(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestServerSessionOverTCP(t *testing.T) {
	table := []Command{
		{
			Name:    "ping",
			Params:  "",
			Summary: "reply with pong",
			Handler: func(args *Args, w io.Writer) error {
				fmt.Fprintf(w, "pong\r\n")
				return nil
			},
		},
	}
	srv := NewServer("127.0.0.1:0", DefaultConfig(), table, nil)
	require.NoError(t, srv.Start())
	defer srv.Stop()

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var sb strings.Builder
	buf := make([]byte, 256)
	for !strings.Contains(sb.String(), "cmd> ") {
		n, err := conn.Read(buf)
		require.NoError(t, err)
		sb.Write(buf[:n])
	}

	_, err = conn.Write([]byte("ping\r"))
	require.NoError(t, err)
	for !strings.Contains(sb.String(), "pong\r\n") {
		n, err := conn.Read(buf)
		require.NoError(t, err)
		sb.Write(buf[:n])
	}
}

func TestServerWaitReturnsAfterStop(t *testing.T) {
	srv := NewServer("127.0.0.1:0", DefaultConfig(), nil, nil)
	require.NoError(t, srv.Start())

	done := make(chan struct{})
	go func() {
		srv.Wait()
		close(done)
	}()
	srv.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Stop")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Echo)
	assert.True(t, cfg.ShowCtrl)
	assert.False(t, cfg.EnableExit)
	assert.Equal(t, MaxParams, len(Args{}.V))
}
