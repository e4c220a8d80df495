// Package termcmd provides an interactive command-line engine for
// byte-stream transports: line editing with emacs keys and ANSI arrow
// sequences, command history, a dispatch table with typed parameters, and
// double-buffered asynchronous output. The engine never blocks on its
// transport; received bytes are queued with RxByte and processed by Pump,
// and output leaves through Flush once the transport is free.
package termcmd

import (
	"log/slog"

	"github.com/termcmd/termcmd/internal/cli"
	"github.com/termcmd/termcmd/internal/outbuf"
	"github.com/termcmd/termcmd/internal/server"
	"github.com/termcmd/termcmd/pkg/types"
)

// Command describes one entry of the dispatch table.
type Command = types.Command

// Handler is the function a matched command runs.
type Handler = types.Handler

// Args carries the parsed parameters into a handler.
type Args = types.Args

// Param is one parsed parameter value.
type Param = types.Param

// Config carries the engine settings and transport hooks.
type Config = types.Config

// TransmitFunc starts an asynchronous transmission.
type TransmitFunc = types.TransmitFunc

// ReceiveFunc arms reception of the next input byte.
type ReceiveFunc = types.ReceiveFunc

// MaxParams is the parameter capacity of Args.
const MaxParams = types.MaxParams

// ErrTransmitInProgress is the backpressure signal returned by Flush while
// output is still in flight.
var ErrTransmitInProgress = outbuf.ErrTransmitInProgress

// ErrBufferFull is returned when buffered output would overflow.
var ErrBufferFull = outbuf.ErrBufferFull

// Service is one command-line session bound to a transport.
type Service struct {
	*cli.Engine
}

// New creates a session from config and the application command table.
// config.Transmit is required.
func New(config Config, table []Command) (*Service, error) {
	eng, err := cli.New(config, table)
	if err != nil {
		return nil, err
	}
	return &Service{Engine: eng}, nil
}

// DefaultConfig returns the stock settings: echo on, control output on,
// and the default sizes for the line, history, receive ring and output
// buffers.
func DefaultConfig() Config {
	return types.DefaultConfig()
}

// Server serves command-line sessions over telnet, one per connection.
type Server = server.Server

// NewServer returns a telnet server for config and table on addr.
// config.Transmit and config.Receive are ignored; each session is wired
// to its own connection. A nil logger falls back to slog.Default.
func NewServer(addr string, config Config, table []Command, logger *slog.Logger) *Server {
	return server.New(addr, config, table, logger)
}

// ListenAndServe runs a telnet server on addr and blocks for the server's
// lifetime. Callers that need to shut the server down use NewServer and
// its Start/Stop/Wait methods instead.
func ListenAndServe(addr string, config Config, table []Command, logger *slog.Logger) error {
	srv := server.New(addr, config, table, logger)
	if err := srv.Start(); err != nil {
		return err
	}
	srv.Wait()
	return nil
}
