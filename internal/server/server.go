// Package server runs command-line sessions over telnet. Each connection
// gets its own engine; the server owns the read loop and hands received
// bytes to the engine, so one misbehaving client never stalls another.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/termcmd/termcmd/internal/cli"
	"github.com/termcmd/termcmd/pkg/types"
)

// Character-mode negotiation sent on connect: IAC WILL ECHO, IAC DO
// SUPPRESS_GO_AHEAD, IAC WILL SUPPRESS_GO_AHEAD. This makes clients send
// each keystroke immediately and leave echoing to us.
var telnetCharMode = []byte{
	0xFF, 0xFB, 0x01,
	0xFF, 0xFD, 0x03,
	0xFF, 0xFB, 0x03,
}

const iac = 0xFF

// Server accepts telnet connections and runs an engine per session.
type Server struct {
	addr   string
	cfg    types.Config
	table  []types.Command
	logger *slog.Logger

	listener net.Listener
	sessions map[string]net.Conn
	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// New returns a server serving cfg and table on addr. cfg.Transmit and
// cfg.Receive are ignored; the server wires each session to its
// connection. A nil logger falls back to slog.Default.
func New(addr string, cfg types.Config, table []types.Command, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:     addr,
		cfg:      cfg,
		table:    table,
		logger:   logger,
		sessions: make(map[string]net.Conn),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening and accepting connections. It returns once the
// listener is up; sessions run on their own goroutines.
func (s *Server) Start() error {
	var err error
	s.listener, err = net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.logger.Info("server listening", "addr", s.addr)
	go s.acceptLoop()
	return nil
}

// Addr returns the bound listen address, useful when the configured
// address had port 0.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the listener and closes every active session.
func (s *Server) Stop() {
	s.cancel()
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Lock()
	for id, conn := range s.sessions {
		conn.Close()
		delete(s.sessions, id)
	}
	s.mu.Unlock()
}

// Wait blocks until the server has stopped accepting connections. It is
// only meaningful after a successful Start.
func (s *Server) Wait() {
	<-s.done
}

func (s *Server) acceptLoop() {
	defer close(s.done)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.logger.Warn("accept failed", "err", err)
			continue
		}
		go s.handleConn(conn)
	}
}

// handleConn runs one session until the client disconnects or runs exit.
func (s *Server) handleConn(conn net.Conn) {
	id := uuid.NewString()
	log := s.logger.With("session", id, "remote", conn.RemoteAddr().String())
	log.Info("session opened")

	s.mu.Lock()
	s.sessions[id] = conn
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		conn.Close()
		log.Info("session closed")
	}()

	if _, err := conn.Write(telnetCharMode); err != nil {
		log.Warn("negotiation failed", "err", err)
		return
	}

	// conn.Write is synchronous, so the transmission is complete by the
	// time the transmit function returns and a single flush drains all
	// buffered output.
	var eng *cli.Engine
	cfg := s.cfg
	cfg.Receive = nil
	cfg.Transmit = func(p []byte) error {
		_, err := conn.Write(p)
		eng.TxComplete()
		return err
	}
	eng, err := cli.New(cfg, s.table)
	if err != nil {
		log.Error("engine setup failed", "err", err)
		return
	}
	flush := func() {
		if err := eng.Flush(); err != nil {
			log.Warn("flush failed", "err", err)
		}
	}
	eng.Pump()
	flush()

	buf := make([]byte, 512)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		for i := 0; i < n; i++ {
			// Skip telnet command sequences (IAC + two bytes).
			if buf[i] == iac && i+2 < n {
				i += 2
				continue
			}
			eng.RxByte(buf[i])
		}
		eng.Pump()
		flush()
		if eng.ExitRequested() {
			return
		}
	}
}
