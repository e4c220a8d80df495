// Package cli ties the receive ring, line editor, history and dispatcher
// together into the command engine. Input bytes arrive through RxByte from
// any context; Pump drains them on the caller's goroutine, edits the line,
// and dispatches completed commands.
package cli

import (
	"errors"
	"fmt"

	"github.com/termcmd/termcmd/internal/dispatch"
	"github.com/termcmd/termcmd/internal/editline"
	"github.com/termcmd/termcmd/internal/history"
	"github.com/termcmd/termcmd/internal/outbuf"
	"github.com/termcmd/termcmd/internal/ringbuf"
	"github.com/termcmd/termcmd/pkg/types"
)

// ErrNoTransmit is returned by New when the config carries no transmit
// function. There is no default transport.
var ErrNoTransmit = errors.New("config has no transmit function")

// Engine is one command-line session.
type Engine struct {
	cfg   types.Config
	rx    *ringbuf.Ring
	hist  *history.Ring
	ed    *editline.Editor
	out   *outbuf.Buffer
	table []types.Command
	args  types.Args

	displayPrompt bool
	deferPrompt   bool
	userTyping    bool
	exitRequested bool

	rxScratch [1]byte
}

// New builds an engine from cfg and the user command table. The screen is
// cleared, the welcome message printed, and reception armed; output sits
// in the buffer until the first Flush.
func New(cfg types.Config, table []types.Command) (*Engine, error) {
	if cfg.Transmit == nil {
		return nil, ErrNoTransmit
	}
	if cfg.Prompt == "" {
		cfg.Prompt = types.DefaultPrompt
	}
	if cfg.MaxCmdLen <= 0 {
		cfg.MaxCmdLen = types.DefaultMaxCmdLen
	}
	if cfg.HistoryDepth <= 0 {
		cfg.HistoryDepth = types.DefaultHistoryDepth
	}
	if cfg.RxRingSize <= 0 {
		cfg.RxRingSize = types.DefaultRxRingSize
	}
	if cfg.OutBufSize <= 0 {
		cfg.OutBufSize = types.DefaultOutBufSize
	}
	e := &Engine{
		cfg:   cfg,
		rx:    ringbuf.New(cfg.RxRingSize),
		hist:  history.New(cfg.HistoryDepth, cfg.MaxCmdLen),
		out:   outbuf.New(cfg.OutBufSize, outbuf.TransmitFunc(cfg.Transmit)),
		table: table,
	}
	e.ed = editline.New(e.out, cfg.Prompt, cfg.MaxCmdLen)
	e.ed.SetEcho(cfg.Echo)
	e.ed.SetShowCtrl(cfg.ShowCtrl)
	e.ed.ClearScreen()
	if cfg.WelcomeMsg != "" {
		e.out.PutString(cfg.WelcomeMsg)
		e.ed.Newline()
	}
	e.displayPrompt = true
	if cfg.Receive != nil {
		if err := cfg.Receive(e.rxScratch[:]); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// RxByte queues one received byte. It is the producer side of the receive
// ring and safe to call from the transport context; a full ring drops the
// byte. Reception is re-armed before returning.
func (e *Engine) RxByte(b byte) {
	e.rx.Write([]byte{b})
	if e.cfg.Receive != nil {
		e.cfg.Receive(e.rxScratch[:])
	}
}

// CharsWaiting reports the number of bytes queued for Pump.
func (e *Engine) CharsWaiting() int {
	return e.rx.Available()
}

// TxComplete tells the output buffer the outstanding transmission is done.
func (e *Engine) TxComplete() {
	e.out.TxComplete()
}

// Flush pushes buffered output to the transport. See outbuf.Buffer.Flush.
func (e *Engine) Flush() error {
	return e.out.Flush()
}

// Write lets callers print through the output buffer directly.
func (e *Engine) Write(p []byte) (int, error) {
	return e.out.Write(p)
}

// Print buffers s for output.
func (e *Engine) Print(s string) error {
	return e.out.PutString(s)
}

// Printf buffers formatted output.
func (e *Engine) Printf(format string, a ...any) error {
	return e.out.PutString(fmt.Sprintf(format, a...))
}

// NewLine buffers a CR LF pair subject to the control-character setting.
func (e *Engine) NewLine() {
	e.ed.Newline()
}

// DisplayPrompt schedules a fresh prompt for the next Pump.
func (e *Engine) DisplayPrompt() {
	e.displayPrompt = true
	e.deferPrompt = false
}

// DeferPrompt holds the prompt back, for callers that want to finish a
// burst of asynchronous output before the prompt reappears.
func (e *Engine) DeferPrompt() {
	e.deferPrompt = true
}

// UserIsTyping reports whether a partial line is being edited, so callers
// can avoid mixing asynchronous output into it.
func (e *Engine) UserIsTyping() bool {
	return e.userTyping
}

// ExitRequested reports whether the exit command has run.
func (e *Engine) ExitRequested() bool {
	return e.exitRequested
}

// Pump drains the receive ring, feeding each byte to the editor and
// dispatching completed lines. It returns once the ring is empty.
func (e *Engine) Pump() {
	for {
		if e.displayPrompt && !e.deferPrompt {
			e.ed.DisplayPrompt()
			e.displayPrompt = false
		}
		b, ok := e.rx.ReadByte()
		if !ok {
			return
		}
		switch e.ed.Feed(b, e.rx.Available()) {
		case editline.HistoryUp:
			if line, ok := e.hist.ScrollUp(); ok {
				e.ed.FillLine(line)
			}
		case editline.HistoryDown:
			if line, ok := e.hist.ScrollDown(); ok {
				e.ed.FillLine(line)
			} else {
				// Scrolled past the newest entry: back to an empty line.
				e.ed.Reset()
			}
		case editline.LineDone:
			line := string(e.ed.Line())
			e.hist.Append(e.ed.Line())
			e.ed.EditReset()
			e.userTyping = false
			e.displayPrompt = true
			e.ed.Newline()
			e.dispatchLine(line)
		case editline.Break:
			e.ed.EditReset()
			e.userTyping = false
			e.displayPrompt = true
			e.ed.Newline()
		default:
			e.userTyping = e.ed.End() > 0
		}
	}
}

// dispatchLine matches and runs one completed line. Built-in commands are
// tried first so the application table cannot shadow them.
func (e *Engine) dispatchLine(line string) {
	tok := dispatch.NewTokenizer(line)
	name, ok := tok.Next(dispatch.CommandDelims)
	if !ok {
		return
	}
	if e.runBuiltin(name, tok) {
		return
	}
	cmd := dispatch.Match(e.table, name)
	if cmd == nil {
		e.warnf("Command '%s' not found", name)
		if s := dispatch.Suggest(e.table, name); s != "" {
			e.infof("Did you mean '%s'?", s)
		}
		return
	}
	failures, extras := dispatch.ParseParams(cmd.Params, tok, &e.args)
	for _, x := range extras {
		e.warnf("Extra parameter '%s' ignored", x)
	}
	if failures > 0 {
		e.infof("Invalid Arguments")
		e.infof("Incorrect usage: Enter 'help %s' for details", name)
		return
	}
	if err := cmd.Handler(&e.args, e.out); err != nil {
		e.infof("Incorrect usage: Enter 'help %s' for details", name)
	}
}

// infof prints an informational line.
func (e *Engine) infof(format string, a ...any) {
	e.out.PutString(fmt.Sprintf(format, a...))
	e.ed.Newline()
}

// warnf prints a warning line in red.
func (e *Engine) warnf(format string, a ...any) {
	e.out.PutString(e.ed.Red(fmt.Sprintf(format, a...)))
	e.ed.Newline()
}

func (e *Engine) putBold(s string) {
	e.out.PutString(e.ed.Bold(s))
}
