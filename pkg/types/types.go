// Package types defines the public types shared by the termcmd library
// and its callers.
package types

import "io"

// MaxParams is the maximum number of arguments a single command can take.
// It bounds the fixed value array inside Args.
const MaxParams = 8

// Defaults applied by the engine when the corresponding Config field is zero.
const (
	DefaultMaxCmdLen    = 96
	DefaultHistoryDepth = 16
	DefaultRxRingSize   = 256
	DefaultOutBufSize   = 10 * 1024
	DefaultPrompt       = "cmd> "
)

// Handler is invoked when a command line matches a dispatch table entry.
// Arguments have already been tokenized and type-converted; anything written
// to out ends up in the service's output buffer and is sent on the next
// flush. Returning a non-nil error makes the engine print a usage hint.
type Handler func(args *Args, out io.Writer) error

// DescFunc optionally supplies extra description text for a command's
// help entry.
type DescFunc func() string

// Command is one record of the caller-supplied dispatch table.
type Command struct {
	Name string

	// Params describes the expected argument types, one character per
	// argument: 's' string, 'f' float, 'd' or 'x' integer, 'c' char.
	Params string

	Handler Handler

	// Hidden commands are excluded from generic help output but still
	// dispatchable.
	Hidden bool

	Summary     string
	Synopsis    string
	Description string
	Desc        DescFunc
}

// Param holds one parsed argument. The field that is valid depends on the
// corresponding character of the command's Params string.
type Param struct {
	Str string
	Ch  byte
	F   float64
	N   int64
}

// Args carries the parsed arguments of a command invocation. The engine
// owns a single instance and reuses it across dispatches.
type Args struct {
	Count int
	V     [MaxParams]Param
}

// Reset clears the argument storage before a new parse.
func (a *Args) Reset() {
	*a = Args{}
}

// TransmitFunc starts an asynchronous transmission of buf. The engine will
// not hand over another buffer until TxComplete has been signalled.
type TransmitFunc func(buf []byte) error

// ReceiveFunc re-arms the next single-byte read on the transport. It is
// optional; transports that push bytes into the service directly may leave
// it nil.
type ReceiveFunc func(buf []byte) error

// Config carries the service configuration. Zero numeric and string fields
// are replaced by the Default* constants; the boolean flags are taken as
// given, so start from DefaultConfig when the usual echo behavior is wanted.
type Config struct {
	Prompt       string
	MaxCmdLen    int
	HistoryDepth int
	RxRingSize   int
	OutBufSize   int

	// Echo controls whether typed characters are echoed back. ShowCtrl
	// gates all terminal control output; with it off the engine emits
	// nothing but raw command results.
	Echo     bool
	ShowCtrl bool

	// EnableExit registers the built-in exit command.
	EnableExit bool

	WelcomeMsg string

	Transmit TransmitFunc
	Receive  ReceiveFunc
}

// DefaultConfig returns a Config with echo and control output enabled and
// all sizes at their defaults. The transmit function must still be set.
func DefaultConfig() Config {
	return Config{
		Prompt:       DefaultPrompt,
		MaxCmdLen:    DefaultMaxCmdLen,
		HistoryDepth: DefaultHistoryDepth,
		RxRingSize:   DefaultRxRingSize,
		OutBufSize:   DefaultOutBufSize,
		Echo:         true,
		ShowCtrl:     true,
	}
}
