// Package editline implements a character-at-a-time line editor with
// emacs-style control keys and decoding of ANSI arrow/home/end escape
// sequences. Echo output is produced as terminal control sequences written
// through an Output sink; echoing of ordinary characters is batched so a
// burst of pasted input is redrawn once instead of per byte.
package editline

import "fmt"

// Output is the sink the editor echoes into. It is satisfied by the
// ping-pong output buffer.
type Output interface {
	PutByte(c byte) error
	PutString(s string) error
}

// Action tells the caller what a fed byte amounted to beyond local
// editing. History scrolling is reported as an action rather than handled
// here so the editor stays ignorant of the history store.
type Action int

const (
	None Action = iota
	// LineDone means CR or LF completed the line. The finished line is
	// available through Line until the next Feed.
	LineDone
	// Break means Ctrl-C cleared the line; the caller treats it as an
	// empty completed line without touching history.
	Break
	// HistoryUp and HistoryDown report arrow-key history requests.
	HistoryUp
	HistoryDown
)

// Escape decoder states.
const (
	stateIdle = iota
	stateSawEsc
	stateSawBracket
	stateAwaitFinal
)

// Control characters understood by the editor.
const (
	ctrlA = 0x01
	ctrlB = 0x02
	ctrlC = 0x03
	ctrlE = 0x05
	ctrlF = 0x06
	ctrlK = 0x0B
	ctrlL = 0x0C
	ctrlN = 0x0E
	ctrlP = 0x10
	bs    = 0x08
	tab   = 0x09
	lf    = 0x0A
	cr    = 0x0D
	esc   = 0x1B
	del   = 0x7F
)

// Terminal control sequences emitted by the editor.
const (
	seqAlert   = "\a"
	seqBold    = "\x1b[1m"
	seqCls     = "\x1b[2J\x1b[H"
	seqKill    = "\x1b[K"
	seqPrev    = "\x1b[1D"
	seqNext    = "\x1b[1C"
	seqNewline = "\r\n"
	seqNormal  = "\x1b[0m"
	seqRed     = "\x1b[0;31m"
	seqRestore = "\x1b8"
	seqSave    = "\x1b7"
)

// Editor holds one line being edited plus the escape decoder state.
type Editor struct {
	out    Output
	prompt string
	buf    []byte
	cur    int // cursor position within buf
	end    int // one past the last stored character
	max    int

	pending int // printable chars echoed lazily
	state   int

	echo     bool
	showCtrl bool
}

// New returns an editor for lines of at most max bytes.
func New(out Output, prompt string, max int) *Editor {
	return &Editor{
		out:      out,
		prompt:   prompt,
		buf:      make([]byte, max),
		max:      max,
		echo:     true,
		showCtrl: true,
	}
}

// SetEcho enables or disables echoing of typed characters.
func (e *Editor) SetEcho(on bool) { e.echo = on }

// Echo reports whether echo is enabled.
func (e *Editor) Echo() bool { return e.echo }

// SetShowCtrl enables or disables emission of terminal control sequences.
// With it off the editor produces no output at all except newlines.
func (e *Editor) SetShowCtrl(on bool) { e.showCtrl = on }

// ShowCtrl reports whether control sequences are emitted.
func (e *Editor) ShowCtrl() bool { return e.showCtrl }

// SetPrompt changes the prompt used by Reset and DisplayPrompt.
func (e *Editor) SetPrompt(p string) { e.prompt = p }

// Line returns the current line contents. After LineDone it is the
// completed line; it is only valid until the editor is next modified.
func (e *Editor) Line() []byte { return e.buf[:e.end] }

// Cursor returns the cursor position within the line.
func (e *Editor) Cursor() int { return e.cur }

// End returns the line length.
func (e *Editor) End() int { return e.end }

// Feed processes one input byte. waiting is the number of bytes still
// queued behind this one; echo of printable characters is deferred until
// the queue drains so pasted input repaints once.
func (e *Editor) Feed(b byte, waiting int) Action {
	act := e.processByte(b)
	if waiting == 0 {
		e.flushPending()
	}
	return act
}

// flushPending echoes the accumulated printable characters and, when the
// cursor is mid-line, repaints the tail after a save/restore pair.
func (e *Editor) flushPending() {
	if e.pending == 0 {
		return
	}
	n := e.pending
	e.pending = 0
	if e.echo {
		e.putBytes(e.buf[e.cur : e.cur+n])
	}
	e.cur += n
	if e.cur < e.end && e.echo {
		e.ctrl(seqSave)
		e.putBytes(e.buf[e.cur:e.end])
		e.ctrl(seqRestore)
	}
}

func (e *Editor) processByte(b byte) Action {
	switch e.state {
	case stateSawEsc:
		if b == '[' {
			e.state = stateSawBracket
		} else {
			e.state = stateIdle
		}
		return None
	case stateSawBracket:
		switch b {
		case 'A':
			e.state = stateIdle
			return HistoryUp
		case 'B':
			e.state = stateIdle
			return HistoryDown
		case 'C':
			e.state = stateIdle
			e.moveForward()
		case 'D':
			e.state = stateIdle
			e.moveBackward()
		case '1':
			e.moveToStart()
			e.state = stateAwaitFinal
		case '4':
			e.moveToEnd()
			e.state = stateAwaitFinal
		default:
			// Unrecognized sequence; swallow until its final byte.
			e.state = stateAwaitFinal
		}
		return None
	case stateAwaitFinal:
		if b == '~' {
			e.state = stateIdle
		}
		return None
	}

	switch {
	case b == esc:
		e.state = stateSawEsc
	case b == cr || b == lf:
		e.flushPending()
		return LineDone
	case b == ctrlC:
		e.ClearLine()
		return Break
	case b == bs || b == del:
		e.flushPending()
		e.deleteLeft()
	case b == ctrlA:
		e.moveToStart()
	case b == ctrlE:
		e.moveToEnd()
	case b == ctrlB:
		e.moveBackward()
	case b == ctrlF:
		e.moveForward()
	case b == ctrlP:
		return HistoryUp
	case b == ctrlN:
		return HistoryDown
	case b == ctrlK:
		e.flushPending()
		e.killToEnd()
	case b == ctrlL:
		e.Reset()
	case b >= 0x20 && b != del:
		e.insertChar(b)
	default:
		e.ctrl(seqAlert)
	}
	return None
}

// insertChar places b at the cursor, shifting the tail right. At capacity
// the last cell is silently overwritten instead.
func (e *Editor) insertChar(b byte) {
	if e.end < e.max-1 {
		copy(e.buf[e.cur+e.pending+1:e.end+1], e.buf[e.cur+e.pending:e.end])
		e.buf[e.cur+e.pending] = b
		e.end++
		e.pending++
	} else if e.end > 0 {
		e.buf[e.end-1] = b
	}
}

// deleteLeft removes the character before the cursor, closing the gap and
// repainting the tail in place.
func (e *Editor) deleteLeft() {
	if e.cur == 0 {
		e.ctrl(seqAlert)
		return
	}
	e.cur--
	e.ctrl(seqPrev)
	e.ctrl(seqSave)
	for i := e.cur; i < e.end-1; i++ {
		e.buf[i] = e.buf[i+1]
		if e.echo {
			e.put(e.buf[i])
		}
	}
	e.put(' ')
	e.ctrl(seqRestore)
	e.end--
}

// killToEnd discards everything from the cursor to the end of line.
func (e *Editor) killToEnd() {
	if e.cur < e.end {
		e.end = e.cur
		e.ctrl(seqKill)
	}
}

func (e *Editor) moveToStart() {
	e.flushPending()
	for e.cur > 0 {
		e.cur--
		e.ctrl(seqPrev)
	}
}

func (e *Editor) moveToEnd() {
	e.flushPending()
	for e.cur < e.end {
		e.cur++
		e.ctrl(seqNext)
	}
}

func (e *Editor) moveBackward() {
	e.flushPending()
	if e.cur == 0 {
		e.ctrl(seqAlert)
		return
	}
	e.cur--
	e.ctrl(seqPrev)
}

func (e *Editor) moveForward() {
	e.flushPending()
	if e.cur >= e.end {
		e.ctrl(seqAlert)
		return
	}
	e.cur++
	e.ctrl(seqNext)
}

// EditReset discards the line state without touching the display.
func (e *Editor) EditReset() {
	e.cur = 0
	e.end = 0
	e.pending = 0
	e.state = stateIdle
}

// Reset discards the line and redraws a fresh prompt on the current row.
func (e *Editor) Reset() {
	e.EditReset()
	e.putString("\r")
	e.ctrl(seqKill)
	e.DisplayPrompt()
}

// ClearLine erases the line on screen and discards the line state.
func (e *Editor) ClearLine() {
	e.flushPending()
	e.moveToEnd()
	for e.end > 0 {
		e.cur--
		e.end--
		e.ctrl(seqPrev)
		e.put(' ')
		e.ctrl(seqPrev)
	}
	e.EditReset()
}

// FillLine replaces the current line with s, as when recalling history.
func (e *Editor) FillLine(s []byte) {
	e.ClearLine()
	n := len(s)
	if n > e.max-1 {
		n = e.max - 1
	}
	copy(e.buf, s[:n])
	e.end = n
	e.cur = n
	if e.echo {
		e.putBytes(e.buf[:n])
	}
}

// DisplayPrompt redraws the prompt at the start of the current row. The
// bold attributes follow the usual control gating, so with echo off the
// prompt prints unstyled.
func (e *Editor) DisplayPrompt() {
	if !e.showCtrl {
		return
	}
	e.putString("\r")
	e.ctrl(seqBold)
	e.putString(e.prompt)
	e.ctrl(seqNormal)
}

// Newline emits a CR LF pair. It is gated on ShowCtrl only, not echo, so
// command output stays readable with echo off.
func (e *Editor) Newline() {
	if e.showCtrl {
		e.putString(seqNewline)
	}
}

// ClearScreen clears the terminal and homes the cursor.
func (e *Editor) ClearScreen() {
	e.ctrl(seqCls)
}

// Bold wraps s in bold attributes when control output is enabled.
func (e *Editor) Bold(s string) string {
	if !e.showCtrl {
		return s
	}
	return seqBold + s + seqNormal
}

// Red wraps s in red attributes when control output is enabled.
func (e *Editor) Red(s string) string {
	if !e.showCtrl {
		return s
	}
	return fmt.Sprintf("%s%s%s", seqRed, s, seqNormal)
}

// ctrl emits a control sequence, gated on echo and ShowCtrl.
func (e *Editor) ctrl(s string) {
	if !e.showCtrl || !e.echo {
		return
	}
	e.out.PutString(s)
}

func (e *Editor) put(b byte) {
	if e.showCtrl {
		e.out.PutByte(b)
	}
}

func (e *Editor) putBytes(p []byte) {
	if e.showCtrl {
		for _, b := range p {
			e.out.PutByte(b)
		}
	}
}

func (e *Editor) putString(s string) {
	if e.showCtrl {
		e.out.PutString(s)
	}
}
