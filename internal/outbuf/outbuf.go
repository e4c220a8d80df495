// Package outbuf implements the double-buffered (ping-pong) output stage.
// Writers append to the active buffer while the alternate buffer may still
// be in flight on the transport; a flush hands the active buffer to the
// asynchronous transmit function and swaps the two.
package outbuf

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrBufferFull is returned when an append does not fit in the
	// active buffer. The write is dropped; nothing is partially stored.
	ErrBufferFull = errors.New("output buffer full")

	// ErrTransmitInProgress is returned by Flush while a previous
	// transmission has not completed or buffered bytes remain. It is the
	// sole backpressure signal: the caller retries the flush later.
	ErrTransmitInProgress = errors.New("transmission in progress")
)

// TransmitFunc starts an asynchronous transmission of p. Completion is
// reported back through Buffer.TxComplete.
type TransmitFunc func(p []byte) error

// Buffer is the ping-pong output accumulator. Both fixed buffers are
// allocated once at creation. TxComplete may be called from a different
// goroutine than the writers; everything else is single-context.
type Buffer struct {
	bufs     [2][]byte
	active   int
	stored   int
	size     int
	transmit TransmitFunc
	txDone   atomic.Bool
}

// New returns a buffer pair of the given size wired to transmit.
func New(size int, transmit TransmitFunc) *Buffer {
	b := &Buffer{
		size:     size,
		transmit: transmit,
	}
	b.bufs[0] = make([]byte, size)
	b.bufs[1] = make([]byte, size)
	b.txDone.Store(true)
	return b
}

// PutByte appends a single byte to the active buffer.
func (b *Buffer) PutByte(c byte) error {
	if b.stored+1 >= b.size {
		return ErrBufferFull
	}
	b.bufs[b.active][b.stored] = c
	b.stored++
	return nil
}

// PutString appends s to the active buffer.
func (b *Buffer) PutString(s string) error {
	if b.stored+len(s) >= b.size {
		return ErrBufferFull
	}
	copy(b.bufs[b.active][b.stored:], s)
	b.stored += len(s)
	return nil
}

// Put appends p to the active buffer.
func (b *Buffer) Put(p []byte) error {
	if b.stored+len(p) >= b.size {
		return ErrBufferFull
	}
	copy(b.bufs[b.active][b.stored:], p)
	b.stored += len(p)
	return nil
}

// Write implements io.Writer over Put so command handlers can print
// through the buffer.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Put(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Stored reports the number of bytes waiting in the active buffer.
func (b *Buffer) Stored() int {
	return b.stored
}

// FreeSpace reports how many more bytes the active buffer can take.
func (b *Buffer) FreeSpace() int {
	return b.size - b.stored
}

// TxComplete records that the outstanding transmission has finished. It is
// the only method safe to call from the transport's completion context.
func (b *Buffer) TxComplete() {
	b.txDone.Store(true)
}

// Flush hands the active buffer to the transmit function and swaps to the
// alternate buffer. While the previous transmission is still outstanding
// nothing is handed over and the stored count is left untouched. Flush
// returns nil only once everything has been handed to the transport and
// the last transmission has completed; until then it returns
// ErrTransmitInProgress so the caller knows to come back.
func (b *Buffer) Flush() error {
	if b.stored > 0 && b.txDone.Load() {
		b.txDone.Store(false)
		p := b.bufs[b.active][:b.stored]
		b.active ^= 1
		b.stored = 0
		if err := b.transmit(p); err != nil {
			return err
		}
	}
	if !b.txDone.Load() || b.stored > 0 {
		return ErrTransmitInProgress
	}
	return nil
}
