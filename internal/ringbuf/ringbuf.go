// Package ringbuf implements the single-producer single-consumer circular
// byte buffer that absorbs asynchronously arriving input.
//
// One context (the receive callback) only writes, one context (the pump
// loop) only reads. There are no locks: each side owns its index and only
// loads the other's, so the handoff is a pair of single-word reads and
// writes rather than a mutex-guarded critical section.
package ringbuf

import "sync/atomic"

// guard keeps a few cells permanently unused so a completely full buffer is
// never mistaken for an empty one when the write index wraps onto the read
// index.
const guard = 4

// Ring is a fixed-capacity circular byte buffer. The backing storage is
// allocated once at creation and never grows.
type Ring struct {
	buf  []byte
	size uint32

	read  atomic.Uint32
	write atomic.Uint32
}

// New returns a ring over a freshly allocated buffer of the given size.
// Usable capacity is size minus the internal guard region.
func New(size int) *Ring {
	if size <= guard {
		size = guard + 1
	}
	return &Ring{
		buf:  make([]byte, size),
		size: uint32(size),
	}
}

// Available reports the number of bytes ready to be read.
func (r *Ring) Available() int {
	n := int32(r.write.Load() - r.read.Load())
	if n < 0 {
		n += int32(r.size)
	}
	return int(n)
}

// Space reports the number of bytes that can be written without
// overrunning the reader.
func (r *Ring) Space() int {
	n := int32(r.read.Load() - r.write.Load() - guard)
	if n < 0 {
		n += int32(r.size)
	}
	return int(n)
}

// Write copies p into the ring. The write is all-or-nothing: if there is
// not enough space, nothing is stored and false is returned.
func (r *Ring) Write(p []byte) bool {
	if r.Space() < len(p) {
		return false
	}
	off := r.write.Load()
	for _, b := range p {
		if off >= r.size {
			off -= r.size
		}
		r.buf[off] = b
		off++
	}
	r.write.Store(off)
	return true
}

// Read copies len(p) bytes out of the ring and consumes them. The read is
// all-or-nothing: if fewer bytes are buffered, nothing is consumed and
// false is returned.
func (r *Ring) Read(p []byte) bool {
	if r.Available() < len(p) {
		return false
	}
	off := r.read.Load()
	for i := range p {
		if off >= r.size {
			off -= r.size
		}
		p[i] = r.buf[off]
		off++
	}
	r.read.Store(off)
	return true
}

// ReadByte consumes and returns a single byte.
func (r *Ring) ReadByte() (byte, bool) {
	var b [1]byte
	if !r.Read(b[:]) {
		return 0, false
	}
	return b[0], true
}

// Peek copies len(p) bytes without consuming them. Like Read it fails
// without side effects when not enough data is buffered.
func (r *Ring) Peek(p []byte) bool {
	if r.Available() < len(p) {
		return false
	}
	off := r.read.Load()
	for i := range p {
		if off >= r.size {
			off -= r.size
		}
		p[i] = r.buf[off]
		off++
	}
	return true
}

// Flush discards up to n buffered bytes, clipping to what is actually
// available, and returns the number discarded.
func (r *Ring) Flush(n int) int {
	avail := r.Available()
	if n > avail {
		n = avail
	}
	off := r.read.Load() + uint32(n)
	if off >= r.size {
		off -= r.size
	}
	r.read.Store(off)
	return n
}
