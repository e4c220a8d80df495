// Package history stores previously accepted command lines in a
// fixed-depth ring with an independent scroll cursor.
package history

// Ring is a fixed-depth store of trimmed command lines. head is the next
// write slot, tail the oldest occupied slot and cur the scroll position;
// head == tail means empty, and cur always lies between tail and head.
// All entry storage is allocated once at creation.
type Ring struct {
	entries [][]byte
	lengths []int
	depth   int

	head int
	tail int
	cur  int
}

// New returns a history ring holding up to depth entries of at most
// entryLen bytes each.
func New(depth, entryLen int) *Ring {
	if depth < 1 {
		depth = 1
	}
	if entryLen < 1 {
		entryLen = 1
	}
	// One extra slot separates head from tail when full.
	depth++
	h := &Ring{
		entries: make([][]byte, depth),
		lengths: make([]int, depth),
		depth:   depth,
	}
	for i := range h.entries {
		h.entries[i] = make([]byte, entryLen)
	}
	return h
}

// Append trims line and stores it at the head slot. Empty results are
// ignored. A line equal to the most recent entry is not stored again, but
// the scroll cursor still snaps back to the head so a recalled-and-resent
// command leaves the scroll position at "latest". When the ring is full
// the oldest entry is discarded.
func (h *Ring) Append(line []byte) {
	t := Trim(line)
	if len(t) == 0 {
		return
	}
	if h.duplicateOfRecent(t) {
		// Likely an up-arrow recall that lifted cur; push it back.
		h.cur = h.head
		return
	}
	if len(t) > len(h.entries[h.head]) {
		t = t[:len(h.entries[h.head])]
	}
	copy(h.entries[h.head], t)
	h.lengths[h.head] = len(t)

	h.head = (h.head + 1) % h.depth
	h.cur = h.head
	if h.head == h.tail {
		h.tail = (h.tail + 1) % h.depth
	}
}

// ScrollUp moves the cursor to the previous (older) entry and returns it.
// It returns false when the cursor already sits on the oldest entry.
// The returned slice aliases internal storage and must be consumed before
// the next Append.
func (h *Ring) ScrollUp() ([]byte, bool) {
	if h.cur == h.tail {
		return nil, false
	}
	h.cur = (h.cur - 1 + h.depth) % h.depth
	return h.entries[h.cur][:h.lengths[h.cur]], true
}

// ScrollDown moves the cursor to the next (newer) entry and returns it.
// It returns false when the cursor is already at the head, or when the
// move lands it back on the head (the empty "new line" position).
func (h *Ring) ScrollDown() ([]byte, bool) {
	if h.cur == h.head {
		return nil, false
	}
	h.cur = (h.cur + 1) % h.depth
	if h.cur == h.head {
		return nil, false
	}
	return h.entries[h.cur][:h.lengths[h.cur]], true
}

// Len reports the number of stored entries.
func (h *Ring) Len() int {
	n := h.head - h.tail
	if n < 0 {
		n += h.depth
	}
	return n
}

// Reset zeroes all entries and returns every index to its initial state.
func (h *Ring) Reset() {
	h.head = 0
	h.tail = 0
	h.cur = 0
	for i := range h.entries {
		for j := range h.entries[i] {
			h.entries[i][j] = 0
		}
		h.lengths[i] = 0
	}
}

func (h *Ring) duplicateOfRecent(t []byte) bool {
	if h.head == h.tail {
		return false
	}
	recent := (h.head - 1 + h.depth) % h.depth
	prev := h.entries[recent][:h.lengths[recent]]
	return string(prev) == string(t)
}

// Trim returns the subslice of b with leading and trailing whitespace
// removed. A nil or all-space input yields an empty slice.
func Trim(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
