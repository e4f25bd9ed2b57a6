package telemetry

// History is a bounded ring buffer of snapshots; appending beyond capacity
// evicts the oldest entry.
type History struct {
	buf   []Snapshot
	start int
	n     int
}

// NewHistory creates a history holding at most capacity snapshots.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]Snapshot, capacity)}
}

// Append adds a snapshot.
func (h *History) Append(s Snapshot) {
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = s
		h.n++
		return
	}
	h.buf[h.start] = s
	h.start = (h.start + 1) % len(h.buf)
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return h.n
}

// At returns the i-th snapshot, oldest first.
func (h *History) At(i int) Snapshot {
	return h.buf[(h.start+i)%len(h.buf)]
}

// All returns a copy of the stored snapshots, oldest first.
func (h *History) All() []Snapshot {
	out := make([]Snapshot, h.n)
	for i := range out {
		out[i] = h.At(i)
	}
	return out
}

// Last returns the newest snapshot; ok is false when empty.
func (h *History) Last() (Snapshot, bool) {
	if h.n == 0 {
		return Snapshot{}, false
	}
	return h.At(h.n - 1), true
}

// Reset removes all snapshots.
func (h *History) Reset() {
	h.start = 0
	h.n = 0
}
