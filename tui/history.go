// Package tui provides a Bubble Tea terminal UI for playtesting
// Antares campaigns.
package tui

// History keeps the most recent commands for up/down recall. Entries
// live in a fixed ring; once it fills, new commands overwrite the
// oldest. The cursor is an offset counted back from the newest entry,
// zero meaning fresh input.
type History struct {
	ring   []string
	head   int // next write slot
	size   int
	offset int // 0 = not navigating, n = n entries back
}

// NewHistory creates a history holding at most capacity commands.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{ring: make([]string, capacity)}
}

// Push records a command, dropping it if it repeats the newest entry.
func (h *History) Push(cmd string) {
	if h.size > 0 && h.at(1) == cmd {
		return
	}
	h.ring[h.head] = cmd
	h.head = (h.head + 1) % len(h.ring)
	if h.size < len(h.ring) {
		h.size++
	}
}

// at returns the entry n steps back from the write slot (1 = newest).
func (h *History) at(n int) string {
	i := h.head - n
	if i < 0 {
		i += len(h.ring)
	}
	return h.ring[i]
}

// Prev steps to the next older entry, sticking at the oldest.
func (h *History) Prev() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	if h.offset < h.size {
		h.offset++
	}
	return h.at(h.offset), true
}

// Next steps back toward the newest entry, returning false once it
// walks past it to fresh input.
func (h *History) Next() (string, bool) {
	if h.offset <= 1 {
		h.offset = 0
		return "", false
	}
	h.offset--
	return h.at(h.offset), true
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.offset = 0
}
