package cli

import (
	"strings"
	"sync"
)

// History is a bounded, thread-safe line history. When full, the oldest
// line is dropped. The interactive session keeps the recent questions in
// one so long sessions stay flat in memory.
type History struct {
	mu    sync.Mutex
	lines []string
	max   int
}

// NewHistory creates a history holding at most max lines.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{max: max}
}

// Add appends a line, evicting the oldest when the history is full.
func (h *History) Add(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = append(h.lines, line)
	if len(h.lines) > h.max {
		// Shift instead of reslice so the backing array does not grow
		// without bound.
		copy(h.lines, h.lines[1:])
		h.lines = h.lines[:h.max]
	}
}

// Lines returns a copy of the buffered lines, oldest first.
func (h *History) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

// Len returns the number of buffered lines.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lines)
}

// Reset discards all buffered lines.
func (h *History) Reset() {
	h.mu.Lock()
	h.lines = h.lines[:0]
	h.mu.Unlock()
}

// Write implements io.Writer so a History can capture log output for the
// session view. Multi-line input is split on newlines.
func (h *History) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\n")
	for _, line := range strings.Split(text, "\n") {
		h.Add(line)
	}
	return len(p), nil
}
