package feeder

import (
	"sync"

	"github.com/manav03panchal/feedtime/internal/model"
)

// History keeps the most recent feed events in a fixed-size ring.
type History struct {
	mu     sync.Mutex
	events []model.FeedEvent
	next   int
	full   bool
}

// NewHistory creates a history holding up to size events.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{events: make([]model.FeedEvent, size)}
}

// Add records an event, evicting the oldest when full.
func (h *History) Add(ev model.FeedEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events[h.next] = ev
	h.next = (h.next + 1) % len(h.events)
	if h.next == 0 {
		h.full = true
	}
}

// Len returns the number of events held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.len()
}

func (h *History) len() int {
	if h.full {
		return len(h.events)
	}
	return h.next
}

// List returns the events newest first.
func (h *History) List() []model.FeedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.len()
	out := make([]model.FeedEvent, 0, n)
	for i := 1; i <= n; i++ {
		idx := (h.next - i + len(h.events)) % len(h.events)
		out = append(out, h.events[idx])
	}
	return out
}
