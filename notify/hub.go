// Package notify fans match events out to interested subscribers, such as a
// websocket layer pushing fresh matches to clients.
package notify

import (
	"log/slog"
	"sync"
)

// MatchEvent announces a freshly persisted match.
type MatchEvent struct {
	MatchId       string
	LostReportId  string
	FoundReportId string
	FusedScore    float32
}

const defaultBufferSize = 16

// Hub is an in-process publish/subscribe fan-out for match events.
// Publishing never blocks; a subscriber that falls behind loses events.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int]chan MatchEvent
	nextID      int
	closed      bool
	logger      *slog.Logger
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int]chan MatchEvent),
		logger:      slog.Default().With("component", "notify-hub"),
	}
}

// Subscribe registers a new subscriber and returns its event channel along
// with an unsubscribe function. The channel is closed on unsubscribe or when
// the hub shuts down.
func (h *Hub) Subscribe() (<-chan MatchEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan MatchEvent, defaultBufferSize)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subscribers[id] = ch

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Publish delivers an event to all current subscribers without blocking.
func (h *Hub) Publish(event MatchEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for _, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			h.logger.Warn("subscriber buffer full, dropping event",
				"match_id", event.MatchId)
		}
	}
}

// Close shuts down the hub and closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
}
