package notification

import "sync"

// Hub fans new notifications out to live websocket subscribers. Slow or
// absent subscribers never block publishers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan *Notification]struct{} // user id -> subscriber channels
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[chan *Notification]struct{}),
	}
}

// Subscribe registers a channel for a user's notifications. The returned
// cancel func must be called when the subscriber goes away.
func (h *Hub) Subscribe(userID string) (<-chan *Notification, func()) {
	ch := make(chan *Notification, 16)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan *Notification]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

func (h *Hub) Publish(userID string, n *Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[userID] {
		select {
		case ch <- n:
		default:
			// Subscriber buffer full: drop instead of blocking.
		}
	}
}
