package observer

import "sync"

// Hub fans frames out to subscribers. A subscriber that has not drained its
// buffer misses frames rather than stalling the publisher.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan []byte
	buffer int

	dropped uint64
}

// NewHub returns a hub whose subscribers buffer up to buffer frames.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{subs: make(map[uint64]chan []byte), buffer: buffer}
}

// Subscribe registers a new receiver.
func (h *Hub) Subscribe() (uint64, <-chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	ch := make(chan []byte, h.buffer)
	h.subs[h.nextID] = ch
	return h.nextID, ch
}

// Unsubscribe removes a receiver and closes its channel.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish offers frame to every subscriber.
func (h *Hub) Publish(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- frame:
		default:
			h.dropped++
		}
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped returns how many frames were skipped for slow subscribers.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
