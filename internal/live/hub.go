// Package live provides the change-notification hub behind live
// queries. The store signals the hub after every committed write;
// each subscriber re-reads a full snapshot per signal.
package live

import "sync"

// Hub fans change signals out to subscribers. Signals carry no
// payload and coalesce: a subscriber that is still processing one
// snapshot sees at most one pending signal.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]chan struct{}
	nextID uint64
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan struct{})}
}

// Subscribe registers a new subscriber. The channel starts with one
// pending signal so the subscriber emits an initial snapshot without
// waiting for a write.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan struct{}, 1)
	if h.closed {
		close(ch)
		return &Subscription{hub: h, ch: ch, cancelled: true}
	}
	ch <- struct{}{}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	return &Subscription{hub: h, id: id, ch: ch}
}

// Notify signals every subscriber. Never blocks: a subscriber with a
// signal already pending is skipped, it will re-read anyway.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close cancels all subscriptions. Subsequent Notify calls are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}

// Subscription is one subscriber's handle. Cancelling has no effect
// on the store or on other subscribers.
type Subscription struct {
	hub       *Hub
	id        uint64
	ch        chan struct{}
	cancelled bool
}

// Changes yields one value per pending change. The channel is closed
// when the subscription is cancelled or the hub shuts down.
func (s *Subscription) Changes() <-chan struct{} {
	return s.ch
}

func (s *Subscription) Cancel() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if s.cancelled || s.hub.closed {
		s.cancelled = true
		return
	}
	s.cancelled = true
	if ch, ok := s.hub.subs[s.id]; ok {
		close(ch)
		delete(s.hub.subs, s.id)
	}
}
