package feed

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub fans store change events out to filtered subscriptions. It is the
// in-process end of the live feed; the Listener feeds it from Postgres, and
// tests feed it directly.
type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*Subscription
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]*Subscription)}
}

// Subscription is a cancellable stream of feed events. Close is idempotent
// and must be called on every exit path of the consuming view.
type Subscription struct {
	ID     uuid.UUID
	filter Filter
	events chan Event
	once   sync.Once
	hub    *Hub
}

func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s.ID)
	})
}

// Subscribe registers a new subscription scoped by filter.
func (h *Hub) Subscribe(filter Filter) *Subscription {
	sub := &Subscription{
		ID:     uuid.New(),
		filter: filter,
		events: make(chan Event, 32),
		hub:    h,
	}
	h.mu.Lock()
	h.subs[sub.ID] = sub
	h.mu.Unlock()
	return sub
}

// Publish delivers an event to every subscription whose filter wants it.
// A subscriber that cannot keep up loses the event; catching up is the
// consumer's problem on its next snapshot.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		if !sub.filter.wants(ev) {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			log.Printf("feed: subscriber %s is slow, dropping %s event for reservation %d",
				sub.ID, ev.Action, ev.Record.ID)
		}
	}
}

func (h *Hub) unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.events)
	}
}
