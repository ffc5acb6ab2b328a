package notify

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Shravanik22/MediLink/internal/metrics"
)

const subscriberBuffer = 16

type subscriber struct {
	actorID string
	ch      chan Event
}

// Hub is an in-process Gateway implementation. Delivery is at-most-once: a
// full subscriber channel drops the event rather than blocking the caller.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[*subscriber]struct{}),
		logger: logger,
	}
}

// Subscribe registers a listener for broadcast events plus events directed at
// actorID. The returned cancel func must be called when the listener goes
// away.
func (h *Hub) Subscribe(actorID string) (<-chan Event, func()) {
	sub := &subscriber{
		actorID: actorID,
		ch:      make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[sub]; ok {
			delete(h.subs, sub)
			close(sub.ch)
		}
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

func (h *Hub) Broadcast(event Event) {
	metrics.NotificationEventsTotal.WithLabelValues(string(event.Kind)).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		h.deliver(sub, event)
	}
}

func (h *Hub) SendTo(actorID string, event Event) {
	metrics.NotificationEventsTotal.WithLabelValues(string(event.Kind)).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if sub.actorID == actorID {
			h.deliver(sub, event)
		}
	}
}

func (h *Hub) deliver(sub *subscriber, event Event) {
	select {
	case sub.ch <- event:
	default:
		metrics.NotificationDropsTotal.Inc()
		h.logger.Warn("dropping notification for slow subscriber",
			zap.String("actor_id", sub.actorID),
			zap.String("kind", string(event.Kind)),
			zap.String("order_id", event.OrderID))
	}
}
