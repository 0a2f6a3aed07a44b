// Package notify implements the best-effort fan-out for new orders: an
// in-process hub feeding connected stream clients, an optional Kafka
// publisher, and an optional Redis pub/sub bridge between instances. No
// target gives a delivery guarantee and none persists events.
package notify

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

// subscriberBuffer bounds each subscriber channel. A full channel means the
// client is too slow and the event is dropped for it.
const subscriberBuffer = 16

// Hub broadcasts order events to currently connected subscribers. Fire and
// forget: no acknowledgment, no replay for late subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan domain.OrderPlacedEvent]struct{}
	logger *log.Entry
}

// NewHub returns an empty hub.
func NewHub(logger *log.Entry) *Hub {
	if logger == nil {
		logger = log.WithField("component", "notify-hub")
	}
	return &Hub{
		subs:   make(map[chan domain.OrderPlacedEvent]struct{}),
		logger: logger,
	}
}

// Subscribe registers a new observer. The returned cancel function must be
// called when the observer disconnects; it closes the channel.
func (h *Hub) Subscribe() (<-chan domain.OrderPlacedEvent, func()) {
	ch := make(chan domain.OrderPlacedEvent, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// SubscriberCount reports the number of connected observers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// OrderPlaced fans the event out without blocking. Slow subscribers are
// skipped. Always returns nil.
func (h *Hub) OrderPlaced(_ context.Context, event domain.OrderPlacedEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.logger.WithField("order_id", event.OrderID).Debug("subscriber lagging, event dropped")
		}
	}
	return nil
}

var _ domain.OrderNotifier = (*Hub)(nil)
