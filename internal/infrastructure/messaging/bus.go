package messaging

import (
	"sync"

	"github.com/motonorte/storefront-go/internal/domain/events"
	"github.com/motonorte/storefront-go/internal/infrastructure/observability/logging"
)

// Handler is invoked with the profile whose state changed. Handlers carry no
// payload; they re-derive whatever they display from the store.
type Handler func(profileID string)

// Bus is the in-context publish/subscribe channel. Delivery is synchronous,
// in subscription order, within the process.
type Bus struct {
	mu     sync.RWMutex
	subs   map[events.Signal][]Handler
	logger *logging.ChanneledLogger
}

// NewBus creates an empty event bus.
func NewBus(logger *logging.ChanneledLogger) *Bus {
	return &Bus{
		subs:   make(map[events.Signal][]Handler),
		logger: logger,
	}
}

// Subscribe registers a handler for a signal.
func (b *Bus) Subscribe(signal events.Signal, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[signal] = append(b.subs[signal], handler)
}

// Publish delivers the signal to every subscriber in subscription order.
// Handlers run outside the bus lock so a handler may itself publish.
func (b *Bus) Publish(signal events.Signal, profileID string) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.subs[signal]))
	copy(handlers, b.subs[signal])
	b.mu.RUnlock()

	if b.logger != nil {
		b.logger.Bus().Debug("Publishing signal", "signal", string(signal), "profileId", profileID, "subscribers", len(handlers))
	}

	for _, handler := range handlers {
		handler(profileID)
	}
}
