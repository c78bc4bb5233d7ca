package event

import (
	"sync"

	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/shared"
)

// Handler consumes domain events published after state changes. Handlers
// must tolerate redelivery and must not assume ordering across aggregates.
type Handler interface {
	// EventTypes returns the event types this handler subscribes to
	EventTypes() []string
	// Handle processes a single event
	Handle(event shared.DomainEvent) error
}

// InMemoryEventBus is a synchronous in-process pub/sub implementing
// shared.EventPublisher. Events are dispatched on the publisher's
// goroutine; a failing handler is logged and does not block the others.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the event types it declares
func (b *InMemoryEventBus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, eventType := range handler.EventTypes() {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
	b.logger.Debug("event handler subscribed",
		zap.Strings("event_types", handler.EventTypes()),
	)
}

// Publish implements shared.EventPublisher
func (b *InMemoryEventBus) Publish(events ...shared.DomainEvent) {
	for _, evt := range events {
		b.mu.RLock()
		handlers := b.handlers[evt.EventType()]
		b.mu.RUnlock()

		for _, handler := range handlers {
			b.dispatch(handler, evt)
		}
	}
}

// dispatch invokes a handler, containing panics and logging failures
func (b *InMemoryEventBus) dispatch(handler Handler, evt shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", evt.EventType()),
				zap.String("event_id", evt.EventID().String()),
				zap.Any("panic", r),
			)
		}
	}()

	if err := handler.Handle(evt); err != nil {
		b.logger.Error("event handler failed",
			zap.String("event_type", evt.EventType()),
			zap.String("event_id", evt.EventID().String()),
			zap.Error(err),
		)
	}
}

var _ shared.EventPublisher = (*InMemoryEventBus)(nil)
