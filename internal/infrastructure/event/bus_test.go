package event

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/shared"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New()),
	}
}

type captureHandler struct {
	mu     sync.Mutex
	types  []string
	seen   []shared.DomainEvent
	err    error
	panics bool
}

func (h *captureHandler) EventTypes() []string { return h.types }

func (h *captureHandler) Handle(evt shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.seen = append(h.seen, evt)
	h.mu.Unlock()
	return h.err
}

func (h *captureHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func TestInMemoryEventBus_PublishDispatchesToSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &captureHandler{types: []string{"test.created"}}
	bus.Subscribe(handler)

	bus.Publish(newTestEvent("test.created"), newTestEvent("test.created"))

	assert.Equal(t, 2, handler.count())
}

func TestInMemoryEventBus_IgnoresUnsubscribedTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &captureHandler{types: []string{"test.created"}}
	bus.Subscribe(handler)

	bus.Publish(newTestEvent("test.deleted"))

	assert.Equal(t, 0, handler.count())
}

func TestInMemoryEventBus_MultipleHandlersPerType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	first := &captureHandler{types: []string{"test.created"}}
	second := &captureHandler{types: []string{"test.created", "test.updated"}}
	bus.Subscribe(first)
	bus.Subscribe(second)

	bus.Publish(newTestEvent("test.created"))
	bus.Publish(newTestEvent("test.updated"))

	assert.Equal(t, 1, first.count())
	assert.Equal(t, 2, second.count())
}

func TestInMemoryEventBus_HandlerErrorDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := &captureHandler{types: []string{"test.created"}, err: errors.New("boom")}
	healthy := &captureHandler{types: []string{"test.created"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	bus.Publish(newTestEvent("test.created"))

	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	panicking := &captureHandler{types: []string{"test.created"}, panics: true}
	healthy := &captureHandler{types: []string{"test.created"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NotPanics(t, func() {
		bus.Publish(newTestEvent("test.created"))
	})
	assert.Equal(t, 1, healthy.count())
}

func TestAuditLogHandler_CoversLifecycleEvents(t *testing.T) {
	handler := NewAuditLogHandler(zap.NewNop())

	types := handler.EventTypes()
	assert.Contains(t, types, "returns.requested")
	assert.Contains(t, types, "returns.refunded")
	assert.Contains(t, types, "finance.refund_completed")

	err := handler.Handle(newTestEvent("returns.requested"))
	assert.NoError(t, err)
}
