package event

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tourbook/backend/internal/domain/shared"
)

type mockHandler struct {
	eventTypes []string
}

func newMockHandler(eventTypes ...string) *mockHandler {
	return &mockHandler{eventTypes: eventTypes}
}

func (h *mockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	return nil
}

func (h *mockHandler) EventTypes() []string {
	return h.eventTypes
}

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler()

	registry.Register(handler, "BookingCreated", "BookingCancelled")

	assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers("BookingCreated"))
	assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers("BookingCancelled"))
	assert.Empty(t, registry.GetHandlers("TourPublished"))
}

func TestHandlerRegistry_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	specific := newMockHandler()
	wildcard := newMockHandler()

	registry.Register(specific, "BookingCreated")
	registry.Register(wildcard)

	assert.Equal(t, []shared.EventHandler{specific, wildcard}, registry.GetHandlers("BookingCreated"))
	assert.Equal(t, []shared.EventHandler{wildcard}, registry.GetHandlers("PostPublished"))
}

func TestHandlerRegistry_NoDuplicates(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler()

	registry.Register(handler, "BookingCreated")
	registry.Register(handler, "BookingCreated")
	registry.Register(handler)

	assert.Len(t, registry.GetHandlers("BookingCreated"), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	handler1 := newMockHandler()
	handler2 := newMockHandler()
	wildcard := newMockHandler()

	registry.Register(handler1, "BookingCreated", "TourUpdated")
	registry.Register(handler2, "BookingCreated")
	registry.Register(wildcard)

	registry.Unregister(handler1)
	registry.Unregister(wildcard)

	assert.Equal(t, []shared.EventHandler{handler2}, registry.GetHandlers("BookingCreated"))
	assert.Empty(t, registry.GetHandlers("TourUpdated"))
	assert.Equal(t, []string{"BookingCreated"}, registry.EventTypes())
}

func TestHandlerRegistry_EventTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.Register(newMockHandler(), "TourPublished", "BookingCreated")

	types := registry.EventTypes()
	sort.Strings(types)
	assert.Equal(t, []string{"BookingCreated", "TourPublished"}, types)
}
