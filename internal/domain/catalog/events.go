package catalog

import (
	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTour = "Tour"

// Event type constants
const (
	EventTypeTourPublished = "TourPublished"
	EventTypeTourUpdated   = "TourUpdated"
	EventTypeTourDeleted   = "TourDeleted"
)

// TourPublishedEvent is published when a tour becomes visible
type TourPublishedEvent struct {
	shared.BaseDomainEvent
	TourID uuid.UUID `json:"tour_id"`
	Slug   string    `json:"slug"`
	Title  string    `json:"title"`
}

// NewTourPublishedEvent creates a new TourPublishedEvent
func NewTourPublishedEvent(t *Tour) *TourPublishedEvent {
	return &TourPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTourPublished, AggregateTypeTour, t.ID),
		TourID:          t.ID,
		Slug:            t.Slug,
		Title:           t.Title,
	}
}

// TourUpdatedEvent is published when tour content or state changes
type TourUpdatedEvent struct {
	shared.BaseDomainEvent
	TourID uuid.UUID  `json:"tour_id"`
	Slug   string     `json:"slug"`
	Status TourStatus `json:"status"`
}

// NewTourUpdatedEvent creates a new TourUpdatedEvent
func NewTourUpdatedEvent(t *Tour) *TourUpdatedEvent {
	return &TourUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTourUpdated, AggregateTypeTour, t.ID),
		TourID:          t.ID,
		Slug:            t.Slug,
		Status:          t.Status,
	}
}

// TourDeletedEvent is published after a tour is removed
type TourDeletedEvent struct {
	shared.BaseDomainEvent
	TourID uuid.UUID `json:"tour_id"`
	Slug   string    `json:"slug"`
}

// NewTourDeletedEvent creates a new TourDeletedEvent
func NewTourDeletedEvent(t *Tour) *TourDeletedEvent {
	return &TourDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTourDeleted, AggregateTypeTour, t.ID),
		TourID:          t.ID,
		Slug:            t.Slug,
	}
}
