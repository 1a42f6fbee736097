package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeBooking = "Booking"

// Event type constants
const (
	EventTypeBookingCreated       = "BookingCreated"
	EventTypeBookingStatusChanged = "BookingStatusChanged"
	EventTypeBookingCancelled     = "BookingCancelled"
	EventTypeBookingRescheduled   = "BookingRescheduled"
)

// BookingCreatedEvent is published when a customer books a tour
type BookingCreatedEvent struct {
	shared.BaseDomainEvent
	BookingID    uuid.UUID       `json:"booking_id"`
	OrderNumber  string          `json:"order_number"`
	UserID       uuid.UUID       `json:"user_id"`
	TourID       uuid.UUID       `json:"tour_id"`
	TourTitle    string          `json:"tour_title"`
	TourSlug     string          `json:"tour_slug"`
	TravelDate   time.Time       `json:"travel_date"`
	People       int             `json:"people"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	ContactName  string          `json:"contact_name"`
	ContactEmail string          `json:"contact_email"`
	ContactPhone string          `json:"contact_phone,omitempty"`
}

// NewBookingCreatedEvent creates a new BookingCreatedEvent
func NewBookingCreatedEvent(b *Booking) *BookingCreatedEvent {
	return &BookingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCreated, AggregateTypeBooking, b.ID),
		BookingID:       b.ID,
		OrderNumber:     b.OrderNumber,
		UserID:          b.UserID,
		TourID:          b.TourID,
		TourTitle:       b.TourTitle,
		TourSlug:        b.TourSlug,
		TravelDate:      b.TravelDate,
		People:          b.People,
		UnitPrice:       b.UnitPrice,
		TotalPrice:      b.TotalPrice,
		ContactName:     b.Contact.Name,
		ContactEmail:    b.Contact.Email,
		ContactPhone:    b.Contact.Phone,
	}
}

// BookingStatusChangedEvent is published on every lifecycle transition
type BookingStatusChangedEvent struct {
	shared.BaseDomainEvent
	BookingID    uuid.UUID     `json:"booking_id"`
	OrderNumber  string        `json:"order_number"`
	TourSlug     string        `json:"tour_slug"`
	TourTitle    string        `json:"tour_title"`
	ContactName  string        `json:"contact_name"`
	ContactEmail string        `json:"contact_email"`
	TravelDate   time.Time     `json:"travel_date"`
	FromStatus   BookingStatus `json:"from_status"`
	ToStatus     BookingStatus `json:"to_status"`
}

// NewBookingStatusChangedEvent creates a new BookingStatusChangedEvent
func NewBookingStatusChangedEvent(b *Booking, from, to BookingStatus) *BookingStatusChangedEvent {
	return &BookingStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingStatusChanged, AggregateTypeBooking, b.ID),
		BookingID:       b.ID,
		OrderNumber:     b.OrderNumber,
		TourSlug:        b.TourSlug,
		TourTitle:       b.TourTitle,
		ContactName:     b.Contact.Name,
		ContactEmail:    b.Contact.Email,
		TravelDate:      b.TravelDate,
		FromStatus:      from,
		ToStatus:        to,
	}
}

// BookingCancelledEvent is published when a booking is cancelled
type BookingCancelledEvent struct {
	shared.BaseDomainEvent
	BookingID   uuid.UUID `json:"booking_id"`
	OrderNumber string    `json:"order_number"`
	TourID      uuid.UUID `json:"tour_id"`
	People      int       `json:"people"`
	Reason      string    `json:"reason,omitempty"`
}

// NewBookingCancelledEvent creates a new BookingCancelledEvent
func NewBookingCancelledEvent(b *Booking) *BookingCancelledEvent {
	return &BookingCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCancelled, AggregateTypeBooking, b.ID),
		BookingID:       b.ID,
		OrderNumber:     b.OrderNumber,
		TourID:          b.TourID,
		People:          b.People,
		Reason:          b.CancelReason,
	}
}

// BookingRescheduledEvent is published when the travel date or party size changes
type BookingRescheduledEvent struct {
	shared.BaseDomainEvent
	BookingID          uuid.UUID       `json:"booking_id"`
	OrderNumber        string          `json:"order_number"`
	TourID             uuid.UUID       `json:"tour_id"`
	TourSlug           string          `json:"tour_slug"`
	PreviousTravelDate time.Time       `json:"previous_travel_date"`
	TravelDate         time.Time       `json:"travel_date"`
	PreviousPeople     int             `json:"previous_people"`
	People             int             `json:"people"`
	TotalPrice         decimal.Decimal `json:"total_price"`
}

// NewBookingRescheduledEvent creates a new BookingRescheduledEvent
func NewBookingRescheduledEvent(b *Booking, previousDate time.Time, previousPeople int) *BookingRescheduledEvent {
	return &BookingRescheduledEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeBookingRescheduled, AggregateTypeBooking, b.ID),
		BookingID:          b.ID,
		OrderNumber:        b.OrderNumber,
		TourID:             b.TourID,
		TourSlug:           b.TourSlug,
		PreviousTravelDate: previousDate,
		TravelDate:         b.TravelDate,
		PreviousPeople:     previousPeople,
		People:             b.People,
		TotalPrice:         b.TotalPrice,
	}
}
