package booking

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/shared"
)

const maxSpecialRequestsLength = 1000

// Contact holds the lead traveller's contact details
type Contact struct {
	Name  string `gorm:"column:contact_name;type:varchar(100);not null"`
	Email string `gorm:"column:contact_email;type:varchar(200);not null;index"`
	Phone string `gorm:"column:contact_phone;type:varchar(50)"`
}

// Validate checks the contact details
func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewDomainError("INVALID_CONTACT", "Contact name is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return shared.NewDomainError("INVALID_CONTACT", "Contact email is invalid")
	}
	return nil
}

// TourSnapshot is the tour data captured at booking time
type TourSnapshot struct {
	ID           uuid.UUID
	Title        string
	Slug         string
	Price        decimal.Decimal
	DurationDays int
}

// Booking is the aggregate root for a customer's reservation of a tour
type Booking struct {
	shared.BaseAggregateRoot
	OrderNumber     string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TourID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_booking_tour_date,priority:1"`
	TourTitle       string          `gorm:"type:varchar(200);not null"`
	TourSlug        string          `gorm:"type:varchar(220);not null"`
	TravelDate      time.Time       `gorm:"type:date;not null;index:idx_booking_tour_date,priority:2"`
	DurationDays    int             `gorm:"not null;default:1"`
	People          int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Contact         Contact         `gorm:"embedded"`
	SpecialRequests string          `gorm:"type:text"`
	Status          BookingStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	ConfirmedAt     *time.Time
	PaidAt          *time.Time
	CancelledAt     *time.Time
	CompletedAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

// NewBooking creates a pending booking priced at unit price times people
func NewBooking(orderNumber string, userID uuid.UUID, tour TourSnapshot, travelDate time.Time, people int, contact Contact, specialRequests string, now time.Time) (*Booking, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	if tour.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TOUR", "Tour is required")
	}
	if err := validateTravel(travelDate, people, now); err != nil {
		return nil, err
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(specialRequests) > maxSpecialRequestsLength {
		return nil, shared.NewDomainError("INVALID_REQUESTS", "Special requests cannot exceed 1000 characters")
	}

	duration := tour.DurationDays
	if duration < 1 {
		duration = 1
	}

	b := &Booking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		TourID:            tour.ID,
		TourTitle:         tour.Title,
		TourSlug:          tour.Slug,
		TravelDate:        TruncateDate(travelDate),
		DurationDays:      duration,
		People:            people,
		UnitPrice:         tour.Price,
		TotalPrice:        tour.Price.Mul(decimal.NewFromInt(int64(people))),
		Contact:           contact,
		SpecialRequests:   strings.TrimSpace(specialRequests),
		Status:            StatusPending,
	}

	b.AddDomainEvent(NewBookingCreatedEvent(b))

	return b, nil
}

// ChangesTrip reports whether travelDate or people differ from the booked trip
func (b *Booking) ChangesTrip(travelDate time.Time, people int) bool {
	return people != b.People || !TruncateDate(travelDate).Equal(TruncateDate(b.TravelDate))
}

// Reschedule changes the party size and travel date and reprices the booking.
// Keeping the current trip is a no-op, so bookings already under way can still
// have their contact details edited.
func (b *Booking) Reschedule(travelDate time.Time, people int, now time.Time) error {
	if !b.Status.IsActive() {
		return shared.NewDomainError("INVALID_STATE", "Only active bookings can be changed")
	}
	if !b.ChangesTrip(travelDate, people) {
		return nil
	}
	if err := validateTravel(travelDate, people, now); err != nil {
		return err
	}
	previousDate, previousPeople := b.TravelDate, b.People
	b.TravelDate = TruncateDate(travelDate)
	b.People = people
	b.TotalPrice = b.UnitPrice.Mul(decimal.NewFromInt(int64(people)))
	b.MarkModified()
	b.AddDomainEvent(NewBookingRescheduledEvent(b, previousDate, previousPeople))
	return nil
}

// UpdateContact replaces the contact details
func (b *Booking) UpdateContact(contact Contact, specialRequests string) error {
	if err := contact.Validate(); err != nil {
		return err
	}
	if utf8.RuneCountInString(specialRequests) > maxSpecialRequestsLength {
		return shared.NewDomainError("INVALID_REQUESTS", "Special requests cannot exceed 1000 characters")
	}
	b.Contact = contact
	b.SpecialRequests = strings.TrimSpace(specialRequests)
	b.MarkModified()
	return nil
}

// Confirm confirms a pending booking
func (b *Booking) Confirm() error {
	if err := b.transitionTo(StatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	b.ConfirmedAt = &now
	return nil
}

// MarkPaid records payment for a confirmed booking
func (b *Booking) MarkPaid() error {
	if err := b.transitionTo(StatusPaid); err != nil {
		return err
	}
	now := time.Now()
	b.PaidAt = &now
	return nil
}

// Complete marks the trip as taken
func (b *Booking) Complete() error {
	if err := b.transitionTo(StatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	b.CompletedAt = &now
	return nil
}

// Cancel cancels the booking with a reason
func (b *Booking) Cancel(reason string) error {
	if err := b.transitionTo(StatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	b.CancelledAt = &now
	b.CancelReason = strings.TrimSpace(reason)
	b.AddDomainEvent(NewBookingCancelledEvent(b))
	return nil
}

// CancelByCustomer cancels on behalf of the booking owner, only before the trip starts
func (b *Booking) CancelByCustomer(userID uuid.UUID, reason string, now time.Time) error {
	if b.UserID != userID {
		return shared.ErrForbidden
	}
	if !TruncateDate(now).Before(b.TravelDate) {
		return shared.NewDomainError("CANCELLATION_CLOSED", "Bookings can only be cancelled before the travel date")
	}
	return b.Cancel(reason)
}

// ChangeStatus applies an arbitrary admin status change through the lifecycle rules
func (b *Booking) ChangeStatus(target BookingStatus, reason string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown booking status")
	}
	switch target {
	case StatusConfirmed:
		return b.Confirm()
	case StatusPaid:
		return b.MarkPaid()
	case StatusCompleted:
		return b.Complete()
	case StatusCancelled:
		return b.Cancel(reason)
	}
	return shared.NewDomainError("INVALID_STATE", "Cannot move booking back to "+string(target))
}

// TripEndsAt returns the day after the last day of the trip
func (b *Booking) TripEndsAt() time.Time {
	return b.TravelDate.AddDate(0, 0, b.DurationDays)
}

// IsUpcoming reports whether the booking is active and the trip has not started
func (b *Booking) IsUpcoming(now time.Time) bool {
	return b.Status.IsActive() && !b.TravelDate.Before(TruncateDate(now))
}

func (b *Booking) transitionTo(target BookingStatus) error {
	if !b.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot change booking status from "+string(b.Status)+" to "+string(target))
	}
	from := b.Status
	b.Status = target
	b.MarkModified()
	b.AddDomainEvent(NewBookingStatusChangedEvent(b, from, target))
	return nil
}

func validateTravel(travelDate time.Time, people int, now time.Time) error {
	if people < 1 {
		return shared.NewDomainError("INVALID_PEOPLE", "At least one person is required")
	}
	if travelDate.IsZero() {
		return shared.NewDomainError("INVALID_TRAVEL_DATE", "Travel date is required")
	}
	if TruncateDate(travelDate).Before(TruncateDate(now)) {
		return shared.NewDomainError("INVALID_TRAVEL_DATE", "Travel date cannot be in the past")
	}
	return nil
}

// TruncateDate drops the time of day, in UTC
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
