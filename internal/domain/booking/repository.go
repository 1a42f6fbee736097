package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/shared"
)

// BookingRepository defines the interface for booking persistence
type BookingRepository interface {
	// FindByID finds a booking by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByOrderNumber finds a booking by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Booking, error)

	// FindAll lists bookings matching the filter.
	// Supported filter keys: status, user_id, tour_id, from, to.
	// Search matches order number, contact name and contact email.
	FindAll(ctx context.Context, filter shared.Filter) ([]Booking, error)

	// Count counts bookings matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a booking
	Save(ctx context.Context, booking *Booking) error

	// SaveWithLock updates a booking only if the stored version still equals
	// loadedVersion, the version the booking had when it was read
	SaveWithLock(ctx context.Context, booking *Booking, loadedVersion int) error

	// Delete deletes a booking
	Delete(ctx context.Context, id uuid.UUID) error

	// SumActivePeople returns the seats held by active bookings of a tour on a date,
	// ignoring excludeID
	SumActivePeople(ctx context.Context, tourID uuid.UUID, travelDate time.Time, excludeID uuid.UUID) (int, error)

	// GenerateOrderNumber returns the next order number for the year of now
	GenerateOrderNumber(ctx context.Context, now time.Time) (string, error)

	// FindDueForCompletion returns confirmed or paid bookings whose trip ended before now
	FindDueForCompletion(ctx context.Context, now time.Time, limit int) ([]Booking, error)

	// CountByTour counts bookings referencing a tour
	CountByTour(ctx context.Context, tourID uuid.UUID) (int64, error)
}
