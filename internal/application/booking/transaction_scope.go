package booking

import (
	"context"

	"github.com/tourbook/backend/internal/domain/booking"
	"github.com/tourbook/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to the repositories a booking
// write touches. Everything done through the repositories handed to fn is
// committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to one transaction.
//
// Tours is used to lock the tour row (FindByIDForUpdate) so concurrent
// bookings for the same tour serialize on the capacity check.
type TransactionalRepositories interface {
	Tours() catalog.TourRepository
	Bookings() booking.BookingRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Used in tests.
type NoOpTransactionScope struct {
	tours    catalog.TourRepository
	bookings booking.BookingRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(tours catalog.TourRepository, bookings booking.BookingRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{tours: tours, bookings: bookings}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Tours returns the tour repository
func (s *NoOpTransactionScope) Tours() catalog.TourRepository {
	return s.tours
}

// Bookings returns the booking repository
func (s *NoOpTransactionScope) Bookings() booking.BookingRepository {
	return s.bookings
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
