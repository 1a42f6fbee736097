package persistence

import (
	"context"

	appbooking "github.com/tourbook/backend/internal/application/booking"
	"github.com/tourbook/backend/internal/domain/booking"
	"github.com/tourbook/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormTransactionScope implements the booking TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbooking.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Tours returns the tour repository scoped to the current transaction
func (r *gormTransactionalRepositories) Tours() catalog.TourRepository {
	return NewGormTourRepository(r.tx)
}

// Bookings returns the booking repository scoped to the current transaction
func (r *gormTransactionalRepositories) Bookings() booking.BookingRepository {
	return NewGormBookingRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appbooking.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appbooking.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
