package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/booking"
	"github.com/tourbook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBookingRepository implements BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID finds a booking by its ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByOrderNumber finds a booking by its order number
func (r *GormBookingRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).First(&b, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindAll finds all bookings matching the filter
func (r *GormBookingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]booking.Booking, error) {
	var bookings []booking.Booking
	query := r.applyFilter(r.db.WithContext(ctx).Model(&booking.Booking{}), filter).
		Order(OrderClause(filter, BookingSortFields, "created_at"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Count counts bookings matching the filter
func (r *GormBookingRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&booking.Booking{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a booking
func (r *GormBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormBookingRepository) SaveWithLock(ctx context.Context, b *booking.Booking, loadedVersion int) error {
	b.Version = loadedVersion + 1
	b.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Where("id = ? AND version = ?", b.ID, loadedVersion).
		Updates(map[string]interface{}{
			"travel_date":      b.TravelDate,
			"people":           b.People,
			"unit_price":       b.UnitPrice,
			"total_price":      b.TotalPrice,
			"contact_name":     b.Contact.Name,
			"contact_email":    b.Contact.Email,
			"contact_phone":    b.Contact.Phone,
			"special_requests": b.SpecialRequests,
			"status":           b.Status,
			"confirmed_at":     b.ConfirmedAt,
			"paid_at":          b.PaidAt,
			"cancelled_at":     b.CancelledAt,
			"completed_at":     b.CompletedAt,
			"cancel_reason":    b.CancelReason,
			"version":          b.Version,
			"updated_at":       b.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The booking has been modified by another user")
	}
	return nil
}

// Delete deletes a booking
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&booking.Booking{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SumActivePeople sums the people of active bookings for a tour on a travel date
func (r *GormBookingRepository) SumActivePeople(ctx context.Context, tourID uuid.UUID, travelDate time.Time, excludeID uuid.UUID) (int, error) {
	var total int
	query := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Select("COALESCE(SUM(people), 0)").
		Where("tour_id = ? AND travel_date = ? AND status IN ?", tourID, booking.TruncateDate(travelDate), booking.ActiveStatuses())
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// BookingOrderSequence is the per-year counter behind order numbers
type BookingOrderSequence struct {
	Year       int   `gorm:"primaryKey;autoIncrement:false"`
	LastNumber int64 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BookingOrderSequence) TableName() string {
	return "booking_order_sequences"
}

const (
	bumpOrderSequenceSQL = `UPDATE booking_order_sequences SET last_number = last_number + 1
WHERE year = ? RETURNING last_number`

	// the first number of a year continues from bookings already stored
	startOrderSequenceSQL = `INSERT INTO booking_order_sequences (year, last_number)
VALUES (?, (SELECT COALESCE(MAX(CAST(SUBSTR(order_number, 9) AS BIGINT)), 0) + 1
	FROM bookings WHERE order_number LIKE ?))
ON CONFLICT (year) DO UPDATE SET last_number = booking_order_sequences.last_number + 1
RETURNING last_number`
)

// GenerateOrderNumber generates the next order number for the year of now.
// Format: BK-YYYY-NNNNN (e.g., BK-2026-00001)
//
// The counter row stays locked until the surrounding transaction ends, so
// concurrent bookings on any tour get distinct numbers and a rolled back
// booking returns its number.
func (r *GormBookingRepository) GenerateOrderNumber(ctx context.Context, now time.Time) (string, error) {
	year := now.Year()
	prefix := fmt.Sprintf("BK-%d-", year)
	db := r.db.WithContext(ctx)

	var next int64
	if err := db.Raw(bumpOrderSequenceSQL, year).Scan(&next).Error; err != nil {
		return "", err
	}
	if next == 0 {
		if err := db.Raw(startOrderSequenceSQL, year, prefix+"%").Scan(&next).Error; err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%s%05d", prefix, next), nil
}

// FindDueForCompletion returns confirmed or paid bookings whose trip has ended
func (r *GormBookingRepository) FindDueForCompletion(ctx context.Context, now time.Time, limit int) ([]booking.Booking, error) {
	var candidates []booking.Booking
	// trip end depends on each row's duration, so the query narrows to trips
	// that started before today and the exact check runs below
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND travel_date < ?",
			[]booking.BookingStatus{booking.StatusConfirmed, booking.StatusPaid}, booking.TruncateDate(now)).
		Order("travel_date ASC").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	due := make([]booking.Booking, 0, len(candidates))
	for _, b := range candidates {
		if limit > 0 && len(due) >= limit {
			break
		}
		if !b.TripEndsAt().After(now) {
			due = append(due, b)
		}
	}
	return due, nil
}

// CountByTour counts bookings referencing a tour
func (r *GormBookingRepository) CountByTour(ctx context.Context, tourID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&booking.Booking{}).
		Where("tour_id = ?", tourID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBookingRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where(
			"LOWER(order_number) LIKE ? "+likeEscape+
				" OR LOWER(contact_name) LIKE ? "+likeEscape+
				" OR LOWER(contact_email) LIKE ? "+likeEscape,
			pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			query = query.Where("status IN ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "tour_id":
			query = query.Where("tour_id = ?", value)
		case "from":
			query = query.Where("travel_date >= ?", value)
		case "to":
			query = query.Where("travel_date <= ?", value)
		}
	}
	return query
}

// Ensure GormBookingRepository implements BookingRepository
var _ booking.BookingRepository = (*GormBookingRepository)(nil)
