package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/analytics"
	"github.com/tourbook/backend/internal/domain/booking"
	"gorm.io/gorm"
)

// utcDay buckets a timestamp by its UTC calendar day whatever the session timezone
const utcDay = "DATE(created_at AT TIME ZONE 'UTC')"

// revenueStatuses are the statuses whose total counts as earned revenue
var revenueStatuses = []booking.BookingStatus{booking.StatusPaid, booking.StatusCompleted}

// GormReportRepository implements ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

type dailyResult struct {
	Day    time.Time
	Count  int64
	Amount decimal.Decimal
}

func toRows(results []dailyResult) []analytics.Row {
	rows := make([]analytics.Row, len(results))
	for i, r := range results {
		rows[i] = analytics.Row{At: r.Day, Count: r.Count, Amount: r.Amount}
	}
	return rows
}

// BookingRows returns bookings created in the range grouped by day
func (r *GormReportRepository) BookingRows(ctx context.Context, rng analytics.DateRange) ([]analytics.Row, error) {
	var results []dailyResult
	err := r.db.WithContext(ctx).Table("bookings").
		Select(utcDay + ` as day,
			COUNT(*) as count,
			COALESCE(SUM(total_price), 0) as amount`).
		Where("created_at >= ? AND created_at < ?", rng.From, rng.To).
		Group(utcDay).
		Order("day ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return toRows(results), nil
}

// RevenueRows returns revenue of paid or completed bookings grouped by day of creation
func (r *GormReportRepository) RevenueRows(ctx context.Context, rng analytics.DateRange) ([]analytics.Row, error) {
	var results []dailyResult
	err := r.db.WithContext(ctx).Table("bookings").
		Select(utcDay + ` as day,
			COUNT(*) as count,
			COALESCE(SUM(total_price), 0) as amount`).
		Where("created_at >= ? AND created_at < ?", rng.From, rng.To).
		Where("status IN ?", revenueStatuses).
		Group(utcDay).
		Order("day ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return toRows(results), nil
}

// CountCancelled counts bookings cancelled within the range
func (r *GormReportRepository) CountCancelled(ctx context.Context, rng analytics.DateRange) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("bookings").
		Where("status = ?", booking.StatusCancelled).
		Where("cancelled_at >= ? AND cancelled_at < ?", rng.From, rng.To).
		Count(&count).Error
	return count, err
}

// CountNewUsers counts users registered within the range
func (r *GormReportRepository) CountNewUsers(ctx context.Context, rng analytics.DateRange) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("users").
		Where("created_at >= ? AND created_at < ?", rng.From, rng.To).
		Count(&count).Error
	return count, err
}

// CountTours counts tours, optionally restricted to a status
func (r *GormReportRepository) CountTours(ctx context.Context, status string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Table("tours")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

// StatusBreakdown counts bookings created within the range by status
func (r *GormReportRepository) StatusBreakdown(ctx context.Context, rng analytics.DateRange) ([]analytics.StatusCount, error) {
	var results []analytics.StatusCount
	err := r.db.WithContext(ctx).Table("bookings").
		Select("status, COUNT(*) as count").
		Where("created_at >= ? AND created_at < ?", rng.From, rng.To).
		Group("status").
		Order("count DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// TopTours ranks tours by revenue earned within the range
func (r *GormReportRepository) TopTours(ctx context.Context, rng analytics.DateRange, limit int) ([]analytics.TourRevenue, error) {
	var results []analytics.TourRevenue
	err := r.db.WithContext(ctx).Table("bookings b").
		Select(`
			b.tour_id as tour_id,
			MAX(b.tour_title) as title,
			COUNT(*) as bookings,
			COALESCE(SUM(b.people), 0) as people,
			COALESCE(SUM(b.total_price), 0) as revenue
		`).
		Where("b.created_at >= ? AND b.created_at < ?", rng.From, rng.To).
		Where("b.status IN ?", revenueStatuses).
		Group("b.tour_id").
		Order("revenue DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// UserSpend returns the total a user spent and how many trips they completed
func (r *GormReportRepository) UserSpend(ctx context.Context, userID uuid.UUID) (decimal.Decimal, int64, error) {
	var result struct {
		Spent decimal.Decimal
		Trips int64
	}
	err := r.db.WithContext(ctx).Table("bookings").
		Select(`
			COALESCE(SUM(total_price), 0) as spent,
			COUNT(CASE WHEN status = ? THEN 1 END) as trips
		`, booking.StatusCompleted).
		Where("user_id = ? AND status IN ?", userID, revenueStatuses).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return result.Spent, result.Trips, nil
}

// Ensure GormReportRepository implements ReportRepository
var _ analytics.ReportRepository = (*GormReportRepository)(nil)
