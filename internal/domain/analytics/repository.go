package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportRepository reads the aggregates behind the dashboards
type ReportRepository interface {
	// BookingRows returns bookings created in the range, one row per day
	BookingRows(ctx context.Context, r DateRange) ([]Row, error)

	// RevenueRows returns revenue of paid or completed bookings by day of creation
	RevenueRows(ctx context.Context, r DateRange) ([]Row, error)

	// CountCancelled counts bookings cancelled in the range
	CountCancelled(ctx context.Context, r DateRange) (int64, error)

	// CountNewUsers counts users registered in the range
	CountNewUsers(ctx context.Context, r DateRange) (int64, error)

	// CountTours counts tours by status; an empty status counts all
	CountTours(ctx context.Context, status string) (int64, error)

	// StatusBreakdown counts bookings created in the range by status
	StatusBreakdown(ctx context.Context, r DateRange) ([]StatusCount, error)

	// TopTours ranks tours by revenue in the range
	TopTours(ctx context.Context, r DateRange, limit int) ([]TourRevenue, error)

	// UserSpend returns the total spent and the number of past trips of a user
	UserSpend(ctx context.Context, userID uuid.UUID) (decimal.Decimal, int64, error)
}
