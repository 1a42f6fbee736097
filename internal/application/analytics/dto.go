package analytics

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/analytics"
	"github.com/tourbook/backend/internal/domain/shared"
)

// RangeQuery selects the reporting window of a dashboard
type RangeQuery struct {
	Range       string `form:"range" binding:"omitempty,oneof=7d 30d 90d 12m ytd custom"`
	From        string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To          string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Granularity string `form:"granularity" binding:"omitempty,oneof=day week month"`
}

func (q RangeQuery) resolve(now time.Time) (analytics.DateRange, analytics.Granularity, error) {
	var from, to time.Time
	var err error
	if q.From != "" {
		if from, err = time.ParseInLocation("2006-01-02", q.From, time.UTC); err != nil {
			return analytics.DateRange{}, "", shared.NewDomainError("INVALID_DATE_RANGE", "from must use the YYYY-MM-DD format")
		}
	}
	if q.To != "" {
		if to, err = time.ParseInLocation("2006-01-02", q.To, time.UTC); err != nil {
			return analytics.DateRange{}, "", shared.NewDomainError("INVALID_DATE_RANGE", "to must use the YYYY-MM-DD format")
		}
	}
	r, err := analytics.ResolveRange(analytics.RangePreset(q.Range), from, to, now)
	if err != nil {
		return analytics.DateRange{}, "", err
	}
	g := analytics.Granularity(q.Granularity)
	if g == "" {
		g = analytics.DefaultGranularity(r)
	}
	if !g.IsValid() {
		return analytics.DateRange{}, "", shared.NewDomainError("INVALID_GRANULARITY", "Granularity must be day, week or month")
	}
	return r, g, nil
}

// TourCounts is the catalog size shown on the admin dashboard
type TourCounts struct {
	Total     int64 `json:"total" msgpack:"total"`
	Published int64 `json:"published" msgpack:"published"`
}

// AdminOverview is the admin dashboard payload
type AdminOverview struct {
	Range           analytics.DateRange     `json:"range" msgpack:"range"`
	Granularity     analytics.Granularity   `json:"granularity" msgpack:"granularity"`
	Bookings        analytics.Metric        `json:"bookings" msgpack:"bookings"`
	Revenue         analytics.Metric        `json:"revenue" msgpack:"revenue"`
	Cancellations   analytics.Metric        `json:"cancellations" msgpack:"cancellations"`
	NewUsers        analytics.Metric        `json:"new_users" msgpack:"new_users"`
	Tours           TourCounts              `json:"tours" msgpack:"tours"`
	Series          analytics.Series        `json:"series" msgpack:"series"`
	StatusBreakdown []analytics.StatusCount `json:"status_breakdown" msgpack:"status_breakdown"`
	TopTours        []analytics.TourRevenue `json:"top_tours" msgpack:"top_tours"`
	GeneratedAt     time.Time               `json:"generated_at" msgpack:"generated_at"`
}

// RevenueSeries is the chart-only payload
type RevenueSeries struct {
	Range       analytics.DateRange   `json:"range"`
	Granularity analytics.Granularity `json:"granularity"`
	Series      analytics.Series      `json:"series"`
}

// UserBookingSummary is a compact booking row on the user dashboard
type UserBookingSummary struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	TourTitle   string          `json:"tour_title"`
	TourSlug    string          `json:"tour_slug"`
	TravelDate  string          `json:"travel_date"`
	People      int             `json:"people"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      string          `json:"status"`
}

// UserOverview is the signed-in user's dashboard payload
type UserOverview struct {
	Upcoming       []UserBookingSummary `json:"upcoming"`
	TotalSpent     decimal.Decimal      `json:"total_spent"`
	PastTrips      int64                `json:"past_trips"`
	RecentBookings []UserBookingSummary `json:"recent_bookings"`
}
