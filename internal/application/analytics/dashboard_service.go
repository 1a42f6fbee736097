package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/analytics"
	"github.com/tourbook/backend/internal/domain/booking"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// CacheTag groups every cached dashboard entry
	CacheTag = "dashboard"

	topToursLimit    = 5
	recentLimit      = 5
	upcomingLimit    = 20
	defaultCacheTTL  = 5 * time.Minute
	cacheKeyTemplate = "dashboard:admin:%s:%s:%s"
)

// ResultCache stores computed dashboards under tags
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error
}

// DashboardService computes the admin and user dashboards
type DashboardService struct {
	reports     analytics.ReportRepository
	bookingRepo booking.BookingRepository
	cache       ResultCache
	cacheTTL    time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(reports analytics.ReportRepository, bookingRepo booking.BookingRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		reports:     reports,
		bookingRepo: bookingRepo,
		cacheTTL:    defaultCacheTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// SetCache enables caching of the admin overview
func (s *DashboardService) SetCache(cache ResultCache, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// AdminOverview returns headline metrics, the series, the status breakdown and the top tours
func (s *DashboardService) AdminOverview(ctx context.Context, q RangeQuery) (*AdminOverview, error) {
	r, g, err := q.resolve(s.now())
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf(cacheKeyTemplate, r.From.Format("20060102"), r.To.Format("20060102"), g)
	if s.cache != nil {
		var cached AdminOverview
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("Dashboard cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	overview, err := s.computeAdminOverview(ctx, r, g)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, overview, s.cacheTTL, CacheTag); err != nil {
			s.logger.Warn("Dashboard cache write failed", zap.Error(err))
		}
	}
	return overview, nil
}

// Warm computes and caches the default admin overview
func (s *DashboardService) Warm(ctx context.Context) error {
	_, err := s.AdminOverview(ctx, RangeQuery{})
	return err
}

func (s *DashboardService) computeAdminOverview(ctx context.Context, r analytics.DateRange, g analytics.Granularity) (*AdminOverview, error) {
	prev := analytics.PreviousRange(r)

	var (
		bookingRows, prevBookingRows []analytics.Row
		revenueRows, prevRevenueRows []analytics.Row
		cancelled, prevCancelled     int64
		newUsers, prevNewUsers       int64
		tours                        TourCounts
		breakdown                    []analytics.StatusCount
		topTours                     []analytics.TourRevenue
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) { bookingRows, err = s.reports.BookingRows(ctx, r); return })
	eg.Go(func() (err error) { prevBookingRows, err = s.reports.BookingRows(ctx, prev); return })
	eg.Go(func() (err error) { revenueRows, err = s.reports.RevenueRows(ctx, r); return })
	eg.Go(func() (err error) { prevRevenueRows, err = s.reports.RevenueRows(ctx, prev); return })
	eg.Go(func() (err error) { cancelled, err = s.reports.CountCancelled(ctx, r); return })
	eg.Go(func() (err error) { prevCancelled, err = s.reports.CountCancelled(ctx, prev); return })
	eg.Go(func() (err error) { newUsers, err = s.reports.CountNewUsers(ctx, r); return })
	eg.Go(func() (err error) { prevNewUsers, err = s.reports.CountNewUsers(ctx, prev); return })
	eg.Go(func() (err error) { tours.Total, err = s.reports.CountTours(ctx, ""); return })
	eg.Go(func() (err error) { tours.Published, err = s.reports.CountTours(ctx, "published"); return })
	eg.Go(func() (err error) { breakdown, err = s.reports.StatusBreakdown(ctx, r); return })
	eg.Go(func() (err error) { topTours, err = s.reports.TopTours(ctx, r, topToursLimit); return })
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("compute dashboard: %w", err)
	}

	series := mergeSeries(r, g, bookingRows, revenueRows)
	bookingCount, revenue := series.Totals()
	prevBookingCount, _ := analytics.FillSeries(analytics.Buckets(prev, g), g, prevBookingRows).Totals()
	_, prevRevenue := analytics.FillSeries(analytics.Buckets(prev, g), g, prevRevenueRows).Totals()

	if breakdown == nil {
		breakdown = []analytics.StatusCount{}
	}
	if topTours == nil {
		topTours = []analytics.TourRevenue{}
	}

	return &AdminOverview{
		Range:           r,
		Granularity:     g,
		Bookings:        analytics.NewMetric(decimal.NewFromInt(bookingCount), decimal.NewFromInt(prevBookingCount)),
		Revenue:         analytics.NewMetric(revenue, prevRevenue),
		Cancellations:   analytics.NewMetric(decimal.NewFromInt(cancelled), decimal.NewFromInt(prevCancelled)),
		NewUsers:        analytics.NewMetric(decimal.NewFromInt(newUsers), decimal.NewFromInt(prevNewUsers)),
		Tours:           tours,
		Series:          series,
		StatusBreakdown: breakdown,
		TopTours:        topTours,
		GeneratedAt:     s.now().UTC(),
	}, nil
}

// RevenueSeries returns only the bookings-and-revenue series
func (s *DashboardService) RevenueSeries(ctx context.Context, q RangeQuery) (*RevenueSeries, error) {
	r, g, err := q.resolve(s.now())
	if err != nil {
		return nil, err
	}

	var bookingRows, revenueRows []analytics.Row
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) { bookingRows, err = s.reports.BookingRows(gctx, r); return })
	eg.Go(func() (err error) { revenueRows, err = s.reports.RevenueRows(gctx, r); return })
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("compute revenue series: %w", err)
	}

	return &RevenueSeries{Range: r, Granularity: g, Series: mergeSeries(r, g, bookingRows, revenueRows)}, nil
}

// UserOverview returns the dashboard of one user
func (s *DashboardService) UserOverview(ctx context.Context, userID uuid.UUID) (*UserOverview, error) {
	today := booking.TruncateDate(s.now())

	upcomingFilter := shared.DefaultFilter()
	upcomingFilter.PageSize = upcomingLimit
	upcomingFilter.OrderBy = "travel_date"
	upcomingFilter.OrderDir = "asc"
	upcomingFilter.Filters["user_id"] = userID
	upcomingFilter.Filters["statuses"] = booking.ActiveStatuses()
	upcomingFilter.Filters["from"] = today

	recentFilter := shared.DefaultFilter()
	recentFilter.PageSize = recentLimit
	recentFilter.Filters["user_id"] = userID

	var (
		upcoming, recent []booking.Booking
		spent            decimal.Decimal
		pastTrips        int64
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) { upcoming, err = s.bookingRepo.FindAll(gctx, upcomingFilter); return })
	eg.Go(func() (err error) { recent, err = s.bookingRepo.FindAll(gctx, recentFilter); return })
	eg.Go(func() (err error) { spent, pastTrips, err = s.reports.UserSpend(gctx, userID); return })
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("compute user dashboard: %w", err)
	}

	return &UserOverview{
		Upcoming:       summaries(upcoming),
		TotalSpent:     spent,
		PastTrips:      pastTrips,
		RecentBookings: summaries(recent),
	}, nil
}

// mergeSeries buckets booking counts and revenue amounts into one series
func mergeSeries(r analytics.DateRange, g analytics.Granularity, bookingRows, revenueRows []analytics.Row) analytics.Series {
	buckets := analytics.Buckets(r, g)
	counts := analytics.FillSeries(buckets, g, bookingRows)
	amounts := analytics.FillSeries(buckets, g, revenueRows)
	for i := range counts {
		counts[i].Amount = amounts[i].Amount
	}
	return counts
}

func summaries(bookings []booking.Booking) []UserBookingSummary {
	out := make([]UserBookingSummary, len(bookings))
	for i, b := range bookings {
		out[i] = UserBookingSummary{
			ID:          b.ID.String(),
			OrderNumber: b.OrderNumber,
			TourTitle:   b.TourTitle,
			TourSlug:    b.TourSlug,
			TravelDate:  b.TravelDate.Format("2006-01-02"),
			People:      b.People,
			TotalPrice:  b.TotalPrice,
			Status:      string(b.Status),
		}
	}
	return out
}
