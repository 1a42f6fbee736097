//go:build integration

package integration

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/domain/analytics"
	"github.com/tourbook/backend/internal/domain/booking"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/infrastructure/persistence"
	"gorm.io/gorm"
)

// withSessionTimeZone opens a second pool whose sessions use tz
func withSessionTimeZone(t *testing.T, dsn, tz string) *gorm.DB {
	t.Helper()
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, sqlDB := connectToDatabase(t, dsn+sep+"TimeZone="+tz)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestReportRepository_BucketsByUTCDayOnNonUTCSession(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()

	user, err := identity.NewUser("Night Owl", "owl@example.com", "correct-horse-42")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUserRepository(tdb.DB).Save(ctx, user))

	// 22:00 on Sep 30 in New York
	createdAt := time.Date(2026, 10, 1, 2, 0, 0, 0, time.UTC)
	b, err := booking.NewBooking("BK-2026-00001", user.ID, booking.TourSnapshot{
		ID:           uuid.New(),
		Title:        "Douro Harvest Week",
		Slug:         "douro-harvest-week",
		Price:        decimal.RequireFromString("1290.00"),
		DurationDays: 5,
	}, createdAt.AddDate(0, 1, 0), 1, booking.Contact{Name: "Night Owl", Email: "owl@example.com"}, "", createdAt)
	require.NoError(t, err)
	b.CreatedAt = createdAt
	b.UpdatedAt = createdAt
	require.NoError(t, persistence.NewGormBookingRepository(tdb.DB).Save(ctx, b))

	ny := withSessionTimeZone(t, tdb.DSN, "America/New_York")
	rng := analytics.DateRange{
		From: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
	}

	rows, err := persistence.NewGormReportRepository(ny).BookingRows(ctx, rng)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-10-01", rows[0].At.Format("2006-01-02"))
	assert.Equal(t, int64(1), rows[0].Count)
	assert.True(t, decimal.RequireFromString("1290").Equal(rows[0].Amount))
}
