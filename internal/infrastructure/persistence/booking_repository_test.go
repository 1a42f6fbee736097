package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/domain/booking"
	"github.com/tourbook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var bookingNow = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func newTestBooking(t *testing.T, orderNumber string, tourID uuid.UUID, travel time.Time, people int) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(orderNumber, uuid.New(), booking.TourSnapshot{
		ID:           tourID,
		Title:        "Lisbon Food Walk",
		Slug:         "lisbon-food-walk",
		Price:        decimal.RequireFromString("649.50"),
		DurationDays: 2,
	}, travel, people, booking.Contact{Name: "Ana Silva", Email: "ana@example.com"}, "", bookingNow)
	require.NoError(t, err)
	return b
}

func TestGormBookingRepository_SaveAndFind(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	ctx := context.Background()

	b := newTestBooking(t, "BK-2026-00001", uuid.New(), time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, repo.Save(ctx, b))

	byID, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "BK-2026-00001", byID.OrderNumber)
	assert.Equal(t, "Ana Silva", byID.Contact.Name)
	assert.True(t, decimal.RequireFromString("1948.50").Equal(byID.TotalPrice))

	byNumber, err := repo.FindByOrderNumber(ctx, "BK-2026-00001")
	require.NoError(t, err)
	assert.Equal(t, b.ID, byNumber.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindByOrderNumber(ctx, "BK-2026-99999")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormBookingRepository_GenerateOrderNumber(t *testing.T) {
	t.Run("continues from stored bookings", func(t *testing.T) {
		repo := NewGormBookingRepository(setupTestDB(t))
		ctx := context.Background()

		travel := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Save(ctx, newTestBooking(t, "BK-2026-00041", uuid.New(), travel, 1)))
		require.NoError(t, repo.Save(ctx, newTestBooking(t, "BK-2025-00100", uuid.New(), travel, 1)))

		next, err := repo.GenerateOrderNumber(ctx, bookingNow)
		require.NoError(t, err)
		assert.Equal(t, "BK-2026-00042", next)

		nextYear, err := repo.GenerateOrderNumber(ctx, bookingNow.AddDate(1, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, "BK-2027-00001", nextYear)
	})

	t.Run("numbers are not reused before the first booking is saved", func(t *testing.T) {
		repo := NewGormBookingRepository(setupTestDB(t))
		ctx := context.Background()

		first, err := repo.GenerateOrderNumber(ctx, bookingNow)
		require.NoError(t, err)
		second, err := repo.GenerateOrderNumber(ctx, bookingNow)
		require.NoError(t, err)

		assert.Equal(t, "BK-2026-00001", first)
		assert.Equal(t, "BK-2026-00002", second)
	})

	t.Run("six digit numbers keep counting", func(t *testing.T) {
		repo := NewGormBookingRepository(setupTestDB(t))
		ctx := context.Background()

		travel := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Save(ctx, newTestBooking(t, "BK-2026-99999", uuid.New(), travel, 1)))
		require.NoError(t, repo.Save(ctx, newTestBooking(t, "BK-2026-100000", uuid.New(), travel, 1)))

		next, err := repo.GenerateOrderNumber(ctx, bookingNow)
		require.NoError(t, err)
		assert.Equal(t, "BK-2026-100001", next)

		next, err = repo.GenerateOrderNumber(ctx, bookingNow)
		require.NoError(t, err)
		assert.Equal(t, "BK-2026-100002", next)
	})

	t.Run("rolled back transaction returns its number", func(t *testing.T) {
		db := setupTestDB(t)
		ctx := context.Background()

		first, err := NewGormBookingRepository(db).GenerateOrderNumber(ctx, bookingNow)
		require.NoError(t, err)
		require.Equal(t, "BK-2026-00001", first)

		errAbort := errors.New("abort")
		err = db.Transaction(func(tx *gorm.DB) error {
			n, err := NewGormBookingRepository(tx).GenerateOrderNumber(ctx, bookingNow)
			require.NoError(t, err)
			assert.Equal(t, "BK-2026-00002", n)
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		again, err := NewGormBookingRepository(db).GenerateOrderNumber(ctx, bookingNow)
		require.NoError(t, err)
		assert.Equal(t, "BK-2026-00002", again)
	})
}

func TestGormBookingRepository_SumActivePeople(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	ctx := context.Background()
	tourID := uuid.New()
	travel := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)

	kept := newTestBooking(t, "BK-2026-00001", tourID, travel, 3)
	other := newTestBooking(t, "BK-2026-00002", tourID, travel, 2)
	cancelled := newTestBooking(t, "BK-2026-00003", tourID, travel, 5)
	require.NoError(t, cancelled.Cancel("changed plans"))
	otherDay := newTestBooking(t, "BK-2026-00004", tourID, travel.AddDate(0, 0, 1), 4)
	for _, b := range []*booking.Booking{kept, other, cancelled, otherDay} {
		require.NoError(t, repo.Save(ctx, b))
	}

	total, err := repo.SumActivePeople(ctx, tourID, travel, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	excluding, err := repo.SumActivePeople(ctx, tourID, travel, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, excluding)

	none, err := repo.SumActivePeople(ctx, uuid.New(), travel, uuid.Nil)
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestGormBookingRepository_SaveWithLock(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	ctx := context.Background()

	b := newTestBooking(t, "BK-2026-00001", uuid.New(), time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, repo.Save(ctx, b))
	loaded := b.Version

	require.NoError(t, b.Confirm())
	require.NoError(t, repo.SaveWithLock(ctx, b, loaded))

	stored, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, stored.Status)
	assert.Equal(t, loaded+1, stored.Version)

	// a writer still holding the old version loses
	stale := *stored
	stale.Version = loaded
	err = repo.SaveWithLock(ctx, &stale, loaded)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
}

func TestGormBookingRepository_FindDueForCompletion(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	ctx := context.Background()

	// two-day trips: one ended, one still running, one in the future
	ended := newTestBooking(t, "BK-2026-00001", uuid.New(), time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC), 1)
	running := newTestBooking(t, "BK-2026-00002", uuid.New(), time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC), 1)
	future := newTestBooking(t, "BK-2026-00003", uuid.New(), time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC), 1)
	pending := newTestBooking(t, "BK-2026-00004", uuid.New(), time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC), 1)
	for _, b := range []*booking.Booking{ended, running, future} {
		require.NoError(t, b.Confirm())
	}
	for _, b := range []*booking.Booking{ended, running, future, pending} {
		require.NoError(t, repo.Save(ctx, b))
	}

	now := time.Date(2026, 10, 10, 12, 0, 0, 0, time.UTC)
	due, err := repo.FindDueForCompletion(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, ended.ID, due[0].ID)
}

func TestGormBookingRepository_FindAllAndCount(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	ctx := context.Background()
	tourID := uuid.New()
	travel := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)

	a := newTestBooking(t, "BK-2026-00001", tourID, travel, 1)
	b := newTestBooking(t, "BK-2026-00002", tourID, travel, 2)
	require.NoError(t, b.Confirm())
	c := newTestBooking(t, "BK-2026-00003", uuid.New(), travel, 3)
	c.Contact.Email = "zoe@example.com"
	for _, bk := range []*booking.Booking{a, b, c} {
		require.NoError(t, repo.Save(ctx, bk))
	}

	confirmed, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{"status": booking.StatusConfirmed}})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, b.ID, confirmed[0].ID)

	byTour, err := repo.Count(ctx, shared.Filter{Filters: map[string]interface{}{"tour_id": tourID}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byTour)

	searched, err := repo.FindAll(ctx, shared.Filter{Search: "ZOE@"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, c.ID, searched[0].ID)

	paged, err := repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	count, err := repo.CountByTour(ctx, tourID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormBookingRepository_Delete(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	ctx := context.Background()

	b := newTestBooking(t, "BK-2026-00001", uuid.New(), time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC), 1)
	require.NoError(t, repo.Save(ctx, b))

	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), shared.ErrNotFound)
}
