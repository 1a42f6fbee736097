package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type tourServiceFixture struct {
	tours        *MockTourRepository
	destinations *MockDestinationRepository
	categories   *MockCategoryRepository
	bookings     *MockBookingCounter
	publisher    *MockEventPublisher
	service      *TourService
}

func newTourServiceFixture() *tourServiceFixture {
	f := &tourServiceFixture{
		tours:        new(MockTourRepository),
		destinations: new(MockDestinationRepository),
		categories:   new(MockCategoryRepository),
		bookings:     new(MockBookingCounter),
		publisher:    new(MockEventPublisher),
	}
	f.service = NewTourService(f.tours, f.destinations, f.categories, f.bookings, zap.NewNop())
	f.service.SetEventPublisher(f.publisher)
	return f
}

func newTestTour(t *testing.T) *catalog.Tour {
	t.Helper()
	tour, err := catalog.NewTour(catalog.TourDetails{
		Title:         "Inca Trail to Machu Picchu",
		Summary:       "Classic four day trek",
		DestinationID: uuid.New(),
		Price:         decimal.NewFromInt(650),
		DurationDays:  4,
		MaxGroupSize:  12,
		CoverImage:    "https://cdn.example.com/inca.jpg",
	})
	require.NoError(t, err)
	return tour
}

func validCreateTourRequest() CreateTourRequest {
	return CreateTourRequest{
		Title:         "Sahara Camel Trek",
		Summary:       "Three nights under the stars",
		DestinationID: uuid.New(),
		Price:         decimal.NewFromInt(420),
		DurationDays:  3,
		MaxGroupSize:  8,
		Difficulty:    "moderate",
	}
}

func TestTourService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates draft tour with derived slug", func(t *testing.T) {
		f := newTourServiceFixture()
		req := validCreateTourRequest()
		f.destinations.On("FindByID", ctx, req.DestinationID).Return(&catalog.Destination{}, nil)
		f.tours.On("ExistsBySlug", ctx, "sahara-camel-trek", uuid.Nil).Return(false, nil)
		f.tours.On("Save", ctx, mock.AnythingOfType("*catalog.Tour")).Return(nil)

		resp, err := f.service.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "sahara-camel-trek", resp.Slug)
		assert.Equal(t, "draft", resp.Status)
		assert.Empty(t, resp.Itinerary)
		f.tours.AssertExpectations(t)
	})

	t.Run("rejects unknown destination", func(t *testing.T) {
		f := newTourServiceFixture()
		req := validCreateTourRequest()
		f.destinations.On("FindByID", ctx, req.DestinationID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, req)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DESTINATION", domainErr.Code)
		f.tours.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		f := newTourServiceFixture()
		req := validCreateTourRequest()
		categoryID := uuid.New()
		req.CategoryID = &categoryID
		f.destinations.On("FindByID", ctx, req.DestinationID).Return(&catalog.Destination{}, nil)
		f.categories.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, req)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		f := newTourServiceFixture()
		req := validCreateTourRequest()
		f.destinations.On("FindByID", ctx, req.DestinationID).Return(&catalog.Destination{}, nil)
		f.tours.On("ExistsBySlug", ctx, "sahara-camel-trek", uuid.Nil).Return(true, nil)

		_, err := f.service.Create(ctx, req)

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestTourService_GetBySlug_HidesUnpublished(t *testing.T) {
	ctx := context.Background()
	f := newTourServiceFixture()
	tour := newTestTour(t)
	f.tours.On("FindBySlug", ctx, tour.Slug).Return(tour, nil)

	_, err := f.service.GetBySlug(ctx, tour.Slug)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, tour.Publish())
	resp, err := f.service.GetBySlug(ctx, tour.Slug)
	require.NoError(t, err)
	assert.Equal(t, tour.ID, resp.ID)
}

func TestTourService_ListPublished_BuildsFilter(t *testing.T) {
	ctx := context.Background()
	f := newTourServiceFixture()
	featured := true
	filter := TourListFilter{
		ListQuery:   ListQuery{Page: 2, PageSize: 10, SortBy: "price", SortDir: "asc"},
		Destination: "peru",
		MinPrice:    "100",
		MaxPrice:    "900.50",
		DurationMin: 2,
		Featured:    &featured,
		Status:      "draft",
	}

	matches := mock.MatchedBy(func(df shared.Filter) bool {
		return df.Page == 2 && df.PageSize == 10 &&
			df.OrderBy == "price" && df.OrderDir == "asc" &&
			df.Filters["status"] == "published" &&
			df.Filters["destination"] == "peru" &&
			df.Filters["min_price"].(decimal.Decimal).Equal(decimal.NewFromInt(100)) &&
			df.Filters["max_price"].(decimal.Decimal).Equal(decimal.RequireFromString("900.50")) &&
			df.Filters["duration_min"] == 2 &&
			df.Filters["featured"] == true
	})
	tour := newTestTour(t)
	f.tours.On("FindAll", ctx, matches).Return([]catalog.Tour{*tour}, nil)
	f.tours.On("Count", ctx, matches).Return(int64(11), nil)

	items, total, err := f.service.ListPublished(ctx, filter)

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(11), total)
	f.tours.AssertExpectations(t)
}

func TestTourService_List_RejectsInvertedDuration(t *testing.T) {
	f := newTourServiceFixture()
	_, _, err := f.service.List(context.Background(), TourListFilter{DurationMin: 5, DurationMax: 2})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestTourService_Publish_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	f := newTourServiceFixture()
	tour := newTestTour(t)
	f.tours.On("FindByID", ctx, tour.ID).Return(tour, nil)
	f.tours.On("Save", ctx, tour).Return(nil)
	f.publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == catalog.EventTypeTourPublished
	})).Return(nil)

	resp, err := f.service.Publish(ctx, tour.ID)

	require.NoError(t, err)
	assert.Equal(t, "published", resp.Status)
	assert.Empty(t, tour.GetDomainEvents())
	f.publisher.AssertExpectations(t)
}

func TestTourService_Itinerary(t *testing.T) {
	ctx := context.Background()

	t.Run("add then conflict", func(t *testing.T) {
		f := newTourServiceFixture()
		tour := newTestTour(t)
		f.tours.On("FindByID", ctx, tour.ID).Return(tour, nil)
		f.tours.On("Save", ctx, tour).Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := f.service.AddItineraryDay(ctx, tour.ID, ItineraryDayRequest{DayNumber: 1, Title: "Cusco"})
		require.NoError(t, err)
		require.Len(t, resp.Itinerary, 1)

		_, err = f.service.AddItineraryDay(ctx, tour.ID, ItineraryDayRequest{DayNumber: 1, Title: "Again"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ITINERARY_DAY_CONFLICT", domainErr.Code)
		f.tours.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("suggest next day", func(t *testing.T) {
		f := newTourServiceFixture()
		tour := newTestTour(t)
		_, err := tour.AddItineraryDay(catalog.ItineraryDayInput{DayNumber: 1, Title: "Arrive"})
		require.NoError(t, err)
		_, err = tour.AddItineraryDay(catalog.ItineraryDayInput{DayNumber: 3, Title: "Summit"})
		require.NoError(t, err)
		f.tours.On("FindByID", ctx, tour.ID).Return(tour, nil)

		next, err := f.service.SuggestNextDay(ctx, tour.ID)

		require.NoError(t, err)
		assert.Equal(t, 2, next.DayNumber)
		assert.False(t, next.Full)
	})

	t.Run("update unknown day", func(t *testing.T) {
		f := newTourServiceFixture()
		tour := newTestTour(t)
		f.tours.On("FindByID", ctx, tour.ID).Return(tour, nil)

		_, err := f.service.UpdateItineraryDay(ctx, tour.ID, uuid.New(), ItineraryDayRequest{DayNumber: 1, Title: "x"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTourService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses booked tour", func(t *testing.T) {
		f := newTourServiceFixture()
		tour := newTestTour(t)
		f.tours.On("FindByID", ctx, tour.ID).Return(tour, nil)
		f.bookings.On("CountByTour", ctx, tour.ID).Return(int64(3), nil)

		err := f.service.Delete(ctx, tour.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOUR_HAS_BOOKINGS", domainErr.Code)
		f.tours.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes and publishes event", func(t *testing.T) {
		f := newTourServiceFixture()
		tour := newTestTour(t)
		f.tours.On("FindByID", ctx, tour.ID).Return(tour, nil)
		f.bookings.On("CountByTour", ctx, tour.ID).Return(int64(0), nil)
		f.tours.On("Delete", ctx, tour.ID).Return(nil)
		f.publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == catalog.EventTypeTourDeleted
		})).Return(nil)

		require.NoError(t, f.service.Delete(ctx, tour.ID))
		f.publisher.AssertExpectations(t)
	})
}
