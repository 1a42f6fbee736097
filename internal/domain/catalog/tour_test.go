package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/domain/shared"
)

func validDetails() TourDetails {
	return TourDetails{
		Title:         "Inca Trail to Machu Picchu",
		Summary:       "Classic four day trek",
		DestinationID: uuid.New(),
		Price:         decimal.NewFromInt(650),
		DurationDays:  4,
		MaxGroupSize:  12,
		CoverImage:    "https://cdn.example.com/inca.jpg",
	}
}

func domainCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestNewTour(t *testing.T) {
	t.Run("creates draft tour with derived slug", func(t *testing.T) {
		tour, err := NewTour(validDetails())
		require.NoError(t, err)

		assert.Equal(t, "inca-trail-to-machu-picchu", tour.Slug)
		assert.Equal(t, TourStatusDraft, tour.Status)
		assert.Equal(t, DifficultyModerate, tour.Difficulty)
		assert.NotNil(t, tour.Gallery)
		assert.Equal(t, 1, tour.GetVersion())
		assert.False(t, tour.IsBookable())
	})

	t.Run("title limit counts characters", func(t *testing.T) {
		d := validDetails()
		d.Title = strings.Repeat("é", 200)
		d.Slug = "vale-do-douro"
		_, err := NewTour(d)
		assert.NoError(t, err)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*TourDetails)
			code   string
		}{
			{"empty title", func(d *TourDetails) { d.Title = "  " }, "INVALID_TITLE"},
			{"title too long", func(d *TourDetails) { d.Title = strings.Repeat("é", 201) }, "INVALID_TITLE"},
			{"bad slug", func(d *TourDetails) { d.Slug = "Bad Slug" }, "INVALID_SLUG"},
			{"no destination", func(d *TourDetails) { d.DestinationID = uuid.Nil }, "INVALID_DESTINATION"},
			{"zero price", func(d *TourDetails) { d.Price = decimal.Zero }, "INVALID_PRICE"},
			{"zero duration", func(d *TourDetails) { d.DurationDays = 0 }, "INVALID_DURATION"},
			{"zero group", func(d *TourDetails) { d.MaxGroupSize = 0 }, "INVALID_GROUP_SIZE"},
			{"bad difficulty", func(d *TourDetails) { d.Difficulty = "extreme" }, "INVALID_DIFFICULTY"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d := validDetails()
				tt.mutate(&d)
				_, err := NewTour(d)
				require.Error(t, err)
				assert.Equal(t, tt.code, domainCode(err))
			})
		}
	})
}

func TestTour_StatusTransitions(t *testing.T) {
	tour, err := NewTour(validDetails())
	require.NoError(t, err)

	require.NoError(t, tour.Publish())
	assert.Equal(t, TourStatusPublished, tour.Status)
	assert.NotNil(t, tour.PublishedAt)
	assert.True(t, tour.IsBookable())

	err = tour.Publish()
	assert.Equal(t, "INVALID_STATE", domainCode(err))

	require.NoError(t, tour.SetFeatured(true))
	require.NoError(t, tour.Archive())
	assert.False(t, tour.Featured)
	assert.False(t, tour.IsBookable())

	err = tour.Publish()
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	require.NoError(t, tour.transitionTo(TourStatusDraft))
}

func TestTour_PublishRequiresContent(t *testing.T) {
	d := validDetails()
	d.CoverImage = ""
	tour, err := NewTour(d)
	require.NoError(t, err)

	err = tour.Publish()
	assert.Equal(t, "TOUR_INCOMPLETE", domainCode(err))
	assert.Equal(t, TourStatusDraft, tour.Status)
}

func TestTour_SetFeaturedRequiresPublished(t *testing.T) {
	tour, err := NewTour(validDetails())
	require.NoError(t, err)
	assert.Error(t, tour.SetFeatured(true))
	assert.NoError(t, tour.SetFeatured(false))
}

func TestTour_TotalFor(t *testing.T) {
	tour, err := NewTour(validDetails())
	require.NoError(t, err)

	total, err := tour.TotalFor(3)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1950).Equal(total))

	_, err = tour.TotalFor(0)
	assert.Equal(t, "INVALID_PEOPLE", domainCode(err))

	_, err = tour.TotalFor(13)
	assert.Equal(t, "INVALID_PEOPLE", domainCode(err))
}

func TestTour_Itinerary(t *testing.T) {
	tour, err := NewTour(validDetails())
	require.NoError(t, err)
	tour.ClearDomainEvents()

	day2, err := tour.AddItineraryDay(ItineraryDayInput{DayNumber: 2, Title: "Dead Woman's Pass"})
	require.NoError(t, err)
	assert.Equal(t, tour.ID, day2.TourID)
	assert.Equal(t, 1, tour.NextDayNumber())

	_, err = tour.AddItineraryDay(ItineraryDayInput{DayNumber: 1, Title: "Km 82 to Wayllabamba"})
	require.NoError(t, err)
	assert.Equal(t, 3, tour.NextDayNumber())

	t.Run("duplicate day number conflicts", func(t *testing.T) {
		_, err := tour.AddItineraryDay(ItineraryDayInput{DayNumber: 2, Title: "Again"})
		assert.Equal(t, "ITINERARY_DAY_CONFLICT", domainCode(err))
	})

	t.Run("day outside duration", func(t *testing.T) {
		_, err := tour.AddItineraryDay(ItineraryDayInput{DayNumber: 5, Title: "Extra"})
		assert.Equal(t, "ITINERARY_DAY_OUT_OF_RANGE", domainCode(err))
		_, err = tour.AddItineraryDay(ItineraryDayInput{DayNumber: 0, Title: "Zero"})
		assert.Equal(t, "ITINERARY_DAY_OUT_OF_RANGE", domainCode(err))
	})

	t.Run("update keeps own number", func(t *testing.T) {
		updated, err := tour.UpdateItineraryDay(day2.ID, ItineraryDayInput{DayNumber: 2, Title: "Warmiwañusca"})
		require.NoError(t, err)
		assert.Equal(t, "Warmiwañusca", updated.Title)
	})

	t.Run("update into taken number conflicts", func(t *testing.T) {
		_, err := tour.UpdateItineraryDay(day2.ID, ItineraryDayInput{DayNumber: 1, Title: "Clash"})
		assert.Equal(t, "ITINERARY_DAY_CONFLICT", domainCode(err))
	})

	t.Run("sorted itinerary", func(t *testing.T) {
		days := tour.SortedItinerary()
		require.Len(t, days, 2)
		assert.Equal(t, 1, days[0].DayNumber)
		assert.Equal(t, 2, days[1].DayNumber)
	})

	t.Run("duration cannot shrink below plan", func(t *testing.T) {
		d := validDetails()
		d.DestinationID = tour.DestinationID
		d.DurationDays = 1
		err := tour.UpdateDetails(d)
		assert.Equal(t, "ITINERARY_DAY_OUT_OF_RANGE", domainCode(err))
	})

	t.Run("remove frees number", func(t *testing.T) {
		require.NoError(t, tour.RemoveItineraryDay(day2.ID))
		assert.Equal(t, 2, tour.NextDayNumber())
		assert.Error(t, tour.RemoveItineraryDay(day2.ID))
	})

	assert.NotEmpty(t, tour.GetDomainEvents())
}

func TestTour_NextDayNumberFull(t *testing.T) {
	d := validDetails()
	d.DurationDays = 1
	tour, err := NewTour(d)
	require.NoError(t, err)
	_, err = tour.AddItineraryDay(ItineraryDayInput{DayNumber: 1, Title: "Only day"})
	require.NoError(t, err)
	assert.Equal(t, 0, tour.NextDayNumber())
}

func TestAttraction(t *testing.T) {
	a, err := NewAttraction(AttractionDetails{
		Name:          "Sacsayhuamán",
		DestinationID: uuid.New(),
		EntryFee:      decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Equal(t, "sacsayhuaman", a.Slug)
	assert.Equal(t, AttractionStatusActive, a.Status)

	assert.Error(t, a.Activate())
	require.NoError(t, a.Deactivate())
	assert.Equal(t, AttractionStatusInactive, a.Status)

	err = a.Update(AttractionDetails{Name: "X", DestinationID: a.DestinationID, EntryFee: decimal.NewFromInt(-1)})
	assert.Equal(t, "INVALID_PRICE", domainCode(err))
}

func TestDestinationAndCategory(t *testing.T) {
	d, err := NewDestination("Cusco", "", "Peru", "", "")
	require.NoError(t, err)
	assert.Equal(t, "cusco", d.Slug)

	_, err = NewDestination("", "", "", "", "")
	assert.Equal(t, "INVALID_NAME", domainCode(err))

	_, err = NewDestination(strings.Repeat("ã", 100), "sao-joao", "Portugal", "", "")
	assert.NoError(t, err)
	_, err = NewDestination(strings.Repeat("ã", 101), "sao-joao", "Portugal", "", "")
	assert.Equal(t, "INVALID_NAME", domainCode(err))

	c, err := NewCategory("Adventure & Trekking", "", "")
	require.NoError(t, err)
	assert.Equal(t, "adventure-trekking", c.Slug)

	err = c.Update("Adventure", "Not A Slug", "")
	assert.Equal(t, "INVALID_SLUG", domainCode(err))
}
