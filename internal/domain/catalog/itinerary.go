package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/shared"
)

// ItineraryDay is one day of a tour's plan
type ItineraryDay struct {
	shared.BaseEntity
	TourID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_itinerary_tour_day,priority:1"`
	DayNumber     int       `gorm:"not null;uniqueIndex:idx_itinerary_tour_day,priority:2"`
	Title         string    `gorm:"type:varchar(200);not null"`
	Description   string    `gorm:"type:text"`
	Meals         string    `gorm:"type:varchar(100)"`
	Accommodation string    `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ItineraryDay) TableName() string {
	return "itinerary_days"
}

// ItineraryDayInput carries the editable fields of an itinerary day
type ItineraryDayInput struct {
	DayNumber     int
	Title         string
	Description   string
	Meals         string
	Accommodation string
}

func (in ItineraryDayInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Itinerary day title cannot be empty")
	}
	return nil
}

func newItineraryDay(tourID uuid.UUID, in ItineraryDayInput) *ItineraryDay {
	d := &ItineraryDay{
		BaseEntity: shared.NewBaseEntity(),
		TourID:     tourID,
	}
	d.apply(in)
	return d
}

func (d *ItineraryDay) apply(in ItineraryDayInput) {
	d.DayNumber = in.DayNumber
	d.Title = strings.TrimSpace(in.Title)
	d.Description = in.Description
	d.Meals = in.Meals
	d.Accommodation = in.Accommodation
	d.UpdatedAt = time.Now()
}
