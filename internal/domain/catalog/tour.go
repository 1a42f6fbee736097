package catalog

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/shared"
)

// TourStatus represents the publication status of a tour
type TourStatus string

const (
	TourStatusDraft     TourStatus = "draft"
	TourStatusPublished TourStatus = "published"
	TourStatusArchived  TourStatus = "archived"
)

// IsValid checks if the status is a known value
func (s TourStatus) IsValid() bool {
	switch s {
	case TourStatusDraft, TourStatusPublished, TourStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s TourStatus) CanTransitionTo(target TourStatus) bool {
	switch s {
	case TourStatusDraft:
		return target == TourStatusPublished || target == TourStatusArchived
	case TourStatusPublished:
		return target == TourStatusDraft || target == TourStatusArchived
	case TourStatusArchived:
		return target == TourStatusDraft
	}
	return false
}

// Difficulty describes how demanding a tour is
type Difficulty string

const (
	DifficultyEasy        Difficulty = "easy"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyChallenging Difficulty = "challenging"
)

// IsValid checks if the difficulty is a known value
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging:
		return true
	}
	return false
}

const (
	maxTourTitleLength = 200
	maxGallerySize     = 20
)

// Tour is the aggregate root for a bookable tour and its itinerary
type Tour struct {
	shared.BaseAggregateRoot
	Title         string          `gorm:"type:varchar(200);not null"`
	Slug          string          `gorm:"type:varchar(220);not null;uniqueIndex"`
	Summary       string          `gorm:"type:varchar(500)"`
	Description   string          `gorm:"type:text"`
	DestinationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DurationDays  int             `gorm:"not null"`
	MaxGroupSize  int             `gorm:"not null"`
	Difficulty    Difficulty      `gorm:"type:varchar(20);not null;default:'moderate'"`
	CoverImage    string          `gorm:"type:varchar(500)"`
	Gallery       []string        `gorm:"serializer:json;type:text"`
	Featured      bool            `gorm:"not null;default:false;index"`
	Status        TourStatus      `gorm:"type:varchar(20);not null;default:'draft';index"`
	PublishedAt   *time.Time
	RatingAvg     decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0"`
	Itinerary     []ItineraryDay  `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Tour) TableName() string {
	return "tours"
}

// TourDetails carries the editable fields of a tour
type TourDetails struct {
	Title         string
	Slug          string
	Summary       string
	Description   string
	DestinationID uuid.UUID
	CategoryID    *uuid.UUID
	Price         decimal.Decimal
	DurationDays  int
	MaxGroupSize  int
	Difficulty    Difficulty
	CoverImage    string
	Gallery       []string
}

// NewTour creates a new draft tour
func NewTour(d TourDetails) (*Tour, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	tour := &Tour{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            TourStatusDraft,
		RatingAvg:         decimal.Zero,
		Itinerary:         make([]ItineraryDay, 0),
	}
	tour.apply(d)

	return tour, nil
}

// UpdateDetails replaces the editable fields of the tour.
// The duration cannot shrink below the highest planned itinerary day.
func (t *Tour) UpdateDetails(d TourDetails) error {
	if err := d.validate(); err != nil {
		return err
	}
	if maxDay := t.maxDayNumber(); maxDay > d.DurationDays {
		return shared.NewDomainError("ITINERARY_DAY_OUT_OF_RANGE",
			"Duration cannot be shorter than the planned itinerary")
	}

	t.apply(d)
	t.MarkModified()

	t.AddDomainEvent(NewTourUpdatedEvent(t))

	return nil
}

func (t *Tour) apply(d TourDetails) {
	t.Title = strings.TrimSpace(d.Title)
	t.Slug = d.Slug
	if t.Slug == "" {
		t.Slug = shared.Slugify(t.Title)
	}
	t.Summary = strings.TrimSpace(d.Summary)
	t.Description = d.Description
	t.DestinationID = d.DestinationID
	t.CategoryID = d.CategoryID
	t.Price = d.Price
	t.DurationDays = d.DurationDays
	t.MaxGroupSize = d.MaxGroupSize
	t.Difficulty = d.Difficulty
	if t.Difficulty == "" {
		t.Difficulty = DifficultyModerate
	}
	t.CoverImage = d.CoverImage
	t.Gallery = d.Gallery
	if t.Gallery == nil {
		t.Gallery = []string{}
	}
}

func (d TourDetails) validate() error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Tour title cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxTourTitleLength {
		return shared.NewDomainError("INVALID_TITLE", "Tour title cannot exceed 200 characters")
	}
	if d.Slug != "" && !shared.IsValidSlug(d.Slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug may only contain lowercase letters, digits and dashes")
	}
	if d.Slug == "" && shared.Slugify(title) == "" {
		return shared.NewDomainError("INVALID_SLUG", "A slug cannot be derived from the title")
	}
	if d.DestinationID == uuid.Nil {
		return shared.NewDomainError("INVALID_DESTINATION", "Destination is required")
	}
	if !d.Price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	if d.DurationDays < 1 {
		return shared.NewDomainError("INVALID_DURATION", "Duration must be at least one day")
	}
	if d.MaxGroupSize < 1 {
		return shared.NewDomainError("INVALID_GROUP_SIZE", "Maximum group size must be at least one")
	}
	if d.Difficulty != "" && !d.Difficulty.IsValid() {
		return shared.NewDomainError("INVALID_DIFFICULTY", "Difficulty must be easy, moderate or challenging")
	}
	if len(d.Gallery) > maxGallerySize {
		return shared.NewDomainError("INVALID_GALLERY", "A tour can have at most 20 gallery images")
	}
	return nil
}

// Publish makes the tour visible and bookable
func (t *Tour) Publish() error {
	if t.Summary == "" {
		return shared.NewDomainError("TOUR_INCOMPLETE", "A summary is required before publishing")
	}
	if t.CoverImage == "" {
		return shared.NewDomainError("TOUR_INCOMPLETE", "A cover image is required before publishing")
	}
	if err := t.transitionTo(TourStatusPublished); err != nil {
		return err
	}

	now := time.Now()
	t.PublishedAt = &now
	t.AddDomainEvent(NewTourPublishedEvent(t))

	return nil
}

// Unpublish moves a published tour back to draft
func (t *Tour) Unpublish() error {
	if t.Status != TourStatusPublished {
		return shared.NewDomainError("INVALID_STATE", "Only published tours can be unpublished")
	}
	if err := t.transitionTo(TourStatusDraft); err != nil {
		return err
	}
	t.AddDomainEvent(NewTourUpdatedEvent(t))
	return nil
}

// Archive retires the tour
func (t *Tour) Archive() error {
	if err := t.transitionTo(TourStatusArchived); err != nil {
		return err
	}
	t.Featured = false
	t.AddDomainEvent(NewTourUpdatedEvent(t))
	return nil
}

// SetFeatured toggles the tour on the home page
func (t *Tour) SetFeatured(featured bool) error {
	if featured && t.Status != TourStatusPublished {
		return shared.NewDomainError("INVALID_STATE", "Only published tours can be featured")
	}
	t.Featured = featured
	t.MarkModified()
	t.AddDomainEvent(NewTourUpdatedEvent(t))
	return nil
}

func (t *Tour) transitionTo(target TourStatus) error {
	if !t.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot change tour status from "+string(t.Status)+" to "+string(target))
	}
	t.Status = target
	t.MarkModified()
	return nil
}

// IsBookable reports whether customers can book the tour
func (t *Tour) IsBookable() bool {
	return t.Status == TourStatusPublished
}

// TotalFor returns the price for a party of the given size
func (t *Tour) TotalFor(people int) (decimal.Decimal, error) {
	if people < 1 {
		return decimal.Zero, shared.NewDomainError("INVALID_PEOPLE", "At least one person is required")
	}
	if people > t.MaxGroupSize {
		return decimal.Zero, shared.NewDomainError("INVALID_PEOPLE", "Party size exceeds the maximum group size")
	}
	return t.Price.Mul(decimal.NewFromInt(int64(people))), nil
}

// AddItineraryDay appends a day to the itinerary
func (t *Tour) AddItineraryDay(day ItineraryDayInput) (*ItineraryDay, error) {
	if err := t.checkDayNumber(day.DayNumber, uuid.Nil); err != nil {
		return nil, err
	}
	if err := day.validate(); err != nil {
		return nil, err
	}

	entry := newItineraryDay(t.ID, day)
	t.Itinerary = append(t.Itinerary, *entry)
	t.MarkModified()
	t.AddDomainEvent(NewTourUpdatedEvent(t))

	return entry, nil
}

// UpdateItineraryDay changes an existing itinerary day
func (t *Tour) UpdateItineraryDay(id uuid.UUID, day ItineraryDayInput) (*ItineraryDay, error) {
	idx := t.findDay(id)
	if idx < 0 {
		return nil, shared.NewDomainError("NOT_FOUND", "Itinerary day not found")
	}
	if err := t.checkDayNumber(day.DayNumber, id); err != nil {
		return nil, err
	}
	if err := day.validate(); err != nil {
		return nil, err
	}

	t.Itinerary[idx].apply(day)
	t.MarkModified()
	t.AddDomainEvent(NewTourUpdatedEvent(t))

	updated := t.Itinerary[idx]
	return &updated, nil
}

// RemoveItineraryDay drops a day from the itinerary
func (t *Tour) RemoveItineraryDay(id uuid.UUID) error {
	idx := t.findDay(id)
	if idx < 0 {
		return shared.NewDomainError("NOT_FOUND", "Itinerary day not found")
	}
	t.Itinerary = append(t.Itinerary[:idx], t.Itinerary[idx+1:]...)
	t.MarkModified()
	t.AddDomainEvent(NewTourUpdatedEvent(t))
	return nil
}

// NextDayNumber returns the first unplanned day, or 0 when every day is planned
func (t *Tour) NextDayNumber() int {
	taken := make(map[int]bool, len(t.Itinerary))
	for _, d := range t.Itinerary {
		taken[d.DayNumber] = true
	}
	for n := 1; n <= t.DurationDays; n++ {
		if !taken[n] {
			return n
		}
	}
	return 0
}

// SortedItinerary returns the itinerary ordered by day number
func (t *Tour) SortedItinerary() []ItineraryDay {
	days := make([]ItineraryDay, len(t.Itinerary))
	copy(days, t.Itinerary)
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].DayNumber < days[j].DayNumber
	})
	return days
}

// checkDayNumber rejects numbers outside the tour duration or already used by another day
func (t *Tour) checkDayNumber(n int, exclude uuid.UUID) error {
	if n < 1 || n > t.DurationDays {
		return shared.NewDomainError("ITINERARY_DAY_OUT_OF_RANGE",
			"Day number must be between 1 and the tour duration")
	}
	for _, d := range t.Itinerary {
		if d.DayNumber == n && d.ID != exclude {
			return shared.NewDomainError("ITINERARY_DAY_CONFLICT",
				"Another itinerary entry already uses this day number")
		}
	}
	return nil
}

func (t *Tour) findDay(id uuid.UUID) int {
	for i := range t.Itinerary {
		if t.Itinerary[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tour) maxDayNumber() int {
	highest := 0
	for _, d := range t.Itinerary {
		if d.DayNumber > highest {
			highest = d.DayNumber
		}
	}
	return highest
}
