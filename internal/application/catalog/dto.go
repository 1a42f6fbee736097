package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/shared"
)

// ListQuery carries the paging and sorting shared by every list endpoint
type ListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	SortBy   string `form:"sort_by"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// toFilter converts the query into a domain filter with the given default order
func (q ListQuery) toFilter(defaultOrder, defaultDir string) shared.Filter {
	f := shared.DefaultFilter()
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	f.Search = q.Search
	f.OrderBy = defaultOrder
	f.OrderDir = defaultDir
	if q.SortBy != "" {
		f.OrderBy = q.SortBy
		f.OrderDir = q.SortDir
	}
	return f
}

// ===================== Tour DTOs =====================

// TourListFilter contains the public and admin tour list filters
type TourListFilter struct {
	ListQuery
	Destination string `form:"destination"`
	Category    string `form:"category"`
	Difficulty  string `form:"difficulty" binding:"omitempty,oneof=easy moderate challenging"`
	MinPrice    string `form:"min_price" binding:"omitempty,numeric"`
	MaxPrice    string `form:"max_price" binding:"omitempty,numeric"`
	DurationMin int    `form:"duration_min" binding:"omitempty,min=1"`
	DurationMax int    `form:"duration_max" binding:"omitempty,min=1"`
	Featured    *bool  `form:"featured"`
	Status      string `form:"status" binding:"omitempty,oneof=draft published archived"`
}

// CreateTourRequest represents a request to create a tour
type CreateTourRequest struct {
	Title         string          `json:"title" binding:"required,min=1,max=200"`
	Slug          string          `json:"slug" binding:"omitempty,slug,max=220"`
	Summary       string          `json:"summary" binding:"max=500"`
	Description   string          `json:"description"`
	DestinationID uuid.UUID       `json:"destination_id" binding:"required"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	DurationDays  int             `json:"duration_days" binding:"required,min=1,max=90"`
	MaxGroupSize  int             `json:"max_group_size" binding:"required,min=1,max=500"`
	Difficulty    string          `json:"difficulty" binding:"omitempty,oneof=easy moderate challenging"`
	CoverImage    string          `json:"cover_image" binding:"omitempty,url,max=500"`
	Gallery       []string        `json:"gallery" binding:"omitempty,max=20,dive,url"`
}

// UpdateTourRequest represents a request to update a tour
type UpdateTourRequest = CreateTourRequest

// ItineraryDayRequest represents an itinerary day to add or update
type ItineraryDayRequest struct {
	DayNumber     int    `json:"day_number" binding:"required,min=1"`
	Title         string `json:"title" binding:"required,max=200"`
	Description   string `json:"description"`
	Meals         string `json:"meals" binding:"max=100"`
	Accommodation string `json:"accommodation" binding:"max=200"`
}

// ItineraryDayResponse represents an itinerary day
type ItineraryDayResponse struct {
	ID            uuid.UUID `json:"id"`
	DayNumber     int       `json:"day_number"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Meals         string    `json:"meals,omitempty"`
	Accommodation string    `json:"accommodation,omitempty"`
}

// TourListResponse is the card view of a tour used in lists
type TourListResponse struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Summary       string          `json:"summary"`
	DestinationID uuid.UUID       `json:"destination_id"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	DurationDays  int             `json:"duration_days"`
	MaxGroupSize  int             `json:"max_group_size"`
	Difficulty    string          `json:"difficulty"`
	CoverImage    string          `json:"cover_image"`
	Featured      bool            `json:"featured"`
	Status        string          `json:"status"`
	RatingAvg     decimal.Decimal `json:"rating_avg"`
	PublishedAt   *time.Time      `json:"published_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TourResponse is the full view of a tour
type TourResponse struct {
	TourListResponse
	Description string                 `json:"description"`
	Gallery     []string               `json:"gallery"`
	Itinerary   []ItineraryDayResponse `json:"itinerary"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Version     int                    `json:"version"`
}

// NextDayResponse suggests the next free itinerary day number; 0 means the itinerary is full
type NextDayResponse struct {
	DayNumber int  `json:"day_number"`
	Full      bool `json:"full"`
}

// ToTourListResponse converts a tour to its list view
func ToTourListResponse(t *catalog.Tour) TourListResponse {
	return TourListResponse{
		ID:            t.ID,
		Title:         t.Title,
		Slug:          t.Slug,
		Summary:       t.Summary,
		DestinationID: t.DestinationID,
		CategoryID:    t.CategoryID,
		Price:         t.Price,
		DurationDays:  t.DurationDays,
		MaxGroupSize:  t.MaxGroupSize,
		Difficulty:    string(t.Difficulty),
		CoverImage:    t.CoverImage,
		Featured:      t.Featured,
		Status:        string(t.Status),
		RatingAvg:     t.RatingAvg,
		PublishedAt:   t.PublishedAt,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTourResponse converts a tour to its full view
func ToTourResponse(t *catalog.Tour) *TourResponse {
	days := t.SortedItinerary()
	itinerary := make([]ItineraryDayResponse, len(days))
	for i := range days {
		itinerary[i] = ToItineraryDayResponse(&days[i])
	}
	gallery := t.Gallery
	if gallery == nil {
		gallery = []string{}
	}
	return &TourResponse{
		TourListResponse: ToTourListResponse(t),
		Description:      t.Description,
		Gallery:          gallery,
		Itinerary:        itinerary,
		UpdatedAt:        t.UpdatedAt,
		Version:          t.Version,
	}
}

// ToItineraryDayResponse converts an itinerary day
func ToItineraryDayResponse(d *catalog.ItineraryDay) ItineraryDayResponse {
	return ItineraryDayResponse{
		ID:            d.ID,
		DayNumber:     d.DayNumber,
		Title:         d.Title,
		Description:   d.Description,
		Meals:         d.Meals,
		Accommodation: d.Accommodation,
	}
}

func (r CreateTourRequest) details() catalog.TourDetails {
	return catalog.TourDetails{
		Title:         r.Title,
		Slug:          r.Slug,
		Summary:       r.Summary,
		Description:   r.Description,
		DestinationID: r.DestinationID,
		CategoryID:    r.CategoryID,
		Price:         r.Price,
		DurationDays:  r.DurationDays,
		MaxGroupSize:  r.MaxGroupSize,
		Difficulty:    catalog.Difficulty(r.Difficulty),
		CoverImage:    r.CoverImage,
		Gallery:       r.Gallery,
	}
}

func (r ItineraryDayRequest) input() catalog.ItineraryDayInput {
	return catalog.ItineraryDayInput{
		DayNumber:     r.DayNumber,
		Title:         r.Title,
		Description:   r.Description,
		Meals:         r.Meals,
		Accommodation: r.Accommodation,
	}
}

// ===================== Destination DTOs =====================

// DestinationListFilter contains destination list filters
type DestinationListFilter struct {
	ListQuery
	Country  string `form:"country"`
	Featured *bool  `form:"featured"`
}

// DestinationRequest represents a request to create or update a destination
type DestinationRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"omitempty,slug,max=120"`
	Country     string `json:"country" binding:"max=100"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" binding:"omitempty,url,max=500"`
	Featured    *bool  `json:"featured"`
}

// DestinationResponse represents a destination
type DestinationResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Country     string    `json:"country"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DestinationDetailResponse is the public destination page
type DestinationDetailResponse struct {
	DestinationResponse
	TourCount   int64                `json:"tour_count"`
	Attractions []AttractionResponse `json:"attractions"`
}

// ToDestinationResponse converts a destination
func ToDestinationResponse(d *catalog.Destination) DestinationResponse {
	return DestinationResponse{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Country:     d.Country,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Featured:    d.Featured,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ===================== Attraction DTOs =====================

// AttractionListFilter contains attraction list filters
type AttractionListFilter struct {
	ListQuery
	Destination string `form:"destination"`
	Status      string `form:"status" binding:"omitempty,oneof=active inactive"`
}

// AttractionRequest represents a request to create or update an attraction
type AttractionRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=150"`
	Slug          string          `json:"slug" binding:"omitempty,slug,max=170"`
	DestinationID uuid.UUID       `json:"destination_id" binding:"required"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url" binding:"omitempty,url,max=500"`
	EntryFee      decimal.Decimal `json:"entry_fee"`
}

// AttractionResponse represents an attraction
type AttractionResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	DestinationID uuid.UUID       `json:"destination_id"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url"`
	EntryFee      decimal.Decimal `json:"entry_fee"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToAttractionResponse converts an attraction
func ToAttractionResponse(a *catalog.Attraction) AttractionResponse {
	return AttractionResponse{
		ID:            a.ID,
		Name:          a.Name,
		Slug:          a.Slug,
		DestinationID: a.DestinationID,
		Description:   a.Description,
		ImageURL:      a.ImageURL,
		EntryFee:      a.EntryFee,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (r AttractionRequest) details() catalog.AttractionDetails {
	return catalog.AttractionDetails{
		Name:          r.Name,
		Slug:          r.Slug,
		DestinationID: r.DestinationID,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		EntryFee:      r.EntryFee,
	}
}

// ===================== Category DTOs =====================

// CategoryRequest represents a request to create or update a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"omitempty,slug,max=120"`
	Description string `json:"description"`
}

// CategoryResponse represents a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
}

// ToCategoryResponse converts a category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}
