package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BookingCounter reports how many bookings reference a tour
type BookingCounter interface {
	CountByTour(ctx context.Context, tourID uuid.UUID) (int64, error)
}

// TourService handles tour browsing and administration
type TourService struct {
	tourRepo        catalog.TourRepository
	destinationRepo catalog.DestinationRepository
	categoryRepo    catalog.CategoryRepository
	bookings        BookingCounter
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewTourService creates a new TourService
func NewTourService(
	tourRepo catalog.TourRepository,
	destinationRepo catalog.DestinationRepository,
	categoryRepo catalog.CategoryRepository,
	bookings BookingCounter,
	logger *zap.Logger,
) *TourService {
	return &TourService{
		tourRepo:        tourRepo,
		destinationRepo: destinationRepo,
		categoryRepo:    categoryRepo,
		bookings:        bookings,
		logger:          logger,
	}
}

// SetEventPublisher sets the publisher used for cache revalidation events
func (s *TourService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListPublished lists the tours visible to the public
func (s *TourService) ListPublished(ctx context.Context, filter TourListFilter) ([]TourListResponse, int64, error) {
	filter.Status = string(catalog.TourStatusPublished)
	return s.list(ctx, filter)
}

// List lists tours in every status
func (s *TourService) List(ctx context.Context, filter TourListFilter) ([]TourListResponse, int64, error) {
	return s.list(ctx, filter)
}

func (s *TourService) list(ctx context.Context, filter TourListFilter) ([]TourListResponse, int64, error) {
	domainFilter, err := filter.toDomainFilter()
	if err != nil {
		return nil, 0, err
	}

	tours, err := s.tourRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tourRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TourListResponse, len(tours))
	for i := range tours {
		responses[i] = ToTourListResponse(&tours[i])
	}
	return responses, total, nil
}

func (f TourListFilter) toDomainFilter() (shared.Filter, error) {
	out := f.toFilter("created_at", "desc")
	if f.Status != "" {
		out.Filters["status"] = f.Status
	}
	if f.Destination != "" {
		out.Filters["destination"] = f.Destination
	}
	if f.Category != "" {
		out.Filters["category"] = f.Category
	}
	if f.Difficulty != "" {
		out.Filters["difficulty"] = f.Difficulty
	}
	if f.MinPrice != "" {
		v, err := decimal.NewFromString(f.MinPrice)
		if err != nil {
			return out, shared.NewDomainError("INVALID_INPUT", "min_price must be a number")
		}
		out.Filters["min_price"] = v
	}
	if f.MaxPrice != "" {
		v, err := decimal.NewFromString(f.MaxPrice)
		if err != nil {
			return out, shared.NewDomainError("INVALID_INPUT", "max_price must be a number")
		}
		out.Filters["max_price"] = v
	}
	if f.DurationMin > 0 {
		out.Filters["duration_min"] = f.DurationMin
	}
	if f.DurationMax > 0 {
		out.Filters["duration_max"] = f.DurationMax
	}
	if f.DurationMin > 0 && f.DurationMax > 0 && f.DurationMin > f.DurationMax {
		return out, shared.NewDomainError("INVALID_INPUT", "duration_min cannot exceed duration_max")
	}
	if f.Featured != nil {
		out.Filters["featured"] = *f.Featured
	}
	return out, nil
}

// GetBySlug returns a published tour; drafts and archived tours read as not found
func (s *TourService) GetBySlug(ctx context.Context, slug string) (*TourResponse, error) {
	tour, err := s.tourRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if tour.Status != catalog.TourStatusPublished {
		return nil, shared.ErrNotFound
	}
	return ToTourResponse(tour), nil
}

// GetByID returns a tour in any status
func (s *TourService) GetByID(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	tour, err := s.tourRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToTourResponse(tour), nil
}

// Create creates a draft tour
func (s *TourService) Create(ctx context.Context, req CreateTourRequest) (*TourResponse, error) {
	if err := s.checkReferences(ctx, req.DestinationID, req.CategoryID); err != nil {
		return nil, err
	}

	tour, err := catalog.NewTour(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSlug(ctx, tour.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.tourRepo.Save(ctx, tour); err != nil {
		return nil, err
	}

	s.logger.Info("Tour created", zap.String("tour_id", tour.ID.String()), zap.String("slug", tour.Slug))
	return ToTourResponse(tour), nil
}

// Update replaces the editable details of a tour
func (s *TourService) Update(ctx context.Context, id uuid.UUID, req UpdateTourRequest) (*TourResponse, error) {
	tour, err := s.tourRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.DestinationID, req.CategoryID); err != nil {
		return nil, err
	}

	oldSlug := tour.Slug
	if err := tour.UpdateDetails(req.details()); err != nil {
		return nil, err
	}
	if tour.Slug != oldSlug {
		if err := s.ensureUniqueSlug(ctx, tour.Slug, tour.ID); err != nil {
			return nil, err
		}
	}

	return s.save(ctx, tour)
}

// Delete removes a tour that has never been booked; booked tours should be archived
func (s *TourService) Delete(ctx context.Context, id uuid.UUID) error {
	tour, err := s.tourRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.bookings.CountByTour(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("TOUR_HAS_BOOKINGS", "Tours with bookings cannot be deleted, archive them instead")
	}
	if err := s.tourRepo.Delete(ctx, id); err != nil {
		return err
	}

	tour.AddDomainEvent(catalog.NewTourDeletedEvent(tour))
	publishEvents(ctx, s.eventPublisher, s.logger, tour)
	s.logger.Info("Tour deleted", zap.String("tour_id", id.String()))
	return nil
}

// Publish makes a tour visible and bookable
func (s *TourService) Publish(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	return s.mutate(ctx, id, (*catalog.Tour).Publish)
}

// Unpublish returns a published tour to draft
func (s *TourService) Unpublish(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	return s.mutate(ctx, id, (*catalog.Tour).Unpublish)
}

// Archive retires a tour
func (s *TourService) Archive(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	return s.mutate(ctx, id, (*catalog.Tour).Archive)
}

// SetFeatured toggles the featured flag
func (s *TourService) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*TourResponse, error) {
	return s.mutate(ctx, id, func(t *catalog.Tour) error {
		return t.SetFeatured(featured)
	})
}

// AddItineraryDay appends a day to the tour's itinerary
func (s *TourService) AddItineraryDay(ctx context.Context, tourID uuid.UUID, req ItineraryDayRequest) (*TourResponse, error) {
	return s.mutate(ctx, tourID, func(t *catalog.Tour) error {
		_, err := t.AddItineraryDay(req.input())
		return err
	})
}

// UpdateItineraryDay changes an itinerary day
func (s *TourService) UpdateItineraryDay(ctx context.Context, tourID, dayID uuid.UUID, req ItineraryDayRequest) (*TourResponse, error) {
	return s.mutate(ctx, tourID, func(t *catalog.Tour) error {
		_, err := t.UpdateItineraryDay(dayID, req.input())
		return err
	})
}

// RemoveItineraryDay deletes an itinerary day
func (s *TourService) RemoveItineraryDay(ctx context.Context, tourID, dayID uuid.UUID) (*TourResponse, error) {
	return s.mutate(ctx, tourID, func(t *catalog.Tour) error {
		return t.RemoveItineraryDay(dayID)
	})
}

// SuggestNextDay returns the smallest free day number of the itinerary
func (s *TourService) SuggestNextDay(ctx context.Context, tourID uuid.UUID) (*NextDayResponse, error) {
	tour, err := s.tourRepo.FindByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	next := tour.NextDayNumber()
	return &NextDayResponse{DayNumber: next, Full: next == 0}, nil
}

func (s *TourService) mutate(ctx context.Context, id uuid.UUID, fn func(*catalog.Tour) error) (*TourResponse, error) {
	tour, err := s.tourRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(tour); err != nil {
		return nil, err
	}
	return s.save(ctx, tour)
}

func (s *TourService) save(ctx context.Context, tour *catalog.Tour) (*TourResponse, error) {
	if err := s.tourRepo.Save(ctx, tour); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, tour)
	return ToTourResponse(tour), nil
}

func (s *TourService) checkReferences(ctx context.Context, destinationID uuid.UUID, categoryID *uuid.UUID) error {
	if _, err := s.destinationRepo.FindByID(ctx, destinationID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_DESTINATION", "Destination not found")
		}
		return err
	}
	if categoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return err
		}
	}
	return nil
}

func (s *TourService) ensureUniqueSlug(ctx context.Context, slug string, excludeID uuid.UUID) error {
	exists, err := s.tourRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A tour with this slug already exists")
	}
	return nil
}
