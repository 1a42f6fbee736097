package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DestinationService handles destination browsing and administration
type DestinationService struct {
	destinationRepo catalog.DestinationRepository
	tourRepo        catalog.TourRepository
	attractionRepo  catalog.AttractionRepository
	cache           CacheInvalidator
	logger          *zap.Logger
}

// NewDestinationService creates a new DestinationService
func NewDestinationService(
	destinationRepo catalog.DestinationRepository,
	tourRepo catalog.TourRepository,
	attractionRepo catalog.AttractionRepository,
	logger *zap.Logger,
) *DestinationService {
	return &DestinationService{
		destinationRepo: destinationRepo,
		tourRepo:        tourRepo,
		attractionRepo:  attractionRepo,
		logger:          logger,
	}
}

// SetCacheInvalidator sets the cache that public destination pages are served from
func (s *DestinationService) SetCacheInvalidator(cache CacheInvalidator) {
	s.cache = cache
}

// List lists destinations
func (s *DestinationService) List(ctx context.Context, filter DestinationListFilter) ([]DestinationResponse, int64, error) {
	domainFilter := filter.toFilter("name", "asc")
	if filter.Country != "" {
		domainFilter.Filters["country"] = filter.Country
	}
	if filter.Featured != nil {
		domainFilter.Filters["featured"] = *filter.Featured
	}

	destinations, err := s.destinationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.destinationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DestinationResponse, len(destinations))
	for i := range destinations {
		responses[i] = ToDestinationResponse(&destinations[i])
	}
	return responses, total, nil
}

// GetBySlug returns a destination with its published tour count and active attractions
func (s *DestinationService) GetBySlug(ctx context.Context, slug string) (*DestinationDetailResponse, error) {
	destination, err := s.destinationRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	tourCount, err := s.tourRepo.CountByDestination(ctx, destination.ID, catalog.TourStatusPublished)
	if err != nil {
		return nil, err
	}

	attractions, err := s.attractionRepo.FindAll(ctx, shared.Filter{
		OrderBy:  "name",
		OrderDir: "asc",
		Filters: map[string]interface{}{
			"destination_id": destination.ID,
			"status":         string(catalog.AttractionStatusActive),
		},
	})
	if err != nil {
		return nil, err
	}

	detail := &DestinationDetailResponse{
		DestinationResponse: ToDestinationResponse(destination),
		TourCount:           tourCount,
		Attractions:         make([]AttractionResponse, len(attractions)),
	}
	for i := range attractions {
		detail.Attractions[i] = ToAttractionResponse(&attractions[i])
	}
	return detail, nil
}

// GetByID returns a destination
func (s *DestinationService) GetByID(ctx context.Context, id uuid.UUID) (*DestinationResponse, error) {
	destination, err := s.destinationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDestinationResponse(destination)
	return &resp, nil
}

// Create creates a destination
func (s *DestinationService) Create(ctx context.Context, req DestinationRequest) (*DestinationResponse, error) {
	destination, err := catalog.NewDestination(req.Name, req.Slug, req.Country, req.Description, req.ImageURL)
	if err != nil {
		return nil, err
	}
	if req.Featured != nil {
		destination.SetFeatured(*req.Featured)
	}
	if err := s.ensureUniqueSlug(ctx, destination.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	return s.save(ctx, destination, "")
}

// Update updates a destination
func (s *DestinationService) Update(ctx context.Context, id uuid.UUID, req DestinationRequest) (*DestinationResponse, error) {
	destination, err := s.destinationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldSlug := destination.Slug
	if err := destination.Update(req.Name, req.Slug, req.Country, req.Description, req.ImageURL); err != nil {
		return nil, err
	}
	if req.Featured != nil && *req.Featured != destination.Featured {
		destination.SetFeatured(*req.Featured)
	}
	if destination.Slug != oldSlug {
		if err := s.ensureUniqueSlug(ctx, destination.Slug, destination.ID); err != nil {
			return nil, err
		}
	}
	return s.save(ctx, destination, oldSlug)
}

// Delete removes a destination that no tour uses
func (s *DestinationService) Delete(ctx context.Context, id uuid.UUID) error {
	destination, err := s.destinationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	tours, err := s.tourRepo.CountByDestination(ctx, id, "")
	if err != nil {
		return err
	}
	if tours > 0 {
		return shared.NewDomainError("DESTINATION_IN_USE", "Destination still has tours")
	}
	if err := s.destinationRepo.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger, "destinations", "destination:"+destination.Slug)
	return nil
}

func (s *DestinationService) save(ctx context.Context, d *catalog.Destination, oldSlug string) (*DestinationResponse, error) {
	if err := s.destinationRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	tags := []string{"destinations", "destination:" + d.Slug}
	if oldSlug != "" && oldSlug != d.Slug {
		tags = append(tags, "destination:"+oldSlug)
	}
	invalidate(ctx, s.cache, s.logger, tags...)
	resp := ToDestinationResponse(d)
	return &resp, nil
}

func (s *DestinationService) ensureUniqueSlug(ctx context.Context, slug string, excludeID uuid.UUID) error {
	exists, err := s.destinationRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A destination with this slug already exists")
	}
	return nil
}
