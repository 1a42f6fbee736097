package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AttractionService handles attraction browsing and administration
type AttractionService struct {
	attractionRepo  catalog.AttractionRepository
	destinationRepo catalog.DestinationRepository
	cache           CacheInvalidator
	logger          *zap.Logger
}

// NewAttractionService creates a new AttractionService
func NewAttractionService(
	attractionRepo catalog.AttractionRepository,
	destinationRepo catalog.DestinationRepository,
	logger *zap.Logger,
) *AttractionService {
	return &AttractionService{
		attractionRepo:  attractionRepo,
		destinationRepo: destinationRepo,
		logger:          logger,
	}
}

// SetCacheInvalidator sets the cache that public attraction pages are served from
func (s *AttractionService) SetCacheInvalidator(cache CacheInvalidator) {
	s.cache = cache
}

// ListActive lists attractions visible to the public
func (s *AttractionService) ListActive(ctx context.Context, filter AttractionListFilter) ([]AttractionResponse, int64, error) {
	filter.Status = string(catalog.AttractionStatusActive)
	return s.List(ctx, filter)
}

// List lists attractions
func (s *AttractionService) List(ctx context.Context, filter AttractionListFilter) ([]AttractionResponse, int64, error) {
	domainFilter := filter.toFilter("name", "asc")
	if filter.Destination != "" {
		domainFilter.Filters["destination"] = filter.Destination
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	attractions, err := s.attractionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.attractionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AttractionResponse, len(attractions))
	for i := range attractions {
		responses[i] = ToAttractionResponse(&attractions[i])
	}
	return responses, total, nil
}

// GetBySlug returns an active attraction
func (s *AttractionService) GetBySlug(ctx context.Context, slug string) (*AttractionResponse, error) {
	attraction, err := s.attractionRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if attraction.Status != catalog.AttractionStatusActive {
		return nil, shared.ErrNotFound
	}
	resp := ToAttractionResponse(attraction)
	return &resp, nil
}

// GetByID returns an attraction in any status
func (s *AttractionService) GetByID(ctx context.Context, id uuid.UUID) (*AttractionResponse, error) {
	attraction, err := s.attractionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAttractionResponse(attraction)
	return &resp, nil
}

// Create creates an attraction
func (s *AttractionService) Create(ctx context.Context, req AttractionRequest) (*AttractionResponse, error) {
	if err := s.checkDestination(ctx, req.DestinationID); err != nil {
		return nil, err
	}
	attraction, err := catalog.NewAttraction(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSlug(ctx, attraction.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	return s.save(ctx, attraction)
}

// Update updates an attraction
func (s *AttractionService) Update(ctx context.Context, id uuid.UUID, req AttractionRequest) (*AttractionResponse, error) {
	attraction, err := s.attractionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DestinationID != attraction.DestinationID {
		if err := s.checkDestination(ctx, req.DestinationID); err != nil {
			return nil, err
		}
	}
	oldSlug := attraction.Slug
	if err := attraction.Update(req.details()); err != nil {
		return nil, err
	}
	if attraction.Slug != oldSlug {
		if err := s.ensureUniqueSlug(ctx, attraction.Slug, attraction.ID); err != nil {
			return nil, err
		}
	}
	return s.save(ctx, attraction)
}

// Activate makes an attraction visible
func (s *AttractionService) Activate(ctx context.Context, id uuid.UUID) (*AttractionResponse, error) {
	attraction, err := s.attractionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := attraction.Activate(); err != nil {
		return nil, err
	}
	return s.save(ctx, attraction)
}

// Deactivate hides an attraction
func (s *AttractionService) Deactivate(ctx context.Context, id uuid.UUID) (*AttractionResponse, error) {
	attraction, err := s.attractionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := attraction.Deactivate(); err != nil {
		return nil, err
	}
	return s.save(ctx, attraction)
}

// Delete removes an attraction
func (s *AttractionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.attractionRepo.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger, "attractions", "destinations")
	return nil
}

func (s *AttractionService) save(ctx context.Context, a *catalog.Attraction) (*AttractionResponse, error) {
	if err := s.attractionRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	// destination pages embed their attractions
	invalidate(ctx, s.cache, s.logger, "attractions", "destinations")
	resp := ToAttractionResponse(a)
	return &resp, nil
}

func (s *AttractionService) checkDestination(ctx context.Context, id uuid.UUID) error {
	if _, err := s.destinationRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_DESTINATION", "Destination not found")
		}
		return err
	}
	return nil
}

func (s *AttractionService) ensureUniqueSlug(ctx context.Context, slug string, excludeID uuid.UUID) error {
	exists, err := s.attractionRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "An attraction with this slug already exists")
	}
	return nil
}
