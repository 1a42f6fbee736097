package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles tour category operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	cache        CacheInvalidator
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// SetCacheInvalidator sets the cache that public category lists are served from
func (s *CategoryService) SetCacheInvalidator(cache CacheInvalidator) {
	s.cache = cache
}

// List returns all categories ordered by name
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, nil
}

// Create creates a category
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Slug, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSlug(ctx, category.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	return s.save(ctx, category)
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Slug, req.Description); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSlug(ctx, category.Slug, category.ID); err != nil {
		return nil, err
	}
	return s.save(ctx, category)
}

// Delete removes a category that no tour uses
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	inUse, err := s.categoryRepo.HasTours(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return shared.NewDomainError("CATEGORY_IN_USE", "Category is still assigned to tours")
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger, "categories")
	return nil
}

func (s *CategoryService) save(ctx context.Context, c *catalog.Category) (*CategoryResponse, error) {
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.logger, "categories")
	resp := ToCategoryResponse(c)
	return &resp, nil
}

func (s *CategoryService) ensureUniqueSlug(ctx context.Context, slug string, excludeID uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A category with this slug already exists")
	}
	return nil
}
