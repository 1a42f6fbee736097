package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDestinationRepository implements DestinationRepository using GORM
type GormDestinationRepository struct {
	db *gorm.DB
}

// NewGormDestinationRepository creates a new GormDestinationRepository
func NewGormDestinationRepository(db *gorm.DB) *GormDestinationRepository {
	return &GormDestinationRepository{db: db}
}

// FindByID finds a destination by its ID
func (r *GormDestinationRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Destination, error) {
	var d catalog.Destination
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindBySlug finds a destination by its slug
func (r *GormDestinationRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Destination, error) {
	var d catalog.Destination
	if err := r.db.WithContext(ctx).First(&d, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindAll finds all destinations matching the filter
func (r *GormDestinationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Destination, error) {
	var destinations []catalog.Destination
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Destination{}), filter).
		Order(OrderClause(filter, DestinationSortFields, "name"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&destinations).Error; err != nil {
		return nil, err
	}
	return destinations, nil
}

// Count counts destinations matching the filter
func (r *GormDestinationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Destination{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a destination
func (r *GormDestinationRepository) Save(ctx context.Context, d *catalog.Destination) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// Delete deletes a destination
func (r *GormDestinationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Destination{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsBySlug checks if another destination already uses the slug
func (r *GormDestinationRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return existsBySlug(r.db.WithContext(ctx).Model(&catalog.Destination{}), slug, excludeID)
}

func (r *GormDestinationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? "+likeEscape+" OR LOWER(country) LIKE ? "+likeEscape, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "country":
			query = query.Where("country = ?", value)
		case "featured":
			query = query.Where("featured = ?", value)
		}
	}
	return query
}

// Ensure GormDestinationRepository implements DestinationRepository
var _ catalog.DestinationRepository = (*GormDestinationRepository)(nil)
