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

// GormAttractionRepository implements AttractionRepository using GORM
type GormAttractionRepository struct {
	db *gorm.DB
}

// NewGormAttractionRepository creates a new GormAttractionRepository
func NewGormAttractionRepository(db *gorm.DB) *GormAttractionRepository {
	return &GormAttractionRepository{db: db}
}

// FindByID finds an attraction by its ID
func (r *GormAttractionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Attraction, error) {
	var a catalog.Attraction
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindBySlug finds an attraction by its slug
func (r *GormAttractionRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Attraction, error) {
	var a catalog.Attraction
	if err := r.db.WithContext(ctx).First(&a, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindAll finds all attractions matching the filter
func (r *GormAttractionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Attraction, error) {
	var attractions []catalog.Attraction
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Attraction{}), filter).
		Order(OrderClause(filter, AttractionSortFields, "name"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&attractions).Error; err != nil {
		return nil, err
	}
	return attractions, nil
}

// Count counts attractions matching the filter
func (r *GormAttractionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Attraction{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an attraction
func (r *GormAttractionRepository) Save(ctx context.Context, a *catalog.Attraction) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// Delete deletes an attraction
func (r *GormAttractionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Attraction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsBySlug checks if another attraction already uses the slug
func (r *GormAttractionRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return existsBySlug(r.db.WithContext(ctx).Model(&catalog.Attraction{}), slug, excludeID)
}

func (r *GormAttractionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ? "+likeEscape, likePattern(search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "destination_id":
			query = query.Where("destination_id = ?", value)
		case "destination":
			query = query.Where("destination_id IN (?)",
				r.db.Model(&catalog.Destination{}).Select("id").Where("slug = ?", value))
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// Ensure GormAttractionRepository implements AttractionRepository
var _ catalog.AttractionRepository = (*GormAttractionRepository)(nil)
