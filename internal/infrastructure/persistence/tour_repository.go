package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTourRepository implements TourRepository using GORM
type GormTourRepository struct {
	db *gorm.DB
}

// NewGormTourRepository creates a new GormTourRepository
func NewGormTourRepository(db *gorm.DB) *GormTourRepository {
	return &GormTourRepository{db: db}
}

func withItinerary(db *gorm.DB) *gorm.DB {
	return db.Preload("Itinerary", func(db *gorm.DB) *gorm.DB {
		return db.Order("day_number ASC")
	})
}

// FindByID finds a tour by its ID
func (r *GormTourRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Tour, error) {
	var tour catalog.Tour
	if err := withItinerary(r.db.WithContext(ctx)).First(&tour, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tour, nil
}

// FindByIDForUpdate finds a tour and takes a row lock on it
func (r *GormTourRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Tour, error) {
	var tour catalog.Tour
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tour, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tour, nil
}

// FindBySlug finds a tour by its slug
func (r *GormTourRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Tour, error) {
	var tour catalog.Tour
	if err := withItinerary(r.db.WithContext(ctx)).First(&tour, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tour, nil
}

// FindAll finds all tours matching the filter, without itineraries
func (r *GormTourRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Tour, error) {
	var tours []catalog.Tour
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Tour{}), filter)
	query = query.Order(OrderClause(filter, TourSortFields, "created_at"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&tours).Error; err != nil {
		return nil, err
	}
	return tours, nil
}

// Count counts tours matching the filter
func (r *GormTourRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Tour{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a tour and replaces its itinerary
func (r *GormTourRepository) Save(ctx context.Context, tour *catalog.Tour) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(tour).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(tour.Itinerary))
		for _, day := range tour.Itinerary {
			keep = append(keep, day.ID)
		}
		stale := tx.Where("tour_id = ?", tour.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&catalog.ItineraryDay{}).Error; err != nil {
			return err
		}

		if len(tour.Itinerary) == 0 {
			return nil
		}
		return tx.Save(&tour.Itinerary).Error
	})
}

// Delete deletes a tour and its itinerary
func (r *GormTourRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&catalog.ItineraryDay{}, "tour_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Tour{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsBySlug checks if another tour already uses the slug
func (r *GormTourRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return existsBySlug(r.db.WithContext(ctx).Model(&catalog.Tour{}), slug, excludeID)
}

// CountByDestination counts tours at a destination, optionally restricted to a status
func (r *GormTourRepository) CountByDestination(ctx context.Context, destinationID uuid.UUID, status catalog.TourStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Tour{}).Where("destination_id = ?", destinationID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies search and filter keys without pagination or ordering
func (r *GormTourRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(title) LIKE ? "+likeEscape+" OR LOWER(summary) LIKE ? "+likeEscape, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "destination":
			query = query.Where("destination_id IN (?)",
				r.db.Model(&catalog.Destination{}).Select("id").Where("slug = ?", value))
		case "destination_id":
			query = query.Where("destination_id = ?", value)
		case "category":
			query = query.Where("category_id IN (?)",
				r.db.Model(&catalog.Category{}).Select("id").Where("slug = ?", value))
		case "difficulty":
			query = query.Where("difficulty = ?", value)
		case "min_price":
			query = query.Where("price >= ?", value)
		case "max_price":
			query = query.Where("price <= ?", value)
		case "duration_min":
			query = query.Where("duration_days >= ?", value)
		case "duration_max":
			query = query.Where("duration_days <= ?", value)
		case "featured":
			query = query.Where("featured = ?", value)
		}
	}
	return query
}

const likeEscape = `ESCAPE '\'`

// likePattern builds a case-insensitive contains pattern for LOWER(col) LIKE ?
func likePattern(search string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(escaper.Replace(search)) + "%"
}

func existsBySlug(query *gorm.DB, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query = query.Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormTourRepository implements TourRepository
var _ catalog.TourRepository = (*GormTourRepository)(nil)
