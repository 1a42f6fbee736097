package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/shared"
)

// TourRepository defines the interface for tour persistence
type TourRepository interface {
	// FindByID loads a tour with its itinerary
	FindByID(ctx context.Context, id uuid.UUID) (*Tour, error)

	// FindByIDForUpdate loads a tour and locks its row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Tour, error)

	// FindBySlug loads a tour with its itinerary by slug
	FindBySlug(ctx context.Context, slug string) (*Tour, error)

	// FindAll lists tours matching the filter.
	// Supported filter keys: status, destination, category, difficulty,
	// min_price, max_price, duration_min, duration_max, featured.
	FindAll(ctx context.Context, filter shared.Filter) ([]Tour, error)

	// Count counts tours matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a tour and replaces its itinerary
	Save(ctx context.Context, tour *Tour) error

	// Delete deletes a tour and its itinerary
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsBySlug checks slug uniqueness, ignoring excludeID
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	// CountByDestination counts tours at a destination, optionally by status
	CountByDestination(ctx context.Context, destinationID uuid.UUID, status TourStatus) (int64, error)
}

// DestinationRepository defines the interface for destination persistence
type DestinationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Destination, error)
	FindBySlug(ctx context.Context, slug string) (*Destination, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Destination, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, destination *Destination) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

// AttractionRepository defines the interface for attraction persistence
type AttractionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Attraction, error)
	FindBySlug(ctx context.Context, slug string) (*Attraction, error)
	// FindAll supports filter keys destination_id, status
	FindAll(ctx context.Context, filter shared.Filter) ([]Attraction, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, attraction *Attraction) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	// HasTours checks if any tour references the category
	HasTours(ctx context.Context, id uuid.UUID) (bool, error)
}
