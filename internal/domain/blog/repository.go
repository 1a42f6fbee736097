package blog

import (
	"context"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/shared"
)

// PostRepository defines the interface for blog post persistence
type PostRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	FindBySlug(ctx context.Context, slug string) (*Post, error)
	// FindAll supports filter keys status, tag
	FindAll(ctx context.Context, filter shared.Filter) ([]Post, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}
