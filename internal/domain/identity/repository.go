package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindAll supports filter keys role, status; search matches name and email
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, user *User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TeamMemberRepository defines the interface for team member persistence
type TeamMemberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TeamMember, error)
	// FindAll returns members ordered by display order
	FindAll(ctx context.Context, activeOnly bool) ([]TeamMember, error)
	Save(ctx context.Context, member *TeamMember) error
	SaveAll(ctx context.Context, members []TeamMember) error
	Delete(ctx context.Context, id uuid.UUID) error
	MaxDisplayOrder(ctx context.Context) (int, error)
}
