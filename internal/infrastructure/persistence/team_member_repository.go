package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTeamMemberRepository implements TeamMemberRepository using GORM
type GormTeamMemberRepository struct {
	db *gorm.DB
}

// NewGormTeamMemberRepository creates a new GormTeamMemberRepository
func NewGormTeamMemberRepository(db *gorm.DB) *GormTeamMemberRepository {
	return &GormTeamMemberRepository{db: db}
}

// FindByID finds a team member by ID
func (r *GormTeamMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.TeamMember, error) {
	var m identity.TeamMember
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindAll returns team members by display order
func (r *GormTeamMemberRepository) FindAll(ctx context.Context, activeOnly bool) ([]identity.TeamMember, error) {
	var members []identity.TeamMember
	query := r.db.WithContext(ctx).Order("display_order ASC, name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Save creates or updates a team member
func (r *GormTeamMemberRepository) Save(ctx context.Context, m *identity.TeamMember) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// SaveAll saves several team members in one transaction
func (r *GormTeamMemberRepository) SaveAll(ctx context.Context, members []identity.TeamMember) error {
	if len(members) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range members {
			if err := tx.Save(&members[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a team member
func (r *GormTeamMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.TeamMember{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MaxDisplayOrder returns the highest display order in use, or 0
func (r *GormTeamMemberRepository) MaxDisplayOrder(ctx context.Context) (int, error) {
	var maxOrder int
	if err := r.db.WithContext(ctx).Model(&identity.TeamMember{}).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder, nil
}

// Ensure GormTeamMemberRepository implements TeamMemberRepository
var _ identity.TeamMemberRepository = (*GormTeamMemberRepository)(nil)
