package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

func newMember(t *testing.T, name string, order int) identity.TeamMember {
	t.Helper()
	m, err := identity.NewTeamMember(identity.TeamMemberProfile{Name: name, Position: "Guide", Active: true}, order)
	require.NoError(t, err)
	return *m
}

func TestTeamService_Create_AppendsAtEnd(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTeamMemberRepository)
	cache := new(MockCacheInvalidator)
	svc := NewTeamService(repo, zap.NewNop())
	svc.SetCacheInvalidator(cache)
	repo.On("MaxDisplayOrder", ctx).Return(3, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*identity.TeamMember")).Return(nil)
	cache.On("InvalidateTags", ctx, []string{"team"}).Return(nil)

	resp, err := svc.Create(ctx, TeamMemberRequest{
		Name:     "Rosa",
		Position: "Lead guide",
		Socials:  map[string]string{"Instagram": "https://instagram.com/rosa"},
	})

	require.NoError(t, err)
	assert.Equal(t, 4, resp.DisplayOrder)
	assert.True(t, resp.Active)
	assert.Equal(t, "https://instagram.com/rosa", resp.Socials["instagram"])
	cache.AssertExpectations(t)
}

func TestTeamService_Reorder(t *testing.T) {
	ctx := context.Background()
	a, b, c := newMember(t, "A", 1), newMember(t, "B", 2), newMember(t, "C", 3)

	t.Run("assigns positions in given order", func(t *testing.T) {
		repo := new(MockTeamMemberRepository)
		svc := NewTeamService(repo, zap.NewNop())
		repo.On("FindAll", ctx, false).Return([]identity.TeamMember{a, b, c}, nil)
		repo.On("SaveAll", ctx, mock.MatchedBy(func(ms []identity.TeamMember) bool {
			return len(ms) == 3 && ms[0].ID == c.ID && ms[0].DisplayOrder == 1 && ms[2].ID == b.ID && ms[2].DisplayOrder == 3
		})).Return(nil)

		out, err := svc.Reorder(ctx, []uuid.UUID{c.ID, a.ID, b.ID})

		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, "C", out[0].Name)
		assert.Equal(t, 2, out[1].DisplayOrder)
		repo.AssertExpectations(t)
	})

	t.Run("rejects incomplete or duplicate lists", func(t *testing.T) {
		repo := new(MockTeamMemberRepository)
		svc := NewTeamService(repo, zap.NewNop())
		repo.On("FindAll", ctx, false).Return([]identity.TeamMember{a, b, c}, nil)

		_, err := svc.Reorder(ctx, []uuid.UUID{a.ID, b.ID})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = svc.Reorder(ctx, []uuid.UUID{a.ID, a.ID, b.ID})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		repo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	})
}

func TestTeamService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTeamMemberRepository)
	svc := NewTeamService(repo, zap.NewNop())
	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	err := svc.Delete(ctx, id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
