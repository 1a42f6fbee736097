package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/domain/shared"
	"github.com/tourbook/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

func TestUserService_CannotModifySelf(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(new(MockUserRepository), newTestJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())
	self := uuid.New()

	_, err := svc.ChangeRole(ctx, self, self, ChangeRoleRequest{Role: "user"})
	assert.ErrorIs(t, err, errCannotModifySelf)
	_, err = svc.Disable(ctx, self, self)
	assert.ErrorIs(t, err, errCannotModifySelf)
}

func TestUserService_Disable_RevokesTokens(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewUserService(users, newTestJWTService(), blacklist, zap.NewNop())
	user := newTestUser(t, "secret123")
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	resp, err := svc.Disable(ctx, uuid.New(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, "disabled", resp.Status)
	revoked, err := blacklist.IsUserRevoked(ctx, user.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = svc.Disable(ctx, uuid.New(), user.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestUserService_ChangeRole(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewUserService(users, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())
	user := newTestUser(t, "secret123")
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	resp, err := svc.ChangeRole(ctx, uuid.New(), user.ID, ChangeRoleRequest{Role: "admin"})

	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
}

func TestUserService_List_PassesFilters(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewUserService(users, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())
	matches := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["role"] == "admin" && f.Search == "jane" && f.PageSize == 10
	})
	users.On("FindAll", ctx, matches).Return([]identity.User{*newTestUser(t, "secret123")}, nil)
	users.On("Count", ctx, matches).Return(int64(1), nil)

	items, total, err := svc.List(ctx, UserListFilter{Role: "admin", Search: "jane", PageSize: 10})

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
}
