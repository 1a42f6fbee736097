package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/domain/shared"
	"github.com/tourbook/backend/internal/infrastructure/auth"
	"github.com/tourbook/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "tourbook-test",
	})
}

func newTestUser(t *testing.T, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Jane Traveler", "jane@example.com", password)
	require.NoError(t, err)
	return user
}

func setupAuthService() (*AuthService, *MockUserRepository, *auth.InMemoryTokenBlacklist) {
	users := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(users, newTestJWTService(), blacklist, zap.NewNop()), users, blacklist
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := setupAuthService()
	users.On("ExistsByEmail", ctx, "jane@example.com").Return(false, nil)
	users.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	result, err := svc.Register(ctx, RegisterRequest{Name: "Jane", Email: " Jane@Example.com ", Password: "secret123"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "jane@example.com", result.User.Email)
	assert.Equal(t, "user", result.User.Role)
	users.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := setupAuthService()
	users.On("ExistsByEmail", ctx, "jane@example.com").Return(true, nil)

	_, err := svc.Register(ctx, RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", domainErr.Code)
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "secret123")

	t.Run("success records login", func(t *testing.T) {
		svc, users, _ := setupAuthService()
		users.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
		users.On("Save", ctx, user).Return(nil)

		result, err := svc.Login(ctx, LoginRequest{Email: "JANE@example.com", Password: "secret123"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		svc, users, _ := setupAuthService()
		users.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
		users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, shared.ErrNotFound)

		_, errPassword := svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "wrong-pass"})
		_, errEmail := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret123"})

		require.Error(t, errPassword)
		assert.Equal(t, errPassword, errEmail)
		assert.Equal(t, "INVALID_CREDENTIALS", errPassword.(*shared.DomainError).Code)
	})

	t.Run("disabled account", func(t *testing.T) {
		disabled := newTestUser(t, "secret123")
		require.NoError(t, disabled.Disable())
		svc, users, _ := setupAuthService()
		users.On("FindByEmail", ctx, "jane@example.com").Return(disabled, nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "secret123"})

		require.Error(t, err)
		assert.Equal(t, "USER_DISABLED", err.(*shared.DomainError).Code)
	})
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "secret123")
	svc, users, _ := setupAuthService()
	users.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	login, err := svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "TOKEN_REVOKED", err.(*shared.DomainError).Code)

	_, err = svc.Refresh(ctx, "garbage")
	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", err.(*shared.DomainError).Code)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "secret123")
	svc, users, blacklist := setupAuthService()
	users.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	login, err := svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := newTestJWTService().ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims, login.RefreshToken))

	revoked, err := blacklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Error(t, svc.CheckToken(ctx, claims))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.Error(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "secret123")
	svc, users, blacklist := setupAuthService()
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	err := svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "nope-nope", NewPassword: "another123"})
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", err.(*shared.DomainError).Code)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "another123"}))
	assert.True(t, user.CheckPassword("another123"))

	revoked, err := blacklist.IsUserRevoked(ctx, user.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_LoginRightAfterPasswordChange(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, "secret123")
	svc, users, _ := setupAuthService()
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "another123"}))

	// same second as the revocation
	login, err := svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "another123"})
	require.NoError(t, err)

	claims, err := newTestJWTService().ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)
	assert.NoError(t, svc.CheckToken(ctx, claims))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.NoError(t, err)
}
