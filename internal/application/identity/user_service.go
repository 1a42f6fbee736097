package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/domain/shared"
	"github.com/tourbook/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var errCannotModifySelf = shared.NewDomainError("CANNOT_MODIFY_SELF", "You cannot change your own role or status")

// UserService handles admin user management
type UserService struct {
	userRepo   identity.UserRepository
	blacklist  auth.TokenBlacklist
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// List lists users
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := filter.toDomainFilter()
	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses, total, nil
}

// Get returns a user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangeRole assigns a role. Admins cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, actorID, id uuid.UUID, req ChangeRoleRequest) (*UserResponse, error) {
	if actorID == id {
		return nil, errCannotModifySelf
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.ChangeRole(identity.Role(req.Role)); err != nil {
		return nil, err
	}
	// Access tokens carry the role
	return s.saveAndRevoke(ctx, user, "Role changed", zap.String("role", req.Role))
}

// Disable blocks a user and revokes all tokens issued to them
func (s *UserService) Disable(ctx context.Context, actorID, id uuid.UUID) (*UserResponse, error) {
	if actorID == id {
		return nil, errCannotModifySelf
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Disable(); err != nil {
		return nil, err
	}
	return s.saveAndRevoke(ctx, user, "User disabled")
}

// Enable re-activates a disabled user
func (s *UserService) Enable(ctx context.Context, actorID, id uuid.UUID) (*UserResponse, error) {
	if actorID == id {
		return nil, errCannotModifySelf
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Enable(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User enabled", zap.String("user_id", user.ID.String()))
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *UserService) saveAndRevoke(ctx context.Context, user *identity.User, msg string, fields ...zap.Field) (*UserResponse, error) {
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.jwtService.RefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	s.logger.Info(msg, append(fields, zap.String("user_id", user.ID.String()))...)
	resp := ToUserResponse(user)
	return &resp, nil
}
