package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const cacheTagTeam = "team"

// CacheInvalidator drops cached public pages by tag
type CacheInvalidator interface {
	InvalidateTags(ctx context.Context, tags ...string) error
}

// TeamService manages the public team page
type TeamService struct {
	teamRepo identity.TeamMemberRepository
	cache    CacheInvalidator
	logger   *zap.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo identity.TeamMemberRepository, logger *zap.Logger) *TeamService {
	return &TeamService{teamRepo: teamRepo, logger: logger}
}

// SetCacheInvalidator sets the cache dropped after team changes
func (s *TeamService) SetCacheInvalidator(cache CacheInvalidator) {
	s.cache = cache
}

// ListActive returns active members in display order
func (s *TeamService) ListActive(ctx context.Context) ([]TeamMemberResponse, error) {
	return s.list(ctx, true)
}

// List returns every member in display order
func (s *TeamService) List(ctx context.Context) ([]TeamMemberResponse, error) {
	return s.list(ctx, false)
}

func (s *TeamService) list(ctx context.Context, activeOnly bool) ([]TeamMemberResponse, error) {
	members, err := s.teamRepo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	responses := make([]TeamMemberResponse, len(members))
	for i := range members {
		responses[i] = ToTeamMemberResponse(&members[i])
	}
	return responses, nil
}

// Get returns a team member
func (s *TeamService) Get(ctx context.Context, id uuid.UUID) (*TeamMemberResponse, error) {
	member, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTeamMemberResponse(member)
	return &resp, nil
}

// Create appends a member at the end of the team page
func (s *TeamService) Create(ctx context.Context, req TeamMemberRequest) (*TeamMemberResponse, error) {
	maxOrder, err := s.teamRepo.MaxDisplayOrder(ctx)
	if err != nil {
		return nil, err
	}
	member, err := identity.NewTeamMember(req.profile(), maxOrder+1)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, member)
}

// Update changes a member profile
func (s *TeamService) Update(ctx context.Context, id uuid.UUID, req TeamMemberRequest) (*TeamMemberResponse, error) {
	member, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := member.Update(req.profile()); err != nil {
		return nil, err
	}
	return s.save(ctx, member)
}

// Delete removes a member
func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.teamRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Reorder assigns display order 1..n following ids, which must list every member exactly once
func (s *TeamService) Reorder(ctx context.Context, ids []uuid.UUID) ([]TeamMemberResponse, error) {
	members, err := s.teamRepo.FindAll(ctx, false)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(members) {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Expected %d member ids, got %d", len(members), len(ids)))
	}

	byID := make(map[uuid.UUID]*identity.TeamMember, len(members))
	for i := range members {
		byID[members[i].ID] = &members[i]
	}
	ordered := make([]identity.TeamMember, 0, len(ids))
	for i, id := range ids {
		member, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown or duplicate member id: "+id.String())
		}
		delete(byID, id)
		member.MoveTo(i + 1)
		ordered = append(ordered, *member)
	}

	if err := s.teamRepo.SaveAll(ctx, ordered); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	responses := make([]TeamMemberResponse, len(ordered))
	for i := range ordered {
		responses[i] = ToTeamMemberResponse(&ordered[i])
	}
	return responses, nil
}

func (s *TeamService) save(ctx context.Context, member *identity.TeamMember) (*TeamMemberResponse, error) {
	if err := s.teamRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	resp := ToTeamMemberResponse(member)
	return &resp, nil
}

func (s *TeamService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTags(ctx, cacheTagTeam); err != nil {
		s.logger.Warn("Failed to invalidate team cache", zap.Error(err))
	}
}
