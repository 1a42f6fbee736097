package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/domain/shared"
	"github.com/tourbook/backend/internal/infrastructure/auth"
)

// RegisterRequest represents a sign-up request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest represents a sign-in request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest represents a password change by the signed-in user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// UpdateProfileRequest changes the display fields of the signed-in user
type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	ImageURL string `json:"image_url" binding:"omitempty,url,max=500"`
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	*auth.TokenPair
	User UserResponse `json:"user"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	ImageURL    string     `json:"image_url,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converts a domain user to its response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		Status:      string(u.Status),
		ImageURL:    u.ImageURL,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// UserListFilter contains admin user list filters
type UserListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	Role     string `form:"role" binding:"omitempty,oneof=admin user"`
	Status   string `form:"status" binding:"omitempty,oneof=active disabled"`
	SortBy   string `form:"sort_by"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (f UserListFilter) toDomainFilter() shared.Filter {
	out := shared.DefaultFilter()
	if f.Page > 0 {
		out.Page = f.Page
	}
	if f.PageSize > 0 {
		out.PageSize = f.PageSize
	}
	out.Search = f.Search
	if f.SortBy != "" {
		out.OrderBy = f.SortBy
		out.OrderDir = f.SortDir
	}
	if f.Role != "" {
		out.Filters["role"] = f.Role
	}
	if f.Status != "" {
		out.Filters["status"] = f.Status
	}
	return out
}

// ChangeRoleRequest assigns a role to a user
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}

// TeamMemberRequest represents a request to create or update a team member
type TeamMemberRequest struct {
	Name     string            `json:"name" binding:"required,max=100"`
	Position string            `json:"position" binding:"required,max=100"`
	Bio      string            `json:"bio"`
	ImageURL string            `json:"image_url" binding:"omitempty,url,max=500"`
	Email    string            `json:"email" binding:"omitempty,email,max=200"`
	Socials  map[string]string `json:"socials" binding:"omitempty,dive,keys,oneof=facebook instagram linkedin twitter x website,endkeys,url"`
	Active   *bool             `json:"active"`
}

func (r TeamMemberRequest) profile() identity.TeamMemberProfile {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return identity.TeamMemberProfile{
		Name:     r.Name,
		Position: r.Position,
		Bio:      r.Bio,
		ImageURL: r.ImageURL,
		Email:    r.Email,
		Socials:  r.Socials,
		Active:   active,
	}
}

// ReorderTeamRequest lists every team member id in the new display order
type ReorderTeamRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// TeamMemberResponse represents a team member in API responses
type TeamMemberResponse struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Position     string            `json:"position"`
	Bio          string            `json:"bio"`
	ImageURL     string            `json:"image_url"`
	Email        string            `json:"email,omitempty"`
	Socials      map[string]string `json:"socials"`
	DisplayOrder int               `json:"display_order"`
	Active       bool              `json:"active"`
}

// ToTeamMemberResponse converts a domain team member to its response
func ToTeamMemberResponse(m *identity.TeamMember) TeamMemberResponse {
	socials := m.Socials
	if socials == nil {
		socials = map[string]string{}
	}
	return TeamMemberResponse{
		ID:           m.ID,
		Name:         m.Name,
		Position:     m.Position,
		Bio:          m.Bio,
		ImageURL:     m.ImageURL,
		Email:        m.Email,
		Socials:      socials,
		DisplayOrder: m.DisplayOrder,
		Active:       m.Active,
	}
}
