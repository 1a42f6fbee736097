package identity

import (
	"strings"
	"time"

	"github.com/tourbook/backend/internal/domain/shared"
)

// TeamMember is a person shown on the public "our team" page
type TeamMember struct {
	shared.BaseAggregateRoot
	Name         string            `gorm:"type:varchar(100);not null"`
	Position     string            `gorm:"type:varchar(100);not null"`
	Bio          string            `gorm:"type:text"`
	ImageURL     string            `gorm:"type:varchar(500)"`
	Email        string            `gorm:"type:varchar(200)"`
	Socials      map[string]string `gorm:"serializer:json;type:text"`
	DisplayOrder int               `gorm:"not null;default:0;index"`
	Active       bool              `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TeamMember) TableName() string {
	return "team_members"
}

// TeamMemberProfile carries the editable fields of a team member
type TeamMemberProfile struct {
	Name     string
	Position string
	Bio      string
	ImageURL string
	Email    string
	Socials  map[string]string
	Active   bool
}

var allowedSocials = map[string]bool{
	"facebook": true, "instagram": true, "linkedin": true, "twitter": true, "x": true, "website": true,
}

// NewTeamMember creates a team member appended at the given position
func NewTeamMember(p TeamMemberProfile, displayOrder int) (*TeamMember, error) {
	m := &TeamMember{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DisplayOrder:      displayOrder,
	}
	if err := m.set(p); err != nil {
		return nil, err
	}
	return m, nil
}

// Update changes the profile of the team member
func (m *TeamMember) Update(p TeamMemberProfile) error {
	if err := m.set(p); err != nil {
		return err
	}
	m.MarkModified()
	return nil
}

// MoveTo sets the position of the member on the team page
func (m *TeamMember) MoveTo(order int) {
	m.DisplayOrder = order
	m.UpdatedAt = time.Now()
}

func (m *TeamMember) set(p TeamMemberProfile) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	position := strings.TrimSpace(p.Position)
	if position == "" {
		return shared.NewDomainError("INVALID_POSITION", "Position cannot be empty")
	}
	email := NormalizeEmail(p.Email)
	if email != "" {
		if err := ValidateEmail(email); err != nil {
			return err
		}
	}
	socials := make(map[string]string, len(p.Socials))
	for network, url := range p.Socials {
		network = strings.ToLower(strings.TrimSpace(network))
		if !allowedSocials[network] {
			return shared.NewDomainError("INVALID_SOCIAL", "Unsupported social network: "+network)
		}
		if url = strings.TrimSpace(url); url != "" {
			socials[network] = url
		}
	}

	m.Name = name
	m.Position = position
	m.Bio = p.Bio
	m.ImageURL = p.ImageURL
	m.Email = email
	m.Socials = socials
	m.Active = p.Active
	return nil
}
