package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/tourbook/backend/internal/domain/shared"
)

const maxDestinationNameLength = 100

// Destination is a place tours and attractions belong to
type Destination struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Country     string `gorm:"type:varchar(100)"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"type:varchar(500)"`
	Featured    bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Destination) TableName() string {
	return "destinations"
}

// NewDestination creates a new destination
func NewDestination(name, slug, country, description, imageURL string) (*Destination, error) {
	d := &Destination{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := d.set(name, slug, country, description, imageURL); err != nil {
		return nil, err
	}
	return d, nil
}

// Update changes the destination details
func (d *Destination) Update(name, slug, country, description, imageURL string) error {
	if err := d.set(name, slug, country, description, imageURL); err != nil {
		return err
	}
	d.MarkModified()
	return nil
}

// SetFeatured toggles the destination on the home page
func (d *Destination) SetFeatured(featured bool) {
	d.Featured = featured
	d.MarkModified()
}

func (d *Destination) set(name, slug, country, description, imageURL string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Destination name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxDestinationNameLength {
		return shared.NewDomainError("INVALID_NAME", "Destination name cannot exceed 100 characters")
	}
	slug, err := resolveSlug(name, slug)
	if err != nil {
		return err
	}

	d.Name = name
	d.Slug = slug
	d.Country = strings.TrimSpace(country)
	d.Description = description
	d.ImageURL = imageURL
	return nil
}

// resolveSlug validates an explicit slug or derives one from the name
func resolveSlug(name, slug string) (string, error) {
	if slug == "" {
		slug = shared.Slugify(name)
		if slug == "" {
			return "", shared.NewDomainError("INVALID_SLUG", "A slug cannot be derived from the name")
		}
		return slug, nil
	}
	if !shared.IsValidSlug(slug) {
		return "", shared.NewDomainError("INVALID_SLUG", "Slug may only contain lowercase letters, digits and dashes")
	}
	return slug, nil
}
