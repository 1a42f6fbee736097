package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/tourbook/backend/internal/domain/shared"
)

// Category groups tours by theme, e.g. "Adventure" or "Cultural"
type Category struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new tour category
func NewCategory(name, slug, description string) (*Category, error) {
	c := &Category{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := c.set(name, slug, description); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the category details
func (c *Category) Update(name, slug, description string) error {
	if err := c.set(name, slug, description); err != nil {
		return err
	}
	c.MarkModified()
	return nil
}

func (c *Category) set(name, slug, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	slug, err := resolveSlug(name, slug)
	if err != nil {
		return err
	}
	c.Name = name
	c.Slug = slug
	c.Description = description
	return nil
}
