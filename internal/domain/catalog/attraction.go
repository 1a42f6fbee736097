package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/shared"
)

// AttractionStatus represents the visibility of an attraction
type AttractionStatus string

const (
	AttractionStatusActive   AttractionStatus = "active"
	AttractionStatusInactive AttractionStatus = "inactive"
)

// Attraction is a point of interest at a destination
type Attraction struct {
	shared.BaseAggregateRoot
	Name          string           `gorm:"type:varchar(150);not null"`
	Slug          string           `gorm:"type:varchar(170);not null;uniqueIndex"`
	DestinationID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Description   string           `gorm:"type:text"`
	ImageURL      string           `gorm:"type:varchar(500)"`
	EntryFee      decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Status        AttractionStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (Attraction) TableName() string {
	return "attractions"
}

// AttractionDetails carries the editable fields of an attraction
type AttractionDetails struct {
	Name          string
	Slug          string
	DestinationID uuid.UUID
	Description   string
	ImageURL      string
	EntryFee      decimal.Decimal
}

// NewAttraction creates a new active attraction
func NewAttraction(d AttractionDetails) (*Attraction, error) {
	a := &Attraction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            AttractionStatusActive,
	}
	if err := a.set(d); err != nil {
		return nil, err
	}
	return a, nil
}

// Update changes the attraction details
func (a *Attraction) Update(d AttractionDetails) error {
	if err := a.set(d); err != nil {
		return err
	}
	a.MarkModified()
	return nil
}

// Activate makes the attraction visible
func (a *Attraction) Activate() error {
	if a.Status == AttractionStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Attraction is already active")
	}
	a.Status = AttractionStatusActive
	a.MarkModified()
	return nil
}

// Deactivate hides the attraction
func (a *Attraction) Deactivate() error {
	if a.Status == AttractionStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Attraction is already inactive")
	}
	a.Status = AttractionStatusInactive
	a.MarkModified()
	return nil
}

func (a *Attraction) set(d AttractionDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Attraction name cannot be empty")
	}
	if d.DestinationID == uuid.Nil {
		return shared.NewDomainError("INVALID_DESTINATION", "Destination is required")
	}
	if d.EntryFee.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Entry fee cannot be negative")
	}
	slug, err := resolveSlug(name, d.Slug)
	if err != nil {
		return err
	}

	a.Name = name
	a.Slug = slug
	a.DestinationID = d.DestinationID
	a.Description = d.Description
	a.ImageURL = d.ImageURL
	a.EntryFee = d.EntryFee
	return nil
}
