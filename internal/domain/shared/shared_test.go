package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"diacritics", "Café de Flore, Paris!", "cafe-de-flore-paris"},
		{"repeated separators", "  Bali -- Ubud   Trek ", "bali-ubud-trek"},
		{"digits kept", "7 Days in Kyoto", "7-days-in-kyoto"},
		{"non latin dropped", "Tour 東京", "tour"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("machu-picchu-trek"))
	assert.False(t, IsValidSlug("Machu Picchu"))
	assert.False(t, IsValidSlug(""))
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, 41, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(41), p.Total)

	p = NewPaginated([]int{}, 40, 1, 20)
	assert.Equal(t, 2, p.TotalPages)

	p = NewPaginated([]int{}, 10, 1, 0)
	assert.Equal(t, 0, p.TotalPages)
}

func TestFilter_Offset(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, 0, f.Offset())
	f.Page = 3
	assert.Equal(t, 40, f.Offset())
	f.Page = 0
	assert.Equal(t, 0, f.Offset())
}

func TestFilter_WithDoesNotMutateOriginal(t *testing.T) {
	f := DefaultFilter()
	g := f.With("status", "paid")
	assert.Equal(t, "paid", g.Filters["status"])
	_, ok := f.Filters["status"]
	assert.False(t, ok)
}

func TestDomainError_Is(t *testing.T) {
	wrapped := fmt.Errorf("loading tour: %w", NewDomainError("NOT_FOUND", "tour not found"))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrInvalidState))
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.Equal(t, 1, root.GetVersion())

	evt := NewBaseDomainEvent("TestEvent", "Test", root.ID)
	root.AddDomainEvent(&evt)
	assert.Len(t, root.GetDomainEvents(), 1)
	assert.Equal(t, "TestEvent", root.GetDomainEvents()[0].EventType())

	root.ClearDomainEvents()
	assert.Empty(t, root.GetDomainEvents())

	before := root.UpdatedAt
	root.MarkModified()
	assert.Equal(t, 2, root.GetVersion())
	assert.False(t, root.UpdatedAt.Before(before))
}
