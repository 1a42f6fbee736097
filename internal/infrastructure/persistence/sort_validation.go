package persistence

import (
	"strings"

	"github.com/tourbook/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// OrderClause builds a whitelisted ORDER BY expression from a filter.
// The id column is appended as a tie-breaker so pagination is stable.
func OrderClause(filter shared.Filter, allowedFields map[string]bool, defaultField string) string {
	field := ValidateSortField(filter.OrderBy, allowedFields, defaultField)
	return field + " " + ValidateSortOrder(filter.OrderDir) + ", id ASC"
}

// TourSortFields contains allowed sort fields for tours
var TourSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"title":         true,
	"price":         true,
	"duration_days": true,
	"rating_avg":    true,
	"published_at":  true,
}

// DestinationSortFields contains allowed sort fields for destinations
var DestinationSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"country":    true,
}

// AttractionSortFields contains allowed sort fields for attractions
var AttractionSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"entry_fee":  true,
}

// PostSortFields contains allowed sort fields for blog posts
var PostSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"published_at": true,
	"title":        true,
}

// BookingSortFields contains allowed sort fields for bookings
var BookingSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"travel_date":  true,
	"total_price":  true,
	"status":       true,
	"people":       true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"created_at":    true,
	"name":          true,
	"email":         true,
	"role":          true,
	"last_login_at": true,
}
