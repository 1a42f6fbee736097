package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tourbook/backend/internal/domain/shared"
)

func TestValidateSortOrder(t *testing.T) {
	for in, want := range map[string]string{
		"":                         "DESC",
		"asc":                      "ASC",
		"  ASC ":                   "ASC",
		"desc":                     "DESC",
		"ascending":                "DESC",
		"ASC; DROP TABLE tours;--": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(in), "input %q", in)
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("whitelisted column", func(t *testing.T) {
		assert.Equal(t, "price", ValidateSortField(" price ", TourSortFields, "created_at"))
		assert.Equal(t, "travel_date", ValidateSortField("travel_date", BookingSortFields, "created_at"))
	})

	t.Run("columns are case sensitive", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("PRICE", TourSortFields, "created_at"))
	})

	t.Run("columns outside the whitelist fall back", func(t *testing.T) {
		for _, in := range []string{
			"",
			"password_hash",
			"price; DROP TABLE bookings;--",
			"price' OR '1'='1",
			"price, (SELECT password_hash FROM users)",
			"CASE WHEN 1=1 THEN price ELSE title END",
			"price/**/;DROP TABLE tours",
		} {
			assert.Equal(t, "created_at", ValidateSortField(in, TourSortFields, "created_at"), "input %q", in)
		}
	})

	t.Run("empty default passes through", func(t *testing.T) {
		assert.Empty(t, ValidateSortField("nope", PostSortFields, ""))
	})
}

func TestSortFieldWhitelists(t *testing.T) {
	for name, fields := range map[string]map[string]bool{
		"tours":        TourSortFields,
		"destinations": DestinationSortFields,
		"attractions":  AttractionSortFields,
		"posts":        PostSortFields,
		"bookings":     BookingSortFields,
		"users":        UserSortFields,
	} {
		assert.True(t, fields["created_at"], "%s should sort by created_at", name)
		assert.False(t, fields["password_hash"], "%s exposes password_hash", name)
	}
}

func TestOrderClause(t *testing.T) {
	f := shared.Filter{OrderBy: "price", OrderDir: "asc"}
	assert.Equal(t, "price ASC, id ASC", OrderClause(f, TourSortFields, "created_at"))

	f = shared.Filter{OrderBy: "password_hash"}
	assert.Equal(t, "created_at DESC, id ASC", OrderClause(f, UserSortFields, "created_at"))
}
