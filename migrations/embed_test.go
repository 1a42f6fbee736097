package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryUpHasDown(t *testing.T) {
	ups, err := fs.Glob(FS, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(FS, down)
		assert.NoError(t, err, "missing rollback for %s", up)
	}
}

func TestSchemaCoversAggregates(t *testing.T) {
	var all strings.Builder
	ups, err := fs.Glob(FS, "*.up.sql")
	require.NoError(t, err)
	for _, up := range ups {
		b, err := fs.ReadFile(FS, up)
		require.NoError(t, err)
		all.Write(b)
	}

	for _, table := range []string{
		"users", "team_members", "categories", "destinations",
		"attractions", "tours", "itinerary_days", "blog_posts", "bookings",
		"booking_order_sequences",
	} {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}
