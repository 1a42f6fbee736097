package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add bookings table", "add_bookings_table"},
		{"Add-Tour-Ratings", "add_tour_ratings"},
		{"ADD_BLOG_TAGS", "add_blog_tags"},
		{"add__team__socials", "add_team_socials"},
		{"Seed Tours 2025", "seed_tours_2025"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"!!! ???", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add tour reviews", "Reviews left after a completed booking")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_tour_reviews.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_tour_reviews.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add tour reviews")
	assert.Contains(t, string(up), "-- Description: Reviews left after a completed booking")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	second, err := CreateMigration(dir, "index reviews", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
}

func TestCreateMigration_ContinuesNumbering(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000009_bookings.up.sql", "000009_bookings.down.sql", "000010_posts.up.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	mf, err := CreateMigration(dir, "add media", "")
	require.NoError(t, err)
	assert.Equal(t, uint(11), mf.Version)
	assert.Equal(t, "000011_add_media.up.sql", filepath.Base(mf.UpPath))
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "???", "")
	assert.Error(t, err)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		list, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("orders by version and skips unrelated files", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"10_later.up.sql",
			"000002_catalog.up.sql",
			"000002_catalog.down.sql",
			"000001_users.up.sql",
			"notes_file.up.sql",
			"000003_blog.down.sql",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "000004_dir.up.sql"), 0o755))

		list, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []MigrationInfo{
			{Version: 1, Name: "users"},
			{Version: 2, Name: "catalog"},
			{Version: 10, Name: "later"},
		}, list)
	})
}
