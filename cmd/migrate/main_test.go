package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/infrastructure/migration"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"up", "down", "steps", "goto", "version", "force", "drop", "create", "list", "seed"} {
		assert.True(t, names[want], want)
	}
}

func TestCreateAndList(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "", "--path", dir, "create", "add tour reviews", "-d", "Reviews table")
	require.NoError(t, err)
	assert.Contains(t, out, "created migration 000001")

	_, err = run(t, "", "--path", dir, "create", "index reviews")
	require.NoError(t, err)

	up, err := os.ReadFile(filepath.Join(dir, "000001_add_tour_reviews.up.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(up), "Reviews table")

	out, err = run(t, "", "--path", dir, "list")
	require.NoError(t, err)
	assert.Equal(t, "000001 add_tour_reviews\n000002 index_reviews\n", out)
}

func TestListEmpty(t *testing.T) {
	out, err := run(t, "", "--path", filepath.Join(t.TempDir(), "none"), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no migrations found")
}

func TestArgumentValidation(t *testing.T) {
	_, err := run(t, "", "steps", "0")
	assert.ErrorContains(t, err, "invalid step count")

	_, err = run(t, "", "steps", "many")
	assert.ErrorContains(t, err, "invalid step count")

	_, err = run(t, "", "goto", "-3")
	assert.Error(t, err)

	_, err = run(t, "", "force", "latest")
	assert.ErrorContains(t, err, "invalid version")

	_, err = run(t, "", "create")
	assert.Error(t, err)
}

func TestDestructiveCommandsAskFirst(t *testing.T) {
	out, err := run(t, "n\n", "drop")
	assert.ErrorIs(t, err, errAborted)
	assert.Contains(t, out, "Drop every table?")

	_, err = run(t, "\n", "down")
	assert.ErrorIs(t, err, errAborted)
}

func TestSeedMissingFile(t *testing.T) {
	_, err := run(t, "", "seed", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestPrintSeedReport(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)

	printSeedReport(root, &migration.SeedReport{
		Created: map[string]int{"tours": 3},
		Skipped: map[string]int{"tours": 1, "users": 1},
	})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "tours"))
	assert.Contains(t, lines[0], "3 created")
	assert.Contains(t, lines[1], "0 created")
}

func TestPrintStatus(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)

	printStatus(root, migration.Status{})
	printStatus(root, migration.Status{Version: 4, Applied: true})
	printStatus(root, migration.Status{Version: 3, Dirty: true, Applied: true})
	assert.Contains(t, out.String(), "no migrations applied")
	assert.Contains(t, out.String(), "version 4\n")
	assert.Contains(t, out.String(), "version 3 (dirty)")
}
