package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptionFromFilename(t *testing.T) {
	cases := map[string]string{
		"2026-03-01-001-create-trainers.sql":        "create trainers",
		"2026-03-01-004-create-nutrition-plans.sql": "create nutrition plans",
		"seed.sql": "seed",
	}
	for in, want := range cases {
		assert.Equal(t, want, descriptionFromFilename(in), in)
	}
}

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2026-03-02-001-b.sql", "2026-03-01-001-a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "2026-03-01-001-a.sql", filepath.Base(files[0]))
	assert.Equal(t, "2026-03-02-001-b.sql", filepath.Base(files[1]))
}

func TestMigrationFiles_EmptyDir(t *testing.T) {
	_, err := migrationFiles(t.TempDir())
	assert.Error(t, err)
}
