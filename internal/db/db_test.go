package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
}

func tableExists(t *testing.T, dsn string) bool {
	t.Helper()
	database, err := InitDB(dsn)
	require.NoError(t, err)
	defer database.Close()

	var count int
	err = database.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='users'")
	require.NoError(t, err)
	return count == 1
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	dsn := openTestDB(t)
	database, err := InitDB(dsn)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database.DB))
	require.NoError(t, RunMigrations(database.DB))

	assert.True(t, tableExists(t, dsn))
}

func TestRollbackMigration(t *testing.T) {
	dsn := openTestDB(t)
	database, err := InitDB(dsn)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database.DB))
	require.NoError(t, RollbackMigration(database.DB))

	assert.False(t, tableExists(t, dsn))
}
