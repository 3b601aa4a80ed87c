package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.db")

	assert.True(t, sqliteMissing(path))

	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.False(t, sqliteMissing(path))
}

func TestNewMigratesSqlite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "database.db")

	// Pre-create the file so the docker volume guard can't interfere
	// when the tests themselves run in a container
	require.NoError(t, os.WriteFile(dsn, nil, 0o644))

	viper.Set("database.driver", "sqlite")
	viper.Set("database.dsn", dsn)

	db, err := New()
	require.NoError(t, err)

	for _, table := range []string{"movies", "session_ledgers", "verify_tokens"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}
}
