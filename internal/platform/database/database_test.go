package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showcase/internal/platform/config"
)

func TestOpenAndMigrate_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "showcase.db")

	db, applied, err := OpenAndMigrate(ctx, config.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	assert.Equal(t, []string{"00001_init.sql"}, applied)

	for _, table := range []string{"users", "projects", "votes", "comments"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	// A second run is a no-op.
	applied, err = Migrate(ctx, db, config.DriverSQLite)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	assert.Error(t, err)

	_, err = Migrate(context.Background(), nil, "oracle")
	assert.Error(t, err)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?"+sqlitePragmas, sqliteDSN("a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&"+sqlitePragmas, sqliteDSN("file:a.db?mode=rwc"))
}

func TestMigrations_TextColumnsAreUnbounded(t *testing.T) {
	for _, name := range []string{"migrations/postgres/00001_init.sql", "migrations/sqlite/00001_init.sql"} {
		body, err := migrations.ReadFile(name)
		require.NoError(t, err, name)
		assert.NotContains(t, strings.ToUpper(string(body)), "VARCHAR", name)
	}
}
