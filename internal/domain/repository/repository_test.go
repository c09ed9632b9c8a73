package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"showcase/internal/domain/model"
	"showcase/internal/platform/config"
	"showcase/internal/platform/database"
)

// newTestDB returns a migrated SQLite database that lives for the duration of the test.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := database.OpenAndMigrate(context.Background(), config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func seedUser(t *testing.T, repo UserRepository, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "hash",
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func seedProject(t *testing.T, repo ProjectRepository, p model.Project) *model.Project {
	t.Helper()
	if p.CreatorName == "" {
		p.CreatorName = "someone"
	}
	if p.Description == "" {
		p.Description = "a project"
	}
	if p.Category == "" {
		p.Category = model.DefaultCategory
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
	require.NoError(t, repo.Create(context.Background(), &p))
	return &p
}

func strPtr(s string) *string { return &s }
