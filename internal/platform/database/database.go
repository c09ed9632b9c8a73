package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"showcase/internal/platform/config"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// sqlitePragmas are applied to every connection; foreign_keys makes the engine
// enforce comment -> project/user references.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, driver, connStr string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case config.DriverPostgres:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	case config.DriverSQLite:
		db, err = sql.Open("sqlite", sqliteDSN(connStr))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite allows one writer; a single connection serializes writes in-process.
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

func sqliteDSN(file string) string {
	if strings.Contains(file, "?") {
		return file + "&" + sqlitePragmas
	}
	return file + "?" + sqlitePragmas
}

// Migrate applies the embedded goose migrations for driver.
func Migrate(ctx context.Context, db *sql.DB, driver string) ([]string, error) {
	var dialect goose.Dialect
	switch driver {
	case config.DriverPostgres:
		dialect = goose.DialectPostgres
	case config.DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	dir, err := fs.Sub(migrations, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("migrations for %s: %w", driver, err)
	}
	provider, err := goose.NewProvider(dialect, db, dir)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	applied := make([]string, 0, len(results))
	for _, r := range results {
		applied = append(applied, path.Base(r.Source.Path))
	}
	return applied, nil
}

// OpenAndMigrate is the usual startup path: Open followed by Migrate.
func OpenAndMigrate(ctx context.Context, driver, connStr string) (*sql.DB, []string, error) {
	db, err := Open(ctx, driver, connStr)
	if err != nil {
		return nil, nil, err
	}
	applied, err := Migrate(ctx, db, driver)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, applied, nil
}
