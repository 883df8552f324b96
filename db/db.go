package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"strings"
	"time"

	//nolint:revive,nolintlint // Idiomatic way of loading DB libraries.
	_ "github.com/glebarez/go-sqlite"

	"go.hackfix.me/strand/db/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps sql.DB with additional context and migration functionality.
type DB struct {
	*sql.DB
	ctx     context.Context
	timeNow func() time.Time
	path    string
}

var _ types.Querier = (*DB)(nil)

// Open creates and configures a new SQLite database connection, and applies
// any pending schema migrations.
func Open(ctx context.Context, path string, timeNow func() time.Time, logger *slog.Logger) (*DB, error) {
	sqliteDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed opening SQLite database: %w", err)
	}

	if strings.Contains(path, "mode=memory") || strings.Contains(path, ":memory:") {
		// Every new connection to an in-memory database opens an empty database,
		// so keep the connection open.
		// See https://github.com/mattn/go-sqlite3#faq
		sqliteDB.SetMaxOpenConns(1)
		sqliteDB.SetMaxIdleConns(1)
		sqliteDB.SetConnMaxLifetime(time.Duration(math.Inf(1)))
	}

	d := &DB{DB: sqliteDB, ctx: ctx, path: path, timeNow: timeNow}

	if _, err = d.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed enabling foreign key enforcement: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed getting migrations directory: %w", err)
	}
	migrations, err := loadMigrations(migrationsDir)
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	dblogger := logger.With("component", "db", "path", path)
	if err = migrate(ctx, d, migrations, dblogger); err != nil {
		_ = d.Close()
		return nil, err
	}

	return d, nil
}

// NewContext returns the main database context.
func (d *DB) NewContext() context.Context {
	return d.ctx
}

// TimeNow returns the current system time.
func (d *DB) TimeNow() time.Time {
	return d.timeNow()
}
