package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"
)

type migration struct {
	version int
	name    string
	sql     string
}

// loadMigrations reads the SQL migration files from dir. File names must start
// with a numeric version followed by an underscore, e.g. 001_requests.sql.
func loadMigrations(dir fs.FS) ([]*migration, error) {
	files, err := fs.Glob(dir, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed listing migration files: %w", err)
	}

	migrations := make([]*migration, 0, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".sql")
		verStr, _, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("invalid migration file name '%s': missing version prefix", f)
		}
		ver, err := strconv.Atoi(verStr)
		if err != nil || ver <= 0 {
			return nil, fmt.Errorf("invalid migration file name '%s': version must be a positive number", f)
		}

		data, err := fs.ReadFile(dir, f)
		if err != nil {
			return nil, fmt.Errorf("failed reading migration file '%s': %w", f, err)
		}

		migrations = append(migrations, &migration{version: ver, name: name, sql: string(data)})
	}

	slices.SortFunc(migrations, func(a, b *migration) int { return a.version - b.version })
	for i := 1; i < len(migrations); i++ {
		if migrations[i].version == migrations[i-1].version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].version)
		}
	}

	return migrations, nil
}

// migrate applies all migrations newer than the current schema version. Each
// migration runs in its own transaction.
func migrate(ctx context.Context, d *DB, migrations []*migration, logger *slog.Logger) error {
	_, err := d.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _meta (
		id             INTEGER PRIMARY KEY CHECK (id = 1),
		schema_version INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed creating _meta table: %w", err)
	}

	_, err = d.ExecContext(ctx, `INSERT OR IGNORE INTO _meta (id, schema_version) VALUES (1, 0)`)
	if err != nil {
		return fmt.Errorf("failed inserting into _meta: %w", err)
	}

	current, err := SchemaVersion(ctx, d)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		logger.Debug("applying migration", "name", m.name)
		if err = applyMigration(ctx, d, m); err != nil {
			return fmt.Errorf("failed applying migration '%s': %w", m.name, err)
		}
	}

	return nil
}

func applyMigration(ctx context.Context, d *DB, m *migration) (rerr error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed starting transaction: %w", err)
	}
	defer func() {
		if rerr != nil {
			rerr = errors.Join(rerr, tx.Rollback())
		}
	}()

	if _, err = tx.ExecContext(ctx, m.sql); err != nil {
		return err //nolint:wrapcheck // Wrapped by the caller.
	}
	if _, err = tx.ExecContext(ctx, `UPDATE _meta SET schema_version = ?`, m.version); err != nil {
		return err //nolint:wrapcheck // Wrapped by the caller.
	}

	return tx.Commit() //nolint:wrapcheck // Wrapped by the caller.
}

// SchemaVersion returns the version of the latest migration applied to the
// database.
func SchemaVersion(ctx context.Context, d *DB) (int, error) {
	var version int
	err := d.QueryRowContext(ctx, `SELECT schema_version FROM _meta`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed reading schema version: %w", err)
	}

	return version, nil
}
