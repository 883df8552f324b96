package db

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit.db")
	for range 2 {
		d, err := Open(context.Background(), path, time.Now, slog.New(slog.DiscardHandler))
		require.NoError(t, err)

		ver, err := SchemaVersion(context.Background(), d)
		require.NoError(t, err)
		assert.Equal(t, 1, ver)

		var count int
		err = d.QueryRow(`SELECT COUNT(*) FROM requests`).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		require.NoError(t, d.Close())
	}
}

func TestLoadMigrations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    fstest.MapFS
		expNames []string
		expErr   string
	}{
		{
			name: "ok/sorted",
			files: fstest.MapFS{
				"010_b.sql": {Data: []byte("SELECT 2;")},
				"002_a.sql": {Data: []byte("SELECT 1;")},
				"README":    {Data: []byte("ignored")},
			},
			expNames: []string{"002_a", "010_b"},
		},
		{
			name:   "err/missing_version",
			files:  fstest.MapFS{"init.sql": {}},
			expErr: "missing version prefix",
		},
		{
			name:   "err/invalid_version",
			files:  fstest.MapFS{"x_init.sql": {}},
			expErr: "version must be a positive number",
		},
		{
			name: "err/duplicate_version",
			files: fstest.MapFS{
				"1_a.sql":  {},
				"01_b.sql": {},
			},
			expErr: "duplicate migration version 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			migrations, err := loadMigrations(tt.files)
			if tt.expErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expErr)
				return
			}
			require.NoError(t, err)

			names := make([]string, 0, len(migrations))
			for _, m := range migrations {
				names = append(names, m.name)
			}
			assert.Equal(t, tt.expNames, names)
		})
	}
}

func TestMigrateFailureRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d, err := Open(ctx, ":memory:", time.Now, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	migrations := []*migration{{
		version: 2,
		name:    "002_broken",
		sql:     `CREATE TABLE broken (id INTEGER); INSERT INTO nope VALUES (1);`,
	}}
	err = migrate(ctx, d, migrations, slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed applying migration '002_broken'")

	ver, err := SchemaVersion(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, 1, ver)
}
