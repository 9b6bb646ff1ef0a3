package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteConnection(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "skillsync.db")

	db, err := NewSQLiteConnection(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	t.Run("Should create the schema", func(t *testing.T) {
		for _, table := range []string{"users", "analysis_reports"} {
			var n int
			err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n)
			require.NoError(t, err)
			assert.Equal(t, 1, n, table)
		}
	})

	t.Run("Should enable foreign keys", func(t *testing.T) {
		var on int
		require.NoError(t, db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&on))
		assert.Equal(t, 1, on)
	})

	t.Run("Should be idempotent on reopen", func(t *testing.T) {
		again, err := NewSQLiteConnection(ctx, path)
		require.NoError(t, err)
		assert.NoError(t, again.Close())
	})
}
