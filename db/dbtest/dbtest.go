// Package dbtest opens a throwaway ledger for tests: gorm over pure-Go SQLite in a temp directory.
package dbtest

import (
	"path/filepath"
	"testing"

	"gatepass/db"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
)

// Create migrated Queries backed by a fresh SQLite file. The pool is pinned to a single connection so concurrent
// tests exercise the version check rather than SQLite's own file locking
func NewQueries(t testing.TB) *db.Queries {
	t.Helper()

	queries := db.NewQueries()
	require.NoError(t, queries.Open(sqlite.Open(filepath.Join(t.TempDir(), "gatepass.db"))))

	sqlDB, err := queries.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, queries.AutoMigration())
	return queries
}
