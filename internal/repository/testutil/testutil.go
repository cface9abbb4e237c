// Package testutil opens throwaway databases and seeds rows for repository
// and service tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"transcatalog/internal/db"
	"transcatalog/internal/model"
	"transcatalog/internal/snowflake"
)

// NewTestDB returns a migrated on-disk database that is removed with the test.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "catalog-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// SeedTranslation inserts a row directly, bypassing the repository.
// createdAt defaults to now.
func SeedTranslation(t testing.TB, conn *sql.DB, tr model.Translation) int64 {
	t.Helper()
	id := tr.ID
	if id == 0 {
		id = snowflake.NextID()
	}
	created := tr.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	var tag any
	if tr.Tag != nil {
		tag = *tr.Tag
	}
	ts := created.UTC().Format("2006-01-02T15:04:05.000000000Z")
	_, err := conn.Exec(
		`INSERT INTO translations (id, key, locale, content, tag, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, tr.Key, tr.Locale, tr.Content, tag, ts, ts,
	)
	require.NoError(t, err)
	return id
}

// StringPtr is a convenience for optional fields.
func StringPtr(s string) *string { return &s }
