package db

import (
	"database/sql"
	"fmt"
)

// Base schema - uses Snowflake IDs (no AUTOINCREMENT).
// (key, locale) is deliberately not unique.
const baseSchema = `
CREATE TABLE IF NOT EXISTS translations (
  id INTEGER PRIMARY KEY,
  key TEXT NOT NULL,
  locale TEXT NOT NULL,
  content TEXT NOT NULL DEFAULT '',
  tag TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_translations_locale ON translations(locale, id);
CREATE INDEX IF NOT EXISTS idx_translations_tag ON translations(tag);
CREATE INDEX IF NOT EXISTS idx_translations_created ON translations(created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	// Migration 1: composite index backing tag-filtered search within a locale
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_translations_locale_tag ON translations(locale, tag)`); err != nil {
		return fmt.Errorf("create idx_translations_locale_tag: %w", err)
	}

	return nil
}
