// Package db opens the single-file SQLite database and applies the schema.
// Migrations are additive: new columns are added behind PRAGMA table_info
// checks so existing databases upgrade in place.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/go-libsql"
)

// Open connects to the database at path, creating the parent directory and
// the file as needed, and applies the schema. Use ":memory:" for tests.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := "file:" + path
	if path == ":memory:" {
		dsn = ":memory:"
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS scenes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS characters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		appearance TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'action',
		tags TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS style_profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		style_preset TEXT NOT NULL DEFAULT '',
		composition TEXT NOT NULL DEFAULT '',
		lighting TEXT NOT NULL DEFAULT '',
		mood TEXT NOT NULL DEFAULT '',
		camera TEXT NOT NULL DEFAULT '',
		post_processing TEXT NOT NULL DEFAULT '',
		ai_style TEXT NOT NULL DEFAULT '',
		is_default BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS templates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL DEFAULT '',
		template_text TEXT NOT NULL,
		scene_id INTEGER,
		character_ids TEXT NOT NULL DEFAULT '[]',
		event_ids TEXT NOT NULL DEFAULT '[]',
		ai_style TEXT NOT NULL DEFAULT '',
		input_snapshot TEXT,
		style_profile_id INTEGER,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL,
		original_name TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		template_id INTEGER,
		is_active BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_created ON templates(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_images_active ON images(is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_events_type ON events(type)`,
}

// Columns added after the first release; applied only when missing.
var additiveColumns = []struct {
	table      string
	column     string
	definition string
}{
	{"templates", "event_ids", "TEXT NOT NULL DEFAULT '[]'"},
	{"templates", "input_snapshot", "TEXT"},
	{"templates", "style_profile_id", "INTEGER"},
}

// Migrate creates missing tables and adds missing columns.
func Migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	for _, add := range additiveColumns {
		exists, err := columnExists(ctx, conn, add.table, add.column)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", add.table, add.column, add.definition)
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			// Another process may have added it between check and alter.
			if strings.Contains(err.Error(), "duplicate column") {
				continue
			}
			return fmt.Errorf("failed to add column %s.%s: %w", add.table, add.column, err)
		}
	}
	return nil
}

func columnExists(ctx context.Context, conn *sql.DB, table, column string) (bool, error) {
	rows, err := conn.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name       string
			ctype      string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &defaultVal, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
