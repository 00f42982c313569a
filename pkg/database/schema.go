package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// schedule and booth_posts reference events without a foreign key: deleting an event
// leaves its children in place.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		subtitle TEXT,
		date TEXT,
		location TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS schedule (
		id {{serial}},
		event_id TEXT NOT NULL,
		title TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_event_start ON schedule (event_id, start_time)`,
	`CREATE TABLE IF NOT EXISTS booths (
		id TEXT PRIMARY KEY,
		event_id TEXT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS booth_users (
		id {{serial}},
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		booth_id TEXT,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		username TEXT,
		role TEXT NOT NULL DEFAULT 'user',
		booth_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS booth_posts (
		id {{serial}},
		event_id TEXT NOT NULL,
		booth_id TEXT,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		posted_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_booth_posts_event_posted ON booth_posts (event_id, posted_at)`,
}

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	for _, stmt := range schema {
		stmt = strings.ReplaceAll(stmt, "{{serial}}", serial)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
