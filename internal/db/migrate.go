package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. The statement list is append-only and
// every statement is idempotent, so the full list re-runs on every startup.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements re-run against an up-to-date schema.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT 'planning'
		                  CHECK(status IN ('planning','active','in-progress','on-hold','completed','cancelled','scheduled')),
		budget            REAL NOT NULL DEFAULT 0 CHECK(budget >= 0),
		actual_budget     REAL NOT NULL DEFAULT 0 CHECK(actual_budget >= 0),
		estimated_budget  REAL NOT NULL DEFAULT 0 CHECK(estimated_budget >= 0),
		actual_hours      REAL NOT NULL DEFAULT 0,
		progress          INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
		parent_project_id TEXT REFERENCES projects(id) ON DELETE SET NULL,
		start_date        TEXT,
		end_date          TEXT,
		tasks             TEXT NOT NULL DEFAULT '[]',
		task_rev          INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_parent ON projects(parent_project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)`,

	`CREATE TABLE IF NOT EXISTS time_entries (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		task_id     TEXT NOT NULL,
		employee    TEXT NOT NULL,
		hours       REAL NOT NULL CHECK(hours > 0),
		entry_date  TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_entries_project ON time_entries(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_task ON time_entries(project_id, task_id)`,

	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'member'
		           CHECK(role IN ('admin','manager','member')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS rooms (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		floor      TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'pending'
		           CHECK(status IN ('pending','in-progress','completed')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_rooms_project ON rooms(project_id)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id          TEXT PRIMARY KEY,
		actor       TEXT NOT NULL DEFAULT '',
		action      TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id   TEXT NOT NULL,
		detail      TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_log(created_at)`,
}
