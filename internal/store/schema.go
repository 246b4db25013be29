package store

import (
	"context"
	"fmt"
)

// Columns holding JSON are TEXT in both dialects; dates are DATE in
// PostgreSQL and ISO text in SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS about_me (
		owner_id          TEXT PRIMARY KEY,
		bio               TEXT,
		contact_email     TEXT,
		github_url        TEXT,
		linkedin_url      TEXT,
		profile_image_url TEXT,
		resume_url        TEXT,
		quote             TEXT,
		hobbies           TEXT,
		skillset          TEXT,
		tools             TEXT,
		updated_at        TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS experiences (
		id               TEXT PRIMARY KEY,
		owner_id         TEXT NOT NULL,
		job_title        TEXT NOT NULL,
		company_name     TEXT NOT NULL,
		description      TEXT,
		location         TEXT,
		company_logo_url TEXT,
		icon_name        TEXT,
		start_date       DATE,
		end_date         DATE,
		display_order    INTEGER NOT NULL DEFAULT 0,
		created_at       TIMESTAMP,
		updated_at       TIMESTAMP,
		UNIQUE (owner_id, job_title, company_name)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id               TEXT PRIMARY KEY,
		owner_id         TEXT NOT NULL,
		title            TEXT NOT NULL,
		description      TEXT,
		image_url        TEXT,
		project_link     TEXT,
		source_code_link TEXT,
		technologies     TEXT,
		display_order    INTEGER NOT NULL DEFAULT 0,
		created_at       TIMESTAMP,
		updated_at       TIMESTAMP,
		UNIQUE (owner_id, title)
	)`,
	`CREATE TABLE IF NOT EXISTS certificates (
		id                    TEXT PRIMARY KEY,
		owner_id              TEXT NOT NULL,
		title                 TEXT NOT NULL,
		issuing_organization  TEXT,
		issue_date            DATE,
		credential_id         TEXT,
		credential_url        TEXT,
		certificate_image_url TEXT,
		display_order         INTEGER NOT NULL DEFAULT 0,
		created_at            TIMESTAMP,
		updated_at            TIMESTAMP,
		UNIQUE (owner_id, title)
	)`,
	`CREATE TABLE IF NOT EXISTS visitors (
		id         TEXT PRIMARY KEY,
		hashed_ip  TEXT NOT NULL,
		user_agent TEXT,
		path       TEXT,
		visited_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS visitors_visited_at ON visitors (visited_at)`,
}

// Migrate creates any missing tables.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
