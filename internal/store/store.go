// Package store persists portfolio content and visitor statistics in SQLite
// or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Zachkp/portfolio/internal/content"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// Store is the content database used by the site and the importer.
type Store interface {
	GetProfile(ctx context.Context, ownerID string) (*content.Profile, error)
	UpsertProfile(ctx context.Context, p *content.Profile) error
	PatchProfile(ctx context.Context, ownerID string, patch content.ProfilePatch) (*content.Profile, error)

	ListExperiences(ctx context.Context, ownerID string) ([]content.Experience, error)
	CreateExperience(ctx context.Context, e *content.Experience) error
	UpsertExperience(ctx context.Context, e *content.Experience) error
	UpdateExperience(ctx context.Context, e *content.Experience) error
	DeleteExperience(ctx context.Context, ownerID, id string) error

	ListProjects(ctx context.Context, ownerID string) ([]content.Project, error)
	CreateProject(ctx context.Context, p *content.Project) error
	UpsertProject(ctx context.Context, p *content.Project) error
	UpdateProject(ctx context.Context, p *content.Project) error
	DeleteProject(ctx context.Context, ownerID, id string) error

	ListCertificates(ctx context.Context, ownerID string) ([]content.Certificate, error)
	CreateCertificate(ctx context.Context, c *content.Certificate) error
	UpsertCertificate(ctx context.Context, c *content.Certificate) error
	UpdateCertificate(ctx context.Context, c *content.Certificate) error
	DeleteCertificate(ctx context.Context, ownerID, id string) error

	RecordVisit(ctx context.Context, v Visit) error
	VisitorStats(ctx context.Context, now time.Time) (*VisitorStats, error)
	PurgeVisitors(ctx context.Context, before time.Time) (int64, error)

	Migrate(ctx context.Context) error
	Close() error
}

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// SQLStore implements Store on database/sql. Queries are written with "?"
// placeholders and rebound for PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// Open connects to PostgreSQL when dsn is a postgres:// URL and otherwise
// treats dsn as a SQLite file path.
func Open(ctx context.Context, dsn string) (*SQLStore, error) {
	driver, d := "sqlite", dialectSQLite
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, d = "pgx", dialectPostgres
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s db: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s db: %w", driver, err)
	}
	if d == dialectSQLite {
		// A single connection keeps writes from racing into SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	return &SQLStore{db: db, dialect: d, now: time.Now}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

func (s *SQLStore) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullString maps "" to NULL so optional text columns stay NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
