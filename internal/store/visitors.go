package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Visit is one tracked page view. The client IP is stored hashed.
type Visit struct {
	ID        string    `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	VisitedAt time.Time `json:"visited_at"`
}

type PathCount struct {
	Path   string `json:"path"`
	Visits int64  `json:"visits"`
}

type VisitorStats struct {
	TotalVisitors    int64       `json:"total_visitors"`
	UniqueVisitors   int64       `json:"unique_visitors"`
	VisitorsToday    int64       `json:"visitors_today"`
	VisitorsThisWeek int64       `json:"visitors_this_week"`
	TopPaths         []PathCount `json:"top_paths"`
	RecentVisitors   []Visit     `json:"recent_visitors"`
}

func (s *SQLStore) RecordVisit(ctx context.Context, v Visit) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.VisitedAt.IsZero() {
		v.VisitedAt = s.now()
	}
	_, err := s.exec(ctx, `INSERT INTO visitors (id, hashed_ip, user_agent, path, visited_at)
		VALUES (?, ?, ?, ?, ?)`, v.ID, v.HashedIP, v.UserAgent, v.Path, v.VisitedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// VisitorStats summarises tracked visits relative to now.
func (s *SQLStore) VisitorStats(ctx context.Context, now time.Time) (*VisitorStats, error) {
	now = now.UTC()
	stats := &VisitorStats{}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, []any{today}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, []any{weekAgo}},
	}
	for _, c := range counts {
		if err := s.queryRow(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("counting visitors: %w", err)
		}
	}

	rows, err := s.query(ctx, `SELECT path, COUNT(*) AS visits FROM visitors
		GROUP BY path ORDER BY visits DESC, path LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("loading top paths: %w", err)
	}
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Visits); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning top path: %w", err)
		}
		stats.TopPaths = append(stats.TopPaths, pc)
	}
	rows.Close()

	rows, err = s.query(ctx, `SELECT id, hashed_ip, user_agent, path, visited_at FROM visitors
		ORDER BY visited_at DESC LIMIT 50`)
	if err != nil {
		return nil, fmt.Errorf("loading recent visitors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.VisitedAt); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		stats.RecentVisitors = append(stats.RecentVisitors, v)
	}
	return stats, rows.Err()
}

// PurgeVisitors deletes visits older than before and reports how many went.
func (s *SQLStore) PurgeVisitors(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM visitors WHERE visited_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("purging visitors: %w", err)
	}
	return res.RowsAffected()
}
