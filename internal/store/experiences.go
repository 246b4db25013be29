package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/google/uuid"
)

const experienceColumns = `id, owner_id, job_title, company_name, description, location,
	company_logo_url, icon_name, start_date, end_date, display_order, created_at, updated_at`

// ListExperiences returns the owner's experiences in display order.
func (s *SQLStore) ListExperiences(ctx context.Context, ownerID string) ([]content.Experience, error) {
	rows, err := s.query(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE owner_id = ?
		ORDER BY display_order, created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing experiences: %w", err)
	}
	defer rows.Close()

	var out []content.Experience
	for rows.Next() {
		var (
			e                     content.Experience
			desc, loc, logo, icon sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.JobTitle, &e.CompanyName, &desc, &loc, &logo, &icon,
			&e.StartDate, &e.EndDate, &e.DisplayOrder, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning experience: %w", err)
		}
		e.Description, e.Location, e.CompanyLogoURL, e.IconName = desc.String, loc.String, logo.String, icon.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing experiences: %w", err)
	}
	content.SortExperiences(out)
	return out, nil
}

// CreateExperience inserts a new experience and assigns its ID.
func (s *SQLStore) CreateExperience(ctx context.Context, e *content.Experience) error {
	now := s.now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt, e.UpdatedAt = now, now
	_, err := s.exec(ctx, `INSERT INTO experiences (`+experienceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.JobTitle, e.CompanyName, nullString(e.Description), nullString(e.Location),
		nullString(e.CompanyLogoURL), nullString(e.IconName), e.StartDate, e.EndDate, e.DisplayOrder,
		e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating experience %q: %w", e.JobTitle, err)
	}
	return nil
}

// UpsertExperience inserts the experience or, when the owner already has one
// with the same job title and company, overwrites it. e.ID is set to the
// stored row's ID.
func (s *SQLStore) UpsertExperience(ctx context.Context, e *content.Experience) error {
	now := s.now().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	err := s.queryRow(ctx, `INSERT INTO experiences (`+experienceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, job_title, company_name) DO UPDATE SET
			description = excluded.description,
			location = excluded.location,
			company_logo_url = excluded.company_logo_url,
			icon_name = excluded.icon_name,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			display_order = excluded.display_order,
			updated_at = excluded.updated_at
		RETURNING id`,
		e.ID, e.OwnerID, e.JobTitle, e.CompanyName, nullString(e.Description), nullString(e.Location),
		nullString(e.CompanyLogoURL), nullString(e.IconName), e.StartDate, e.EndDate, e.DisplayOrder,
		e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("upserting experience %q: %w", e.JobTitle, err)
	}
	return nil
}

// UpdateExperience overwrites an existing experience by ID.
func (s *SQLStore) UpdateExperience(ctx context.Context, e *content.Experience) error {
	e.UpdatedAt = s.now().UTC()
	res, err := s.exec(ctx, `UPDATE experiences SET
			job_title = ?, company_name = ?, description = ?, location = ?, company_logo_url = ?,
			icon_name = ?, start_date = ?, end_date = ?, display_order = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		e.JobTitle, e.CompanyName, nullString(e.Description), nullString(e.Location),
		nullString(e.CompanyLogoURL), nullString(e.IconName), e.StartDate, e.EndDate, e.DisplayOrder,
		e.UpdatedAt, e.ID, e.OwnerID)
	if err != nil {
		return fmt.Errorf("updating experience %s: %w", e.ID, err)
	}
	return expectAffected(res)
}

func (s *SQLStore) DeleteExperience(ctx context.Context, ownerID, id string) error {
	res, err := s.exec(ctx, `DELETE FROM experiences WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting experience %s: %w", id, err)
	}
	return expectAffected(res)
}
