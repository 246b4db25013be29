package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/google/uuid"
)

const projectColumns = `id, owner_id, title, description, image_url, project_link, source_code_link,
	technologies, display_order, created_at, updated_at`

func (s *SQLStore) ListProjects(ctx context.Context, ownerID string) ([]content.Project, error) {
	rows, err := s.query(ctx, `SELECT `+projectColumns+` FROM projects WHERE owner_id = ?
		ORDER BY display_order, created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var out []content.Project
	for rows.Next() {
		var (
			p                          content.Project
			desc, img, link, src, tech sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &desc, &img, &link, &src, &tech,
			&p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		p.Description, p.ImageURL, p.ProjectLink, p.SourceCodeLink = desc.String, img.String, link.String, src.String
		if err := decodeJSON(tech, &p.Technologies); err != nil {
			return nil, fmt.Errorf("decoding technologies of %s: %w", p.ID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return out, nil
}

func (s *SQLStore) CreateProject(ctx context.Context, p *content.Project) error {
	tech, err := encodeJSON(p.Technologies)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err = s.exec(ctx, `INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Title, nullString(p.Description), nullString(p.ImageURL), nullString(p.ProjectLink),
		nullString(p.SourceCodeLink), tech, p.DisplayOrder, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating project %q: %w", p.Title, err)
	}
	return nil
}

// UpsertProject inserts the project or overwrites the owner's project with
// the same title. p.ID is set to the stored row's ID.
func (s *SQLStore) UpsertProject(ctx context.Context, p *content.Project) error {
	tech, err := encodeJSON(p.Technologies)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	err = s.queryRow(ctx, `INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, title) DO UPDATE SET
			description = excluded.description,
			image_url = excluded.image_url,
			project_link = excluded.project_link,
			source_code_link = excluded.source_code_link,
			technologies = excluded.technologies,
			display_order = excluded.display_order,
			updated_at = excluded.updated_at
		RETURNING id`,
		p.ID, p.OwnerID, p.Title, nullString(p.Description), nullString(p.ImageURL), nullString(p.ProjectLink),
		nullString(p.SourceCodeLink), tech, p.DisplayOrder, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("upserting project %q: %w", p.Title, err)
	}
	return nil
}

func (s *SQLStore) UpdateProject(ctx context.Context, p *content.Project) error {
	tech, err := encodeJSON(p.Technologies)
	if err != nil {
		return err
	}
	p.UpdatedAt = s.now().UTC()
	res, err := s.exec(ctx, `UPDATE projects SET
			title = ?, description = ?, image_url = ?, project_link = ?, source_code_link = ?,
			technologies = ?, display_order = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		p.Title, nullString(p.Description), nullString(p.ImageURL), nullString(p.ProjectLink),
		nullString(p.SourceCodeLink), tech, p.DisplayOrder, p.UpdatedAt, p.ID, p.OwnerID)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", p.ID, err)
	}
	return expectAffected(res)
}

func (s *SQLStore) DeleteProject(ctx context.Context, ownerID, id string) error {
	res, err := s.exec(ctx, `DELETE FROM projects WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	return expectAffected(res)
}
