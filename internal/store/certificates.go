package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/google/uuid"
)

const certificateColumns = `id, owner_id, title, issuing_organization, issue_date, credential_id,
	credential_url, certificate_image_url, display_order, created_at, updated_at`

// ListCertificates orders by display order, then most recently issued.
func (s *SQLStore) ListCertificates(ctx context.Context, ownerID string) ([]content.Certificate, error) {
	rows, err := s.query(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE owner_id = ?
		ORDER BY display_order, issue_date DESC, created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing certificates: %w", err)
	}
	defer rows.Close()

	var out []content.Certificate
	for rows.Next() {
		var (
			c                     content.Certificate
			org, credID, url, img sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Title, &org, &c.IssueDate, &credID, &url, &img,
			&c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning certificate: %w", err)
		}
		c.IssuingOrganization, c.CredentialID, c.CredentialURL, c.CertificateImageURL = org.String, credID.String, url.String, img.String
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing certificates: %w", err)
	}
	return out, nil
}

func (s *SQLStore) CreateCertificate(ctx context.Context, c *content.Certificate) error {
	now := s.now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := s.exec(ctx, `INSERT INTO certificates (`+certificateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Title, nullString(c.IssuingOrganization), c.IssueDate, nullString(c.CredentialID),
		nullString(c.CredentialURL), nullString(c.CertificateImageURL), c.DisplayOrder, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating certificate %q: %w", c.Title, err)
	}
	return nil
}

// UpsertCertificate inserts the certificate or overwrites the owner's
// certificate with the same title.
func (s *SQLStore) UpsertCertificate(ctx context.Context, c *content.Certificate) error {
	now := s.now().UTC()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	err := s.queryRow(ctx, `INSERT INTO certificates (`+certificateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, title) DO UPDATE SET
			issuing_organization = excluded.issuing_organization,
			issue_date = excluded.issue_date,
			credential_id = excluded.credential_id,
			credential_url = excluded.credential_url,
			certificate_image_url = excluded.certificate_image_url,
			display_order = excluded.display_order,
			updated_at = excluded.updated_at
		RETURNING id`,
		c.ID, c.OwnerID, c.Title, nullString(c.IssuingOrganization), c.IssueDate, nullString(c.CredentialID),
		nullString(c.CredentialURL), nullString(c.CertificateImageURL), c.DisplayOrder, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("upserting certificate %q: %w", c.Title, err)
	}
	return nil
}

func (s *SQLStore) UpdateCertificate(ctx context.Context, c *content.Certificate) error {
	c.UpdatedAt = s.now().UTC()
	res, err := s.exec(ctx, `UPDATE certificates SET
			title = ?, issuing_organization = ?, issue_date = ?, credential_id = ?, credential_url = ?,
			certificate_image_url = ?, display_order = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		c.Title, nullString(c.IssuingOrganization), c.IssueDate, nullString(c.CredentialID),
		nullString(c.CredentialURL), nullString(c.CertificateImageURL), c.DisplayOrder, c.UpdatedAt, c.ID, c.OwnerID)
	if err != nil {
		return fmt.Errorf("updating certificate %s: %w", c.ID, err)
	}
	return expectAffected(res)
}

func (s *SQLStore) DeleteCertificate(ctx context.Context, ownerID, id string) error {
	res, err := s.exec(ctx, `DELETE FROM certificates WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting certificate %s: %w", id, err)
	}
	return expectAffected(res)
}
