package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Zachkp/portfolio/internal/content"
)

// GetProfile returns the owner's profile or ErrNotFound.
func (s *SQLStore) GetProfile(ctx context.Context, ownerID string) (*content.Profile, error) {
	var (
		p                                       content.Profile
		bio, email, github, linkedin, img, resu sql.NullString
		quote, hobbies, skillset, tools         sql.NullString
		updated                                 sql.NullTime
	)
	err := s.queryRow(ctx, `
		SELECT owner_id, bio, contact_email, github_url, linkedin_url, profile_image_url,
		       resume_url, quote, hobbies, skillset, tools, updated_at
		FROM about_me WHERE owner_id = ?`, ownerID).
		Scan(&p.OwnerID, &bio, &email, &github, &linkedin, &img, &resu, &quote, &hobbies, &skillset, &tools, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile for %s: %w", ownerID, err)
	}

	p.Bio, p.ContactEmail, p.GithubURL = bio.String, email.String, github.String
	p.LinkedinURL, p.ProfileImageURL, p.ResumeURL = linkedin.String, img.String, resu.String
	p.UpdatedAt = updated.Time
	if err := decodeJSON(quote, &p.Quote); err != nil {
		return nil, fmt.Errorf("decoding quote: %w", err)
	}
	if err := decodeJSON(hobbies, &p.Hobbies); err != nil {
		return nil, fmt.Errorf("decoding hobbies: %w", err)
	}
	if err := decodeJSON(skillset, &p.Skillset); err != nil {
		return nil, fmt.Errorf("decoding skillset: %w", err)
	}
	if err := decodeJSON(tools, &p.Tools); err != nil {
		return nil, fmt.Errorf("decoding tools: %w", err)
	}
	return &p, nil
}

// UpsertProfile inserts or replaces the owner's profile.
func (s *SQLStore) UpsertProfile(ctx context.Context, p *content.Profile) error {
	quote, err := encodeJSON(p.Quote)
	if err != nil {
		return err
	}
	hobbies, err := encodeJSON(p.Hobbies)
	if err != nil {
		return err
	}
	skillset, err := encodeJSON(p.Skillset)
	if err != nil {
		return err
	}
	tools, err := encodeJSON(p.Tools)
	if err != nil {
		return err
	}
	p.UpdatedAt = s.now().UTC()

	_, err = s.exec(ctx, `
		INSERT INTO about_me (owner_id, bio, contact_email, github_url, linkedin_url,
			profile_image_url, resume_url, quote, hobbies, skillset, tools, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id) DO UPDATE SET
			bio = excluded.bio,
			contact_email = excluded.contact_email,
			github_url = excluded.github_url,
			linkedin_url = excluded.linkedin_url,
			profile_image_url = excluded.profile_image_url,
			resume_url = excluded.resume_url,
			quote = excluded.quote,
			hobbies = excluded.hobbies,
			skillset = excluded.skillset,
			tools = excluded.tools,
			updated_at = excluded.updated_at`,
		p.OwnerID, p.Bio, nullString(p.ContactEmail), nullString(p.GithubURL), nullString(p.LinkedinURL),
		nullString(p.ProfileImageURL), nullString(p.ResumeURL), quote, hobbies, skillset, tools, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting profile for %s: %w", p.OwnerID, err)
	}
	return nil
}

// PatchProfile applies a partial update. The profile must already exist.
func (s *SQLStore) PatchProfile(ctx context.Context, ownerID string, patch content.ProfilePatch) (*content.Profile, error) {
	if patch.Empty() {
		return nil, content.ErrEmptyPatch
	}
	p, err := s.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)
	if err := s.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func encodeJSON(v any) (sql.NullString, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding %T: %w", v, err)
	}
	if string(b) == "null" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeJSON(src sql.NullString, dst any) error {
	if !src.Valid || src.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(src.String), dst)
}
