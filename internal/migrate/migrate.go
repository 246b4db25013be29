// Package migrate imports a seed document into the content store. Free-text
// experience periods are turned into dates on the way in.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/period"
	"github.com/rs/zerolog/log"
)

// Writer is the part of the store the import needs.
type Writer interface {
	UpsertProfile(ctx context.Context, p *content.Profile) error
	UpsertProject(ctx context.Context, p *content.Project) error
	UpsertExperience(ctx context.Context, e *content.Experience) error
	UpsertCertificate(ctx context.Context, c *content.Certificate) error
}

type Options struct {
	// DryRun parses and reports without writing; the Writer may be nil.
	DryRun bool
}

// PeriodResult is how one experience period was read.
type PeriodResult struct {
	Title   string       `json:"title"`
	Company string       `json:"company"`
	Text    string       `json:"text"`
	Range   period.Range `json:"range"`
}

type Section struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Err   error  `json:"-"`
}

type Report struct {
	DryRun   bool           `json:"dry_run"`
	Sections []Section      `json:"sections"`
	Periods  []PeriodResult `json:"periods"`
	// BadDates lists certificates whose issue date could not be read; they
	// are imported without one.
	BadDates []string `json:"bad_dates,omitempty"`
}

// Unparsed returns experiences whose period text yielded no dates.
func (r *Report) Unparsed() []PeriodResult {
	var out []PeriodResult
	for _, p := range r.Periods {
		if p.Range.Empty() && strings.TrimSpace(p.Text) != "" {
			out = append(out, p)
		}
	}
	return out
}

// Ongoing returns experiences with a start date and no end date.
func (r *Report) Ongoing() []PeriodResult {
	var out []PeriodResult
	for _, p := range r.Periods {
		if p.Range.Ongoing() {
			out = append(out, p)
		}
	}
	return out
}

func (r *Report) Err() error {
	var errs []error
	for _, s := range r.Sections {
		if s.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, s.Err))
		}
	}
	return errors.Join(errs...)
}

// Run imports seed for ownerID in order: about, projects, experiences,
// certificates. A failing section is recorded and the next one still runs;
// the returned error joins every section failure.
func Run(ctx context.Context, w Writer, ownerID string, seed *Seed, opts Options) (*Report, error) {
	if ownerID == "" {
		return nil, errors.New("owner id is required")
	}
	if seed == nil {
		return nil, errors.New("seed is required")
	}
	if w == nil && !opts.DryRun {
		return nil, errors.New("a store is required unless running dry")
	}

	m := &migration{w: w, owner: ownerID, dryRun: opts.DryRun}
	rep := &Report{DryRun: opts.DryRun}

	steps := []struct {
		name string
		run  func(context.Context, *Seed, *Report) (int, error)
	}{
		{"about_me", m.about},
		{"projects", m.projects},
		{"experiences", m.experiences},
		{"certificates", m.certificates},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			rep.Sections = append(rep.Sections, Section{Name: step.name, Err: err})
			continue
		}
		n, err := step.run(ctx, seed, rep)
		rep.Sections = append(rep.Sections, Section{Name: step.name, Count: n, Err: err})

		ev := log.Info()
		if err != nil {
			ev = log.Error().Err(err)
		}
		ev.Str("section", step.name).Int("records", n).Bool("dry_run", opts.DryRun).Msg("migrated section")
	}

	return rep, rep.Err()
}

type migration struct {
	w      Writer
	owner  string
	dryRun bool
}

func (m *migration) about(ctx context.Context, seed *Seed, _ *Report) (int, error) {
	if seed.About == nil {
		return 0, nil
	}
	p := seed.About.profile(m.owner)
	if err := content.Validate(p); err != nil {
		return 0, err
	}
	if m.dryRun {
		return 1, nil
	}
	if err := m.w.UpsertProfile(ctx, p); err != nil {
		return 0, err
	}
	return 1, nil
}

func (m *migration) projects(ctx context.Context, seed *Seed, _ *Report) (int, error) {
	n := 0
	for i, ps := range seed.Projects {
		p := ps.project(m.owner, i+1)
		if err := content.Validate(p); err != nil {
			return n, fmt.Errorf("project %d %q: %w", i+1, ps.Title, err)
		}
		if !m.dryRun {
			if err := m.w.UpsertProject(ctx, p); err != nil {
				return n, err
			}
		}
		n++
	}
	return n, nil
}

func (m *migration) experiences(ctx context.Context, seed *Seed, rep *Report) (int, error) {
	n := 0
	for i, es := range seed.Experiences {
		r := period.Parse(es.Period)
		rep.Periods = append(rep.Periods, PeriodResult{
			Title:   es.Title,
			Company: es.Organization,
			Text:    es.Period,
			Range:   r,
		})
		if r.Empty() && strings.TrimSpace(es.Period) != "" {
			log.Warn().Str("period", es.Period).Str("title", es.Title).Msg("could not parse experience period")
		}

		e := &content.Experience{
			OwnerID:     m.owner,
			JobTitle:    es.Title,
			CompanyName: es.Organization,
			Description: strings.TrimSpace(es.Description),
			IconName:    es.Icon,
		}
		e.SetPeriod(r)
		if err := content.Validate(e); err != nil {
			return n, fmt.Errorf("experience %d %q: %w", i+1, es.Title, err)
		}
		if !m.dryRun {
			if err := m.w.UpsertExperience(ctx, e); err != nil {
				return n, err
			}
		}
		n++
	}
	return n, nil
}

func (m *migration) certificates(ctx context.Context, seed *Seed, rep *Report) (int, error) {
	n := 0
	for i, cs := range seed.Certificates {
		c := &content.Certificate{
			OwnerID:             m.owner,
			Title:               cs.Title,
			IssuingOrganization: cs.Description,
			CertificateImageURL: cs.Link,
		}
		if strings.TrimSpace(cs.Date) != "" {
			d, err := period.ParseDate(cs.Date)
			if err != nil {
				rep.BadDates = append(rep.BadDates, cs.Title)
				log.Warn().Err(err).Str("title", cs.Title).Msg("could not parse certificate date")
			} else {
				c.IssueDate = d.Ptr()
			}
		}
		if err := content.Validate(c); err != nil {
			return n, fmt.Errorf("certificate %d %q: %w", i+1, cs.Title, err)
		}
		if !m.dryRun {
			if err := m.w.UpsertCertificate(ctx, c); err != nil {
				return n, err
			}
		}
		n++
	}
	return n, nil
}
