// Package content holds the records shown on the portfolio page and edited by
// its owner.
package content

import (
	"errors"
	"sort"
	"time"

	"github.com/Zachkp/portfolio/internal/period"
)

var ErrEmptyPatch = errors.New("no data provided for update")

// Item is a named entry with an icon, used for hobbies, skills and tools.
type Item struct {
	Name     string `json:"name" yaml:"name" validate:"required,max=80"`
	IconName string `json:"icon_name,omitempty" yaml:"icon_name" validate:"max=80"`
}

type Quote struct {
	Text   string `json:"text" yaml:"text" validate:"max=500"`
	Author string `json:"author" yaml:"author" validate:"max=120"`
}

// Profile is the owner's "about me" record. There is exactly one per owner.
type Profile struct {
	OwnerID         string    `json:"owner_id"`
	Bio             string    `json:"bio" validate:"max=5000"`
	ContactEmail    string    `json:"contact_email,omitempty" validate:"omitempty,email"`
	GithubURL       string    `json:"github_url,omitempty" validate:"omitempty,url"`
	LinkedinURL     string    `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	ResumeURL       string    `json:"resume_url,omitempty"`
	Quote           *Quote    `json:"quote,omitempty" validate:"omitempty"`
	Hobbies         []Item    `json:"hobbies" validate:"dive"`
	Skillset        []Item    `json:"skillset" validate:"dive"`
	Tools           []Item    `json:"tools" validate:"dive"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProfilePatch is a partial profile update; nil fields are left untouched.
type ProfilePatch struct {
	Bio             *string `json:"bio" validate:"omitempty,max=5000"`
	ContactEmail    *string `json:"contact_email" validate:"omitempty,email"`
	GithubURL       *string `json:"github_url" validate:"omitempty,url"`
	LinkedinURL     *string `json:"linkedin_url" validate:"omitempty,url"`
	ProfileImageURL *string `json:"profile_image_url"`
	ResumeURL       *string `json:"resume_url"`
	Quote           *Quote  `json:"quote"`
	Hobbies         *[]Item `json:"hobbies" validate:"omitempty,dive"`
	Skillset        *[]Item `json:"skillset" validate:"omitempty,dive"`
	Tools           *[]Item `json:"tools" validate:"omitempty,dive"`
}

func (p ProfilePatch) Empty() bool {
	return p.Bio == nil && p.ContactEmail == nil && p.GithubURL == nil &&
		p.LinkedinURL == nil && p.ProfileImageURL == nil && p.ResumeURL == nil &&
		p.Quote == nil && p.Hobbies == nil && p.Skillset == nil && p.Tools == nil
}

// Apply copies the provided fields onto prof.
func (p ProfilePatch) Apply(prof *Profile) {
	if p.Bio != nil {
		prof.Bio = *p.Bio
	}
	if p.ContactEmail != nil {
		prof.ContactEmail = *p.ContactEmail
	}
	if p.GithubURL != nil {
		prof.GithubURL = *p.GithubURL
	}
	if p.LinkedinURL != nil {
		prof.LinkedinURL = *p.LinkedinURL
	}
	if p.ProfileImageURL != nil {
		prof.ProfileImageURL = *p.ProfileImageURL
	}
	if p.ResumeURL != nil {
		prof.ResumeURL = *p.ResumeURL
	}
	if p.Quote != nil {
		q := *p.Quote
		prof.Quote = &q
	}
	if p.Hobbies != nil {
		prof.Hobbies = *p.Hobbies
	}
	if p.Skillset != nil {
		prof.Skillset = *p.Skillset
	}
	if p.Tools != nil {
		prof.Tools = *p.Tools
	}
}

// Experience is one job or education entry. A nil EndDate means the entry is
// ongoing.
type Experience struct {
	ID             string       `json:"id"`
	OwnerID        string       `json:"owner_id"`
	JobTitle       string       `json:"job_title" validate:"required,max=200"`
	CompanyName    string       `json:"company_name" validate:"required,max=200"`
	Description    string       `json:"description" validate:"max=5000"`
	Location       string       `json:"location,omitempty" validate:"max=200"`
	CompanyLogoURL string       `json:"company_logo_url,omitempty"`
	IconName       string       `json:"icon_name,omitempty"`
	StartDate      *period.Date `json:"start_date"`
	EndDate        *period.Date `json:"end_date"`
	DisplayOrder   int          `json:"display_order"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// SetPeriod fills the dates from a parsed range.
func (e *Experience) SetPeriod(r period.Range) {
	e.StartDate = r.Start
	e.EndDate = r.End
}

// Period renders the dates for display, e.g. "Jan 2022 - Present".
func (e Experience) Period() string {
	if e.StartDate == nil {
		return ""
	}
	start := e.StartDate.Format("Jan 2006")
	if e.EndDate == nil {
		return start + " - Present"
	}
	end := e.EndDate.Format("Jan 2006")
	if end == start {
		return start
	}
	return start + " - " + end
}

// Project is a portfolio entry. Titles are unique per owner.
type Project struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Title          string    `json:"title" validate:"required,max=200"`
	Description    string    `json:"description" validate:"max=5000"`
	ImageURL       string    `json:"image_url,omitempty"`
	ProjectLink    string    `json:"project_link,omitempty" validate:"omitempty,url"`
	SourceCodeLink string    `json:"source_code_link,omitempty" validate:"omitempty,url"`
	Technologies   []string  `json:"technologies" validate:"dive,max=60"`
	DisplayOrder   int       `json:"display_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Certificate is an earned certificate. Titles are unique per owner.
type Certificate struct {
	ID                  string       `json:"id"`
	OwnerID             string       `json:"owner_id"`
	Title               string       `json:"title" validate:"required,max=200"`
	IssuingOrganization string       `json:"issuing_organization" validate:"max=200"`
	IssueDate           *period.Date `json:"issue_date"`
	CredentialID        string       `json:"credential_id,omitempty" validate:"max=200"`
	CredentialURL       string       `json:"credential_url,omitempty" validate:"omitempty,url"`
	CertificateImageURL string       `json:"certificate_image_url,omitempty"`
	DisplayOrder        int          `json:"display_order"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// Portfolio is everything the public page shows.
type Portfolio struct {
	Profile      *Profile      `json:"profile"`
	Experiences  []Experience  `json:"experiences"`
	Projects     []Project     `json:"projects"`
	Certificates []Certificate `json:"certificates"`
}

// SortExperiences orders entries for display: ongoing first, then by most
// recent end and start date, then by display order.
func SortExperiences(exps []Experience) {
	sort.SliceStable(exps, func(i, j int) bool {
		a, b := exps[i], exps[j]
		if (a.EndDate == nil) != (b.EndDate == nil) {
			return a.EndDate == nil
		}
		if a.EndDate != nil && !a.EndDate.Equal(b.EndDate.Time) {
			return a.EndDate.After(b.EndDate.Time)
		}
		if (a.StartDate == nil) != (b.StartDate == nil) {
			return a.StartDate != nil
		}
		if a.StartDate != nil && !a.StartDate.Equal(b.StartDate.Time) {
			return a.StartDate.After(b.StartDate.Time)
		}
		return a.DisplayOrder < b.DisplayOrder
	})
}
