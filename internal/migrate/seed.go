package migrate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Zachkp/portfolio/internal/content"
	"gopkg.in/yaml.v3"
)

// Seed is the hand-maintained content document imported into the store.
type Seed struct {
	About        *AboutSeed        `yaml:"about"`
	Projects     []ProjectSeed     `yaml:"projects"`
	Experiences  []ExperienceSeed  `yaml:"experiences"`
	Certificates []CertificateSeed `yaml:"certificates"`
}

type AboutSeed struct {
	Bio             string         `yaml:"bio"`
	GithubUsername  string         `yaml:"github_username"`
	ContactEmail    string         `yaml:"contact_email"`
	LinkedinURL     string         `yaml:"linkedin_url"`
	ProfileImageURL string         `yaml:"profile_image_url"`
	ResumeURL       string         `yaml:"resume_url"`
	Quote           *content.Quote `yaml:"quote"`
	Hobbies         []content.Item `yaml:"hobbies"`
	Skillset        []content.Item `yaml:"skillset"`
	Tools           []content.Item `yaml:"tools"`
}

type ProjectSeed struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Image        string   `yaml:"image"`
	Link         string   `yaml:"link"`
	Technologies []string `yaml:"technologies"`
}

type ExperienceSeed struct {
	Icon         string `yaml:"icon"`
	Title        string `yaml:"title"`
	Organization string `yaml:"organization"`
	// Period is free text such as "8 Months: January - August 2021".
	Period      string `yaml:"period"`
	Description string `yaml:"description"`
}

type CertificateSeed struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Link        string `yaml:"link"`
}

// DecodeSeed reads a YAML seed document. Unknown keys are rejected so typos
// don't silently drop content.
func DecodeSeed(r io.Reader) (*Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Seed
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("seed document is empty")
		}
		return nil, fmt.Errorf("decoding seed: %w", err)
	}
	return &s, nil
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed: %w", err)
	}
	return DecodeSeed(bytes.NewReader(data))
}

func (a *AboutSeed) profile(ownerID string) *content.Profile {
	p := &content.Profile{
		OwnerID:         ownerID,
		Bio:             strings.TrimSpace(a.Bio),
		ContactEmail:    a.ContactEmail,
		LinkedinURL:     a.LinkedinURL,
		ProfileImageURL: a.ProfileImageURL,
		ResumeURL:       a.ResumeURL,
		Quote:           a.Quote,
		Hobbies:         a.Hobbies,
		Skillset:        a.Skillset,
		Tools:           a.Tools,
	}
	if a.GithubUsername != "" {
		p.GithubURL = "https://github.com/" + a.GithubUsername
	}
	return p
}

// project maps a seed entry; GitHub links are treated as source code, anything
// else as the live project.
func (ps ProjectSeed) project(ownerID string, order int) *content.Project {
	p := &content.Project{
		OwnerID:      ownerID,
		Title:        ps.Title,
		Description:  strings.TrimSpace(ps.Description),
		ImageURL:     ps.Image,
		Technologies: ps.Technologies,
		DisplayOrder: order,
	}
	if strings.Contains(ps.Link, "github.com") {
		p.SourceCodeLink = ps.Link
	} else {
		p.ProjectLink = ps.Link
	}
	return p
}
