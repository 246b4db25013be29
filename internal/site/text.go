package site

import "github.com/Zachkp/portfolio/internal/content"

// Copy shown until the owner has saved a profile of their own.
var (
	defaultBio = `This portfolio has not been filled in yet. Once the owner signs in at
	/admin/login and saves an about section, their story, skills and tools appear here.`

	defaultQuote = content.Quote{
		Text:   "Simple But Better!",
		Author: "Unknown",
	}

	defaultSkillset = []content.Item{
		{Name: "Go", IconName: "SiGo"},
		{Name: "HTMX", IconName: "SiHtmx"},
		{Name: "SQL", IconName: "SiPostgresql"},
	}
)

func defaultProfile(ownerID string) *content.Profile {
	q := defaultQuote
	return &content.Profile{
		OwnerID:  ownerID,
		Bio:      defaultBio,
		Quote:    &q,
		Skillset: append([]content.Item(nil), defaultSkillset...),
	}
}
