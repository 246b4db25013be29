package content

import (
	"errors"
	"testing"

	"github.com/Zachkp/portfolio/internal/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProfilePatch_Apply(t *testing.T) {
	prof := &Profile{Bio: "old", GithubURL: "https://github.com/old"}
	skills := []Item{{Name: "Go", IconName: "SiGo"}}

	patch := ProfilePatch{Bio: strPtr("new"), Skillset: &skills}
	require.False(t, patch.Empty())
	patch.Apply(prof)

	assert.Equal(t, "new", prof.Bio)
	assert.Equal(t, "https://github.com/old", prof.GithubURL)
	assert.Equal(t, skills, prof.Skillset)
}

func TestProfilePatch_Empty(t *testing.T) {
	assert.True(t, ProfilePatch{}.Empty())
}

func TestExperience_Period(t *testing.T) {
	e := Experience{}
	assert.Equal(t, "", e.Period())

	e.SetPeriod(period.Parse("January 2022 - Present"))
	assert.Equal(t, "Jan 2022 - Present", e.Period())

	e.SetPeriod(period.Parse("1 Month: 22 July - 22 August 2024"))
	assert.Equal(t, "Jul 2024 - Aug 2024", e.Period())

	e.SetPeriod(period.Parse("2024-07-22"))
	assert.Equal(t, "Jul 2024", e.Period())
}

func TestSortExperiences(t *testing.T) {
	exps := []Experience{
		{JobTitle: "intern", StartDate: period.MustParseDate("2019-01-01").Ptr(), EndDate: period.MustParseDate("2019-06-30").Ptr()},
		{JobTitle: "support", StartDate: period.MustParseDate("2021-01-01").Ptr(), EndDate: period.MustParseDate("2021-08-31").Ptr()},
		{JobTitle: "student", StartDate: period.MustParseDate("2022-01-01").Ptr()},
		{JobTitle: "undated", DisplayOrder: 1},
	}

	SortExperiences(exps)

	var titles []string
	for _, e := range exps {
		titles = append(titles, e.JobTitle)
	}
	assert.Equal(t, []string{"student", "undated", "support", "intern"}, titles)
}

func TestValidate(t *testing.T) {
	err := Validate(&Project{Title: "Portfolio", ProjectLink: "https://example.com"})
	assert.NoError(t, err)

	err = Validate(&Project{ProjectLink: "not a url"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
	assert.Contains(t, verr.Error(), "Project.Title (required)")

	err = Validate(&ProfilePatch{ContactEmail: strPtr("nope")})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Error(), "ContactEmail")

	err = Validate(&Profile{Skillset: []Item{{Name: ""}}})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Error(), "Skillset[0].Name")
}
