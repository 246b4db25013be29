package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "78e2efe2-19a1-4050-9431-993c071eddae"

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestRebindDollar(t *testing.T) {
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", rebindDollar("SELECT * FROM t WHERE a = ? AND b = ?"))
	assert.Equal(t, "SELECT 1", rebindDollar("SELECT 1"))
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestProfile_UpsertGetPatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetProfile(ctx, owner)
	assert.ErrorIs(t, err, ErrNotFound)

	prof := &content.Profile{
		OwnerID:   owner,
		Bio:       "Hello!",
		GithubURL: "https://github.com/neddyap",
		Quote:     &content.Quote{Text: "Simple But Better!", Author: "Neddy"},
		Skillset:  []content.Item{{Name: "Go", IconName: "SiGo"}},
	}
	require.NoError(t, s.UpsertProfile(ctx, prof))

	got, err := s.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "Hello!", got.Bio)
	assert.Equal(t, "Simple But Better!", got.Quote.Text)
	assert.Equal(t, []content.Item{{Name: "Go", IconName: "SiGo"}}, got.Skillset)
	assert.Empty(t, got.ContactEmail)
	assert.False(t, got.UpdatedAt.IsZero())

	bio := "Updated bio"
	tools := []content.Item{{Name: "Docker"}}
	patched, err := s.PatchProfile(ctx, owner, content.ProfilePatch{Bio: &bio, Tools: &tools})
	require.NoError(t, err)
	assert.Equal(t, "Updated bio", patched.Bio)
	assert.Equal(t, "https://github.com/neddyap", patched.GithubURL)

	got, err = s.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, tools, got.Tools)
	assert.Equal(t, []content.Item{{Name: "Go", IconName: "SiGo"}}, got.Skillset)
}

func TestPatchProfile_Errors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.PatchProfile(ctx, owner, content.ProfilePatch{})
	assert.ErrorIs(t, err, content.ErrEmptyPatch)

	bio := "x"
	_, err = s.PatchProfile(ctx, owner, content.ProfilePatch{Bio: &bio})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExperiences_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	student := &content.Experience{OwnerID: owner, JobTitle: "University Student", CompanyName: "Djuanda University"}
	student.SetPeriod(period.Parse("January 2022 - Present"))
	support := &content.Experience{OwnerID: owner, JobTitle: "Technical Support", CompanyName: "PT. Helios"}
	support.SetPeriod(period.Parse("8 Months: January - August 2021"))

	require.NoError(t, s.CreateExperience(ctx, support))
	require.NoError(t, s.CreateExperience(ctx, student))
	assert.NotEmpty(t, student.ID)

	list, err := s.ListExperiences(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "University Student", list[0].JobTitle)
	assert.Equal(t, "2022-01-01", list[0].StartDate.String())
	assert.Nil(t, list[0].EndDate)
	assert.Equal(t, "2021-08-31", list[1].EndDate.String())

	support.Description = "MFA rollout"
	support.EndDate = period.MustParseDate("2021-09-30").Ptr()
	require.NoError(t, s.UpdateExperience(ctx, support))

	list, err = s.ListExperiences(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "MFA rollout", list[1].Description)
	assert.Equal(t, "2021-09-30", list[1].EndDate.String())

	require.NoError(t, s.DeleteExperience(ctx, owner, student.ID))
	assert.ErrorIs(t, s.DeleteExperience(ctx, owner, student.ID), ErrNotFound)

	missing := &content.Experience{ID: "nope", OwnerID: owner, JobTitle: "x", CompanyName: "y"}
	assert.ErrorIs(t, s.UpdateExperience(ctx, missing), ErrNotFound)
}

func TestUpsertExperience_ReusesRowForSameTitleAndCompany(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &content.Experience{OwnerID: owner, JobTitle: "Intern", CompanyName: "Nawa", IconName: "LuBriefcase"}
	require.NoError(t, s.UpsertExperience(ctx, first))

	second := &content.Experience{OwnerID: owner, JobTitle: "Intern", CompanyName: "Nawa", IconName: "MdWorkOutline"}
	require.NoError(t, s.UpsertExperience(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	list, err := s.ListExperiences(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "MdWorkOutline", list[0].IconName)
}

func TestProjects_UpsertOnOwnerAndTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &content.Project{OwnerID: owner, Title: "Portfolio", Technologies: []string{"Go", "HTMX"}, DisplayOrder: 1}
	require.NoError(t, s.UpsertProject(ctx, p))

	again := &content.Project{OwnerID: owner, Title: "Portfolio", Description: "v2", Technologies: []string{"Go"}, DisplayOrder: 1}
	require.NoError(t, s.UpsertProject(ctx, again))
	assert.Equal(t, p.ID, again.ID)

	other := &content.Project{OwnerID: owner, Title: "RutBis", DisplayOrder: 2}
	require.NoError(t, s.CreateProject(ctx, other))

	list, err := s.ListProjects(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "v2", list[0].Description)
	assert.Equal(t, []string{"Go"}, list[0].Technologies)
	assert.Nil(t, list[1].Technologies)

	other.SourceCodeLink = "https://github.com/neddyap/rutbis"
	require.NoError(t, s.UpdateProject(ctx, other))
	require.NoError(t, s.DeleteProject(ctx, owner, p.ID))

	list, err = s.ListProjects(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "https://github.com/neddyap/rutbis", list[0].SourceCodeLink)

	assert.ErrorIs(t, s.DeleteProject(ctx, "someone-else", other.ID), ErrNotFound)
}

func TestCertificates_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := &content.Certificate{OwnerID: owner, Title: "Google IT Support", IssueDate: period.MustParseDate("2023-06-13").Ptr()}
	newer := &content.Certificate{OwnerID: owner, Title: "Google Data Analytics", IssueDate: period.MustParseDate("2024-01-29").Ptr()}
	undated := &content.Certificate{OwnerID: owner, Title: "Programmer Intern"}
	require.NoError(t, s.CreateCertificate(ctx, older))
	require.NoError(t, s.UpsertCertificate(ctx, newer))
	require.NoError(t, s.UpsertCertificate(ctx, undated))

	list, err := s.ListCertificates(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Google Data Analytics", list[0].Title)
	assert.Equal(t, "2024-01-29", list[0].IssueDate.String())

	older.CredentialURL = "https://coursera.org/verify/abc"
	require.NoError(t, s.UpdateCertificate(ctx, older))
	require.NoError(t, s.DeleteCertificate(ctx, owner, undated.ID))

	list, err = s.ListCertificates(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "https://coursera.org/verify/abc", list[1].CredentialURL)
}

func TestVisitors_StatsAndPurge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	visits := []Visit{
		{HashedIP: "aaaa", Path: "/", VisitedAt: now.Add(-time.Hour)},
		{HashedIP: "aaaa", Path: "/work-content", VisitedAt: now.Add(-2 * time.Hour)},
		{HashedIP: "bbbb", Path: "/", VisitedAt: now.Add(-3 * 24 * time.Hour)},
		{HashedIP: "cccc", Path: "/", VisitedAt: now.Add(-400 * 24 * time.Hour)},
	}
	for _, v := range visits {
		require.NoError(t, s.RecordVisit(ctx, v))
	}

	stats, err := s.VisitorStats(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalVisitors)
	assert.EqualValues(t, 3, stats.UniqueVisitors)
	assert.EqualValues(t, 2, stats.VisitorsToday)
	assert.EqualValues(t, 3, stats.VisitorsThisWeek)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathCount{Path: "/", Visits: 3}, stats.TopPaths[0])
	require.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, "/", stats.RecentVisitors[0].Path)

	n, err := s.PurgeVisitors(ctx, now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
