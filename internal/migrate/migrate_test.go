package migrate

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "78e2efe2-19a1-4050-9431-993c071eddae"

func newTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func loadTestSeed(t *testing.T) *Seed {
	t.Helper()
	seed, err := LoadSeed(filepath.Join("testdata", "seed.yaml"))
	require.NoError(t, err)
	return seed
}

func TestDecodeSeed_RejectsUnknownKeys(t *testing.T) {
	_, err := DecodeSeed(strings.NewReader("projects:\n  - title: x\n    url: y\n"))
	assert.Error(t, err)

	_, err = DecodeSeed(strings.NewReader(""))
	assert.Error(t, err)
}

func TestRun_ImportsSeedIntoStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rep, err := Run(ctx, s, owner, loadTestSeed(t), Options{})
	require.NoError(t, err)

	counts := map[string]int{}
	for _, sec := range rep.Sections {
		counts[sec.Name] = sec.Count
	}
	assert.Equal(t, map[string]int{"about_me": 1, "projects": 2, "experiences": 4, "certificates": 3}, counts)

	prof, err := s.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/neddyap", prof.GithubURL)
	assert.Equal(t, "Simple But Better!", prof.Quote.Text)
	assert.Len(t, prof.Hobbies, 2)

	projects, err := s.ListProjects(ctx, owner)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "https://globalcompetency.id/", projects[0].ProjectLink)
	assert.Empty(t, projects[0].SourceCodeLink)
	assert.Equal(t, "https://github.com/neddyap/rutbis", projects[1].SourceCodeLink)
	assert.Equal(t, 2, projects[1].DisplayOrder)

	exps, err := s.ListExperiences(ctx, owner)
	require.NoError(t, err)
	require.Len(t, exps, 4)
	byTitle := map[string]content.Experience{}
	for _, e := range exps {
		byTitle[e.JobTitle] = e
	}
	intern := byTitle["Fullstack Developer - Internship"]
	assert.Equal(t, "2024-07-22", intern.StartDate.String())
	assert.Equal(t, "2024-08-22", intern.EndDate.String())
	support := byTitle["Technical Support"]
	assert.Equal(t, "2021-01-01", support.StartDate.String())
	assert.Equal(t, "2021-08-31", support.EndDate.String())
	assert.Nil(t, byTitle["University Student"].StartDate)

	certs, err := s.ListCertificates(ctx, owner)
	require.NoError(t, err)
	require.Len(t, certs, 3)
	assert.Equal(t, "Full Stack Developer", certs[0].Title)
	assert.Equal(t, "Full Stack Developer Certificate", certs[0].IssuingOrganization)
	assert.Equal(t, []string{"Programer Intern"}, rep.BadDates)
}

func TestRun_IsRepeatable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seed := loadTestSeed(t)

	_, err := Run(ctx, s, owner, seed, Options{})
	require.NoError(t, err)
	_, err = Run(ctx, s, owner, seed, Options{})
	require.NoError(t, err)

	exps, err := s.ListExperiences(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, exps, 4)
	certs, err := s.ListCertificates(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, certs, 3)
}

func TestRun_ReportsUnparsedAndOngoingPeriods(t *testing.T) {
	seed := &Seed{Experiences: []ExperienceSeed{
		{Title: "Student", Organization: "Uni", Period: "2022 - Present"},
		{Title: "Engineer", Organization: "Acme", Period: "Jan 2023 - Present"},
		{Title: "Intern", Organization: "Nawa", Period: "January - June 2019"},
		{Title: "Volunteer", Organization: "Club"},
	}}

	rep, err := Run(context.Background(), nil, owner, seed, Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, rep.DryRun)

	unparsed := rep.Unparsed()
	require.Len(t, unparsed, 1)
	assert.Equal(t, "Student", unparsed[0].Title)

	ongoing := rep.Ongoing()
	require.Len(t, ongoing, 1)
	assert.Equal(t, "2023-01-01", ongoing[0].Range.Start.String())
	assert.Len(t, rep.Periods, 4)
}

type failingWriter struct {
	*store.SQLStore
	failProjects bool
}

var errBoom = errors.New("boom")

func (w failingWriter) UpsertProject(ctx context.Context, p *content.Project) error {
	if w.failProjects {
		return errBoom
	}
	return w.SQLStore.UpsertProject(ctx, p)
}

func TestRun_ContinuesAfterSectionFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rep, err := Run(ctx, failingWriter{SQLStore: s, failProjects: true}, owner, loadTestSeed(t), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "projects")

	exps, err := s.ListExperiences(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, exps, 4)

	certs, err := s.ListCertificates(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, certs, 3)
	assert.Len(t, rep.Sections, 4)
}

func TestRun_ValidatesInput(t *testing.T) {
	_, err := Run(context.Background(), nil, owner, &Seed{}, Options{})
	assert.Error(t, err)
	_, err = Run(context.Background(), nil, "", &Seed{}, Options{DryRun: true})
	assert.Error(t, err)

	rep, err := Run(context.Background(), nil, owner, &Seed{Projects: []ProjectSeed{{Title: ""}}}, Options{DryRun: true})
	require.Error(t, err)
	var verr *content.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, rep.Sections[1].Count)
}
