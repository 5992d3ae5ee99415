package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/apperr"
	"github.com/archivalatlas/atlas/internal/model"
	"github.com/archivalatlas/atlas/internal/repository"
)

type fakeProjectRepo struct {
	projects []model.Project
	nextID   int
	deleted  []int
	statuses map[string]int
	first    *time.Time
	last     *time.Time
}

func (f *fakeProjectRepo) List(ctx context.Context, _ repository.ProjectFilter) ([]model.Project, error) {
	return f.projects, nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id int) (*model.Project, error) {
	for i := range f.projects {
		if f.projects[i].ID == id {
			return &f.projects[i], nil
		}
	}
	return nil, apperr.NotFound("project")
}

func (f *fakeProjectRepo) Insert(ctx context.Context, p *model.Project) (int, error) {
	f.nextID++
	p.ID = f.nextID
	f.projects = append(f.projects, *p)
	return p.ID, nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProjectRepo) Count(ctx context.Context) (int, error) {
	return len(f.projects), nil
}

func (f *fakeProjectRepo) CategoryCounts(ctx context.Context) ([]model.CategoryCount, error) {
	return nil, nil
}

func (f *fakeProjectRepo) StatusCounts(ctx context.Context) (map[string]int, error) {
	if f.statuses == nil {
		return map[string]int{}, nil
	}
	return f.statuses, nil
}

func (f *fakeProjectRepo) DistinctLocationCount(ctx context.Context) (int, error) {
	return 3, nil
}

func (f *fakeProjectRepo) StartDateRange(ctx context.Context) (*time.Time, *time.Time, error) {
	return f.first, f.last, nil
}

func (f *fakeProjectRepo) Timeline(ctx context.Context) ([]model.TimelineEntry, error) {
	return nil, nil
}

type fakePersonRepo struct {
	people []model.ProjectPerson
}

func (f *fakePersonRepo) ListByProject(ctx context.Context, projectID int) ([]model.ProjectPerson, error) {
	out := []model.ProjectPerson{}
	for _, p := range f.people {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePersonRepo) ListAll(ctx context.Context) ([]model.ProjectPerson, error) {
	return f.people, nil
}

func (f *fakePersonRepo) DistinctNameCount(ctx context.Context) (int, error) {
	names := map[string]bool{}
	for _, p := range f.people {
		names[p.Name] = true
	}
	return len(names), nil
}

type fakeOutputRepo struct {
	outputs []model.ProjectOutput
}

func (f *fakeOutputRepo) ListByProject(ctx context.Context, projectID int) ([]model.ProjectOutput, error) {
	out := []model.ProjectOutput{}
	for _, o := range f.outputs {
		if o.ProjectID == projectID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeProjectConnRepo struct {
	connections []model.ProjectConnection
}

func (f *fakeProjectConnRepo) ListAll(ctx context.Context) ([]model.ProjectConnection, error) {
	return f.connections, nil
}

type fakeCache struct {
	entries map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.entries, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

type fakePublisher struct {
	published []string
}

func (f *fakePublisher) Publish(routingKey string, _ any) error {
	f.published = append(f.published, routingKey)
	return nil
}

func newPortfolioService(projects *fakeProjectRepo, people *fakePersonRepo, cache Cache, pub Publisher) *PortfolioService {
	return NewPortfolioService(
		projects, people, &fakeOutputRepo{}, &fakeProjectConnRepo{},
		cache, pub, time.Minute, zap.NewNop(),
	)
}

func TestCreateProjectValidation(t *testing.T) {
	svc := newPortfolioService(&fakeProjectRepo{}, &fakePersonRepo{}, nil, nil)

	cases := []struct {
		name string
		in   CreateProjectInput
	}{
		{"missing title", CreateProjectInput{Role: "PM", Category: model.CategoryPMPolicy}},
		{"missing role", CreateProjectInput{Title: "T", Category: model.CategoryPMPolicy}},
		{"missing category", CreateProjectInput{Title: "T", Role: "PM"}},
		{"bad category", CreateProjectInput{Title: "T", Role: "PM", Category: "Engineering"}},
		{"bad start date", CreateProjectInput{Title: "T", Role: "PM", Category: model.CategoryPMPolicy, StartDate: "01/03/2023"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProject(context.Background(), tc.in)
			assert.True(t, apperr.IsValidation(err))
		})
	}
}

func TestCreateProjectDefaultsStatus(t *testing.T) {
	repo := &fakeProjectRepo{}
	svc := newPortfolioService(repo, &fakePersonRepo{}, nil, nil)

	p, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Title:     "Transit Redesign",
		Role:      "Lead",
		Category:  model.CategoryUXDesign,
		StartDate: "2023-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, p.Status)
	require.NotNil(t, p.StartDate)
	assert.Equal(t, 2023, p.StartDate.Year())
	assert.Nil(t, p.EndDate)
}

func TestCreateProjectPublishesAndInvalidates(t *testing.T) {
	cache := newFakeCache()
	cache.entries[networkCacheKey] = []byte(`{"nodes":[],"edges":[]}`)
	pub := &fakePublisher{}
	svc := newPortfolioService(&fakeProjectRepo{}, &fakePersonRepo{}, cache, pub)

	_, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Title: "T", Role: "R", Category: model.CategoryPMPolicy,
	})
	require.NoError(t, err)
	assert.Contains(t, cache.deleted, networkCacheKey)
	assert.Equal(t, []string{"portfolio.project.created"}, pub.published)
}

func TestDeleteProjectMissing(t *testing.T) {
	svc := newPortfolioService(&fakeProjectRepo{}, &fakePersonRepo{}, nil, nil)
	err := svc.DeleteProject(context.Background(), 42)
	assert.True(t, apperr.IsNotFound(err))
}

func TestNetworkCaching(t *testing.T) {
	repo := &fakeProjectRepo{projects: []model.Project{
		{ID: 1, Title: "A", Category: model.CategoryPMPolicy},
	}}
	people := &fakePersonRepo{people: []model.ProjectPerson{
		{ID: 10, ProjectID: 1, Name: "Anna Bianchi"},
	}}
	cache := newFakeCache()
	svc := newPortfolioService(repo, people, cache, nil)

	n, err := svc.Network(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n.Stats.TotalProjects)
	assert.Contains(t, cache.entries, networkCacheKey)

	// A second call is served from cache even if the repo changes.
	repo.projects = nil
	n2, err := svc.Network(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n2.Stats.TotalProjects)
}

func TestNetworkWithoutCache(t *testing.T) {
	repo := &fakeProjectRepo{projects: []model.Project{{ID: 1, Title: "A", Category: model.CategoryUXDesign}}}
	svc := newPortfolioService(repo, &fakePersonRepo{}, nil, nil)

	n, err := svc.Network(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n.Stats.UXDesignProjects)
}

func TestStatsYearsActive(t *testing.T) {
	first := time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeProjectRepo{
		projects: []model.Project{{ID: 1}, {ID: 2}},
		statuses: map[string]int{model.StatusCompleted: 1, model.StatusOngoing: 1},
		first:    &first,
		last:     &last,
	}
	people := &fakePersonRepo{people: []model.ProjectPerson{
		{ID: 1, ProjectID: 1, Name: "Anna Bianchi"},
		{ID: 2, ProjectID: 2, Name: "Anna Bianchi"},
	}}
	svc := newPortfolioService(repo, people, nil, nil)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalProjects)
	assert.Equal(t, 1, st.CompletedProjects)
	assert.Equal(t, 1, st.OngoingProjects)
	assert.Equal(t, 1, st.UniqueCollaborators)
	assert.Equal(t, 4, st.YearsActive)
	require.NotNil(t, st.FirstProjectDate)
	assert.Equal(t, 2021, st.FirstProjectDate.Year())
}

func TestStatsNoDatedProjects(t *testing.T) {
	svc := newPortfolioService(&fakeProjectRepo{}, &fakePersonRepo{}, nil, nil)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.YearsActive)
	assert.Nil(t, st.FirstProjectDate)
	assert.Nil(t, st.LastProjectDate)
}

func TestGetProjectEmbedsPeopleAndOutputs(t *testing.T) {
	repo := &fakeProjectRepo{projects: []model.Project{{ID: 1, Title: "A"}}}
	people := &fakePersonRepo{people: []model.ProjectPerson{{ID: 5, ProjectID: 1, Name: "Laura Neri"}}}
	svc := NewPortfolioService(
		repo, people,
		&fakeOutputRepo{outputs: []model.ProjectOutput{{ID: 7, ProjectID: 1, Title: "Report"}}},
		&fakeProjectConnRepo{}, nil, nil, time.Minute, zap.NewNop(),
	)

	detail, err := svc.GetProject(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, detail.People, 1)
	assert.Len(t, detail.Outputs, 1)
}
