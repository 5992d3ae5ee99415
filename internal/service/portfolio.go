package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/apperr"
	"github.com/archivalatlas/atlas/internal/event"
	"github.com/archivalatlas/atlas/internal/graph"
	"github.com/archivalatlas/atlas/internal/model"
	"github.com/archivalatlas/atlas/internal/repository"
	"github.com/archivalatlas/atlas/internal/stats"
	"github.com/archivalatlas/atlas/pkg/metrics"
)

const networkCacheKey = "portfolio:network"

type PortfolioService struct {
	projects    ProjectRepo
	people      ProjectPersonRepo
	outputs     ProjectOutputRepo
	connections ProjectConnectionRepo
	cache       Cache
	publisher   Publisher
	graphTTL    time.Duration
	logger      *zap.Logger
}

func NewPortfolioService(
	projects ProjectRepo,
	people ProjectPersonRepo,
	outputs ProjectOutputRepo,
	connections ProjectConnectionRepo,
	cache Cache,
	publisher Publisher,
	graphTTL time.Duration,
	logger *zap.Logger,
) *PortfolioService {
	return &PortfolioService{
		projects:    projects,
		people:      people,
		outputs:     outputs,
		connections: connections,
		cache:       cache,
		publisher:   publisher,
		graphTTL:    graphTTL,
		logger:      logger,
	}
}

func (s *PortfolioService) ListProjects(ctx context.Context, f repository.ProjectFilter) ([]model.Project, error) {
	return s.projects.List(ctx, f)
}

// ProjectDetail is a project with its people and outputs embedded.
type ProjectDetail struct {
	model.Project
	People  []model.ProjectPerson `json:"people"`
	Outputs []model.ProjectOutput `json:"outputs"`
}

func (s *PortfolioService) GetProject(ctx context.Context, id int) (*ProjectDetail, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	people, err := s.people.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	outputs, err := s.outputs.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: *p, People: people, Outputs: outputs}, nil
}

// CreateProjectInput is the POST /api/projects body. Dates arrive as
// YYYY-MM-DD strings.
type CreateProjectInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Role         string   `json:"role"`
	Category     string   `json:"category"`
	Location     string   `json:"location"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Status       string   `json:"status"`
	PhotosLink   string   `json:"photos_link"`
	ProjectLink  string   `json:"project_link"`
	ResearchLink string   `json:"research_link"`
	TextLink     string   `json:"text_link"`
	Tags         []string `json:"tags"`
	Skills       []string `json:"skills"`
	Tools        []string `json:"tools"`
}

func (s *PortfolioService) CreateProject(ctx context.Context, in CreateProjectInput) (*model.Project, error) {
	if in.Title == "" {
		return nil, apperr.Validation("title", "is required")
	}
	if in.Role == "" {
		return nil, apperr.Validation("role", "is required")
	}
	if in.Category == "" {
		return nil, apperr.Validation("category", "is required")
	}
	if !model.ValidCategory(in.Category) {
		return nil, apperr.Validation("category", fmt.Sprintf("must be %s or %s", model.CategoryPMPolicy, model.CategoryUXDesign))
	}

	start, err := parseOptionalDate(in.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate(in.EndDate, "end_date")
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.StatusCompleted
	}

	now := time.Now().UTC()
	p := &model.Project{
		Title:        in.Title,
		Description:  in.Description,
		Role:         in.Role,
		Category:     in.Category,
		Location:     in.Location,
		StartDate:    start,
		EndDate:      end,
		Status:       status,
		PhotosLink:   in.PhotosLink,
		ProjectLink:  in.ProjectLink,
		ResearchLink: in.ResearchLink,
		TextLink:     in.TextLink,
		Tags:         model.StringList(in.Tags),
		Skills:       model.StringList(in.Skills),
		Tools:        model.StringList(in.Tools),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := s.projects.Insert(ctx, p)
	if err != nil {
		return nil, err
	}

	s.invalidateNetwork(ctx)
	s.publish(event.RoutingKeyProjectCreated, event.ProjectEvent{
		ProjectID: id,
		Title:     p.Title,
		Category:  p.Category,
		Timestamp: now,
	})

	return s.projects.GetByID(ctx, id)
}

func (s *PortfolioService) DeleteProject(ctx context.Context, id int) error {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateNetwork(ctx)
	s.publish(event.RoutingKeyProjectDeleted, event.ProjectEvent{
		ProjectID: id,
		Title:     p.Title,
		Category:  p.Category,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// Network returns the portfolio network projection, served from cache when
// fresh.
func (s *PortfolioService) Network(ctx context.Context) (*graph.PortfolioNetwork, error) {
	if s.cache != nil {
		var cached graph.PortfolioNetwork
		hit, err := s.cache.GetJSON(ctx, networkCacheKey, &cached)
		if err != nil {
			s.logger.Warn("Network cache read failed", zap.Error(err))
		}
		if hit {
			metrics.IncrementCacheHit(networkCacheKey)
			return &cached, nil
		}
		metrics.IncrementCacheMiss(networkCacheKey)
	}

	projects, err := s.projects.List(ctx, repository.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	participations, err := s.people.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	connections, err := s.connections.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	people := make(map[int][]model.ProjectPerson)
	for _, p := range participations {
		people[p.ProjectID] = append(people[p.ProjectID], p)
	}

	start := time.Now()
	network := graph.BuildPortfolioNetwork(projects, people, connections)
	metrics.RecordGraphBuildDuration("network", time.Since(start))

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, networkCacheKey, network, s.graphTTL); err != nil {
			s.logger.Warn("Network cache write failed", zap.Error(err))
		}
	}
	return network, nil
}

func (s *PortfolioService) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	return s.projects.CategoryCounts(ctx)
}

func (s *PortfolioService) Skills(ctx context.Context) ([]stats.SkillCount, error) {
	projects, err := s.projects.List(ctx, repository.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	return stats.SkillFrequency(projects), nil
}

func (s *PortfolioService) Timeline(ctx context.Context) ([]model.TimelineEntry, error) {
	return s.projects.Timeline(ctx)
}

func (s *PortfolioService) Stats(ctx context.Context) (*model.PortfolioStats, error) {
	total, err := s.projects.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.projects.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := s.projects.DistinctLocationCount(ctx)
	if err != nil {
		return nil, err
	}
	collaborators, err := s.people.DistinctNameCount(ctx)
	if err != nil {
		return nil, err
	}
	first, last, err := s.projects.StartDateRange(ctx)
	if err != nil {
		return nil, err
	}

	st := &model.PortfolioStats{
		TotalProjects:       total,
		CompletedProjects:   byStatus[model.StatusCompleted],
		OngoingProjects:     byStatus[model.StatusOngoing],
		UniqueLocations:     locations,
		UniqueCollaborators: collaborators,
		FirstProjectDate:    model.DateFrom(first),
		LastProjectDate:     model.DateFrom(last),
	}
	if first != nil && last != nil {
		st.YearsActive = last.Year() - first.Year() + 1
	}
	return st, nil
}

func (s *PortfolioService) invalidateNetwork(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, networkCacheKey); err != nil {
		s.logger.Warn("Network cache invalidation failed", zap.Error(err))
	}
}

func (s *PortfolioService) publish(routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		s.logger.Warn("Event publish failed", zap.String("routing_key", routingKey), zap.Error(err))
	}
}

func parseOptionalDate(v, field string) (*model.Date, error) {
	if v == "" {
		return nil, nil
	}
	d, err := model.ParseDate(v)
	if err != nil {
		return nil, apperr.Validation(field, "must be YYYY-MM-DD")
	}
	return &d, nil
}
