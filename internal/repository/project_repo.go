package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/apperr"
	"github.com/archivalatlas/atlas/internal/model"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

const projectColumns = `
        p.id, p.title, COALESCE(p.description, ''), p.role, p.category, COALESCE(p.location, ''),
        p.start_date, p.end_date, p.status,
        COALESCE(p.photos_link, ''), COALESCE(p.project_link, ''),
        COALESCE(p.research_link, ''), COALESCE(p.text_link, ''),
        COALESCE(p.tags, '[]'), COALESCE(p.skills, '[]'), COALESCE(p.tools, '[]'),
        p.created_at, p.updated_at,
        (SELECT COUNT(*) FROM project_people pp WHERE pp.project_id = p.id),
        (SELECT COUNT(*) FROM project_outputs po WHERE po.project_id = p.id)`

func scanProject(row rowScanner) (*model.Project, error) {
	var p model.Project
	var start, end *time.Time
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Role, &p.Category, &p.Location,
		&start, &end, &p.Status,
		&p.PhotosLink, &p.ProjectLink, &p.ResearchLink, &p.TextLink,
		&p.Tags, &p.Skills, &p.Tools,
		&p.CreatedAt, &p.UpdatedAt,
		&p.PeopleCount, &p.OutputsCount,
	)
	if err != nil {
		return nil, err
	}
	p.StartDate = model.DateFrom(start)
	p.EndDate = model.DateFrom(end)
	return &p, nil
}

// List returns projects matching the filter, most recent start date first,
// undated projects last.
func (r *ProjectRepository) List(ctx context.Context, f ProjectFilter) ([]model.Project, error) {
	where, args := f.Clause()
	query := "SELECT" + projectColumns + "\n        FROM projects p " + where + " " + projectOrder

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			r.logger.Error("Failed to scan project row", zap.Error(err))
			return nil, err
		}
		projects = append(projects, *p)
	}
	r.logger.Debug("Projects listed", zap.Int("count", len(projects)))
	return projects, rows.Err()
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int) (*model.Project, error) {
	query := "SELECT" + projectColumns + "\n        FROM projects p WHERE p.id = $1"

	p, err := scanProject(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("project")
	}
	if err != nil {
		r.logger.Error("Failed to get project", zap.Int("project_id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) (int, error) {
	query := `
        INSERT INTO projects (title, description, role, category, location,
            start_date, end_date, status,
            photos_link, project_link, research_link, text_link,
            tags, skills, tools, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		p.Title, p.Description, p.Role, p.Category, p.Location,
		p.StartDate.TimePtr(), p.EndDate.TimePtr(), p.Status,
		p.PhotosLink, p.ProjectLink, p.ResearchLink, p.TextLink,
		p.Tags, p.Skills, p.Tools, p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert project", zap.String("title", p.Title), zap.Error(err))
		return 0, err
	}
	r.logger.Info("Project inserted", zap.Int("project_id", id), zap.String("title", p.Title))
	return id, nil
}

// Delete removes a project. People, outputs and outgoing connections go
// with it via the schema's cascades; inbound connection rows survive.
func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Int("project_id", id), zap.Error(err))
		return err
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("project")
	}
	r.logger.Info("Project deleted", zap.Int("project_id", id))
	return nil
}

func (r *ProjectRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		r.logger.Error("Failed to count projects", zap.Error(err))
		return 0, err
	}
	return n, nil
}

func (r *ProjectRepository) CategoryCounts(ctx context.Context) ([]model.CategoryCount, error) {
	query := `
        SELECT category, COUNT(*)
        FROM projects
        GROUP BY category
        ORDER BY category
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query category counts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	counts := []model.CategoryCount{}
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *ProjectRepository) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		r.logger.Error("Failed to query status counts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *ProjectRepository) DistinctLocationCount(ctx context.Context) (int, error) {
	query := `
        SELECT COUNT(DISTINCT location)
        FROM projects
        WHERE location IS NOT NULL AND location <> ''
    `
	var n int
	if err := r.db.QueryRow(ctx, query).Scan(&n); err != nil {
		r.logger.Error("Failed to count distinct locations", zap.Error(err))
		return 0, err
	}
	return n, nil
}

// StartDateRange returns the earliest and latest project start dates, nil
// when no project has one.
func (r *ProjectRepository) StartDateRange(ctx context.Context) (*time.Time, *time.Time, error) {
	var first, last *time.Time
	err := r.db.QueryRow(ctx, `SELECT MIN(start_date), MAX(start_date) FROM projects`).Scan(&first, &last)
	if err != nil {
		r.logger.Error("Failed to query start date range", zap.Error(err))
		return nil, nil, err
	}
	return first, last, nil
}

// Timeline returns the minimal projection of dated projects, ascending by
// start date.
func (r *ProjectRepository) Timeline(ctx context.Context) ([]model.TimelineEntry, error) {
	query := `
        SELECT id, title, category, role, start_date, end_date, COALESCE(location, ''), status
        FROM projects
        WHERE start_date IS NOT NULL
        ORDER BY start_date, id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query timeline", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	entries := []model.TimelineEntry{}
	for rows.Next() {
		var e model.TimelineEntry
		var start time.Time
		var end *time.Time
		if err := rows.Scan(&e.ID, &e.Title, &e.Category, &e.Role, &start, &end, &e.Location, &e.Status); err != nil {
			return nil, err
		}
		e.StartDate = model.NewDate(start)
		e.EndDate = model.DateFrom(end)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
