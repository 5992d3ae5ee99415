package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/model"
)

type ProjectPersonRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectPersonRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectPersonRepository {
	return &ProjectPersonRepository{db: db, logger: logger}
}

const personColumns = `
        id, project_id, name, COALESCE(role, ''), COALESCE(organization, ''),
        COALESCE(email, ''), COALESCE(linkedin, ''), created_at`

func scanPerson(row rowScanner) (*model.ProjectPerson, error) {
	var p model.ProjectPerson
	err := row.Scan(&p.ID, &p.ProjectID, &p.Name, &p.Role, &p.Organization, &p.Email, &p.LinkedIn, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectPersonRepository) ListByProject(ctx context.Context, projectID int) ([]model.ProjectPerson, error) {
	query := "SELECT" + personColumns + "\n        FROM project_people WHERE project_id = $1 ORDER BY id"

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query project people", zap.Int("project_id", projectID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	people := []model.ProjectPerson{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, *p)
	}
	return people, rows.Err()
}

// ListAll returns every participation row, grouped by project for the
// network projection.
func (r *ProjectPersonRepository) ListAll(ctx context.Context) ([]model.ProjectPerson, error) {
	query := "SELECT" + personColumns + "\n        FROM project_people ORDER BY project_id, id"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query all project people", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	people := []model.ProjectPerson{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, *p)
	}
	return people, rows.Err()
}

// DistinctNameCount counts collaborators by name, collapsing repeat
// participations of the same person.
func (r *ProjectPersonRepository) DistinctNameCount(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT name) FROM project_people`).Scan(&n); err != nil {
		r.logger.Error("Failed to count distinct people", zap.Error(err))
		return 0, err
	}
	return n, nil
}
