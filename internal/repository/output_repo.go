package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/model"
)

type ProjectOutputRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectOutputRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectOutputRepository {
	return &ProjectOutputRepository{db: db, logger: logger}
}

func (r *ProjectOutputRepository) ListByProject(ctx context.Context, projectID int) ([]model.ProjectOutput, error) {
	query := `
        SELECT id, project_id, title, type, COALESCE(description, ''),
               COALESCE(url, ''), COALESCE(file_path, ''), created_at
        FROM project_outputs
        WHERE project_id = $1
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query project outputs", zap.Int("project_id", projectID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	outputs := []model.ProjectOutput{}
	for rows.Next() {
		var o model.ProjectOutput
		if err := rows.Scan(&o.ID, &o.ProjectID, &o.Title, &o.Type, &o.Description, &o.URL, &o.FilePath, &o.CreatedAt); err != nil {
			return nil, err
		}
		outputs = append(outputs, o)
	}
	return outputs, rows.Err()
}
