package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/model"
)

type ProjectConnectionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectConnectionRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectConnectionRepository {
	return &ProjectConnectionRepository{db: db, logger: logger}
}

func (r *ProjectConnectionRepository) ListAll(ctx context.Context) ([]model.ProjectConnection, error) {
	query := `
        SELECT id, source_id, target_id, connection_type, strength,
               COALESCE(description, ''), created_at
        FROM project_connections
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query project connections", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	connections := []model.ProjectConnection{}
	for rows.Next() {
		var c model.ProjectConnection
		if err := rows.Scan(&c.ID, &c.SourceID, &c.TargetID, &c.ConnectionType, &c.Strength, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		connections = append(connections, c)
	}
	return connections, rows.Err()
}
