package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/model"
)

type ItemConnectionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewItemConnectionRepository(db *pgxpool.Pool, logger *zap.Logger) *ItemConnectionRepository {
	return &ItemConnectionRepository{db: db, logger: logger}
}

const itemConnectionColumns = `
        c.id, c.source_id, c.target_id, c.connection_type, c.strength,
        COALESCE(c.properties, '{}'), c.created_at`

func scanItemConnection(row rowScanner) (*model.ItemConnection, error) {
	var c model.ItemConnection
	err := row.Scan(&c.ID, &c.SourceID, &c.TargetID, &c.ConnectionType, &c.Strength, &c.Properties, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ItemConnectionRepository) collect(rows pgx.Rows) ([]model.ItemConnection, error) {
	defer rows.Close()
	connections := []model.ItemConnection{}
	for rows.Next() {
		c, err := scanItemConnection(rows)
		if err != nil {
			r.logger.Error("Failed to scan item connection row", zap.Error(err))
			return nil, err
		}
		connections = append(connections, *c)
	}
	return connections, rows.Err()
}

// ListBySourceItem returns the connections originating from one item.
func (r *ItemConnectionRepository) ListBySourceItem(ctx context.Context, itemID int) ([]model.ItemConnection, error) {
	query := "SELECT" + itemConnectionColumns + "\n        FROM item_connections c WHERE c.source_id = $1 ORDER BY c.id"

	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		r.logger.Error("Failed to query item connections", zap.Int("item_id", itemID), zap.Error(err))
		return nil, err
	}
	return r.collect(rows)
}

// ListByArchive returns the connections whose source item belongs to the
// archive. Targets are not constrained: rows may point at items elsewhere
// or at items that no longer exist.
func (r *ItemConnectionRepository) ListByArchive(ctx context.Context, archiveID int) ([]model.ItemConnection, error) {
	query := "SELECT" + itemConnectionColumns + `
        FROM item_connections c
        JOIN archive_items i ON i.id = c.source_id
        WHERE i.archive_id = $1
        ORDER BY c.id`

	rows, err := r.db.Query(ctx, query, archiveID)
	if err != nil {
		r.logger.Error("Failed to query archive connections", zap.Int("archive_id", archiveID), zap.Error(err))
		return nil, err
	}
	return r.collect(rows)
}

func (r *ItemConnectionRepository) Insert(ctx context.Context, c *model.ItemConnection) (int, error) {
	query := `
        INSERT INTO item_connections (source_id, target_id, connection_type, strength, properties, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		c.SourceID, c.TargetID, c.ConnectionType, c.Strength, c.Properties, c.CreatedAt,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert item connection",
			zap.Int("source_id", c.SourceID),
			zap.Int("target_id", c.TargetID),
			zap.Error(err),
		)
		return 0, err
	}
	r.logger.Info("Item connection inserted", zap.Int("connection_id", id))
	return id, nil
}
