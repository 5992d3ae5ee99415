package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/apperr"
	"github.com/archivalatlas/atlas/internal/model"
)

type ArchiveRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewArchiveRepository(db *pgxpool.Pool, logger *zap.Logger) *ArchiveRepository {
	return &ArchiveRepository{db: db, logger: logger}
}

const archiveColumns = `
        a.id, a.name, a.slug, COALESCE(a.description, ''), a.color, a.created_at,
        (SELECT COUNT(*) FROM archive_items i WHERE i.archive_id = a.id)`

func scanArchive(row rowScanner) (*model.Archive, error) {
	var a model.Archive
	err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.Description, &a.Color, &a.CreatedAt, &a.ItemCount)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArchiveRepository) List(ctx context.Context) ([]model.Archive, error) {
	query := "SELECT" + archiveColumns + "\n        FROM archives a ORDER BY a.id"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query archives", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	archives := []model.Archive{}
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, err
		}
		archives = append(archives, *a)
	}
	return archives, rows.Err()
}

func (r *ArchiveRepository) GetBySlug(ctx context.Context, slug string) (*model.Archive, error) {
	query := "SELECT" + archiveColumns + "\n        FROM archives a WHERE a.slug = $1"

	a, err := scanArchive(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("archive")
	}
	if err != nil {
		r.logger.Error("Failed to get archive", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (r *ArchiveRepository) Insert(ctx context.Context, a *model.Archive) (int, error) {
	query := `
        INSERT INTO archives (name, slug, description, color, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query, a.Name, a.Slug, a.Description, a.Color, a.CreatedAt).Scan(&id)
	if isUniqueViolation(err) {
		return 0, apperr.Conflict("archive slug already exists")
	}
	if err != nil {
		r.logger.Error("Failed to insert archive", zap.String("slug", a.Slug), zap.Error(err))
		return 0, err
	}
	r.logger.Info("Archive inserted", zap.Int("archive_id", id), zap.String("slug", a.Slug))
	return id, nil
}

// DeleteBySlug removes an archive. Items, their annotations and voice
// recordings cascade; item connections pointing at the removed items from
// other archives survive dangling and are filtered on the next graph build.
func (r *ArchiveRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM archives WHERE slug = $1`, slug)
	if err != nil {
		r.logger.Error("Failed to delete archive", zap.String("slug", slug), zap.Error(err))
		return err
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("archive")
	}
	r.logger.Info("Archive deleted", zap.String("slug", slug))
	return nil
}
