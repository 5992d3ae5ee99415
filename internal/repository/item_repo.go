package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/apperr"
	"github.com/archivalatlas/atlas/internal/model"
)

type ItemRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewItemRepository(db *pgxpool.Pool, logger *zap.Logger) *ItemRepository {
	return &ItemRepository{db: db, logger: logger}
}

// ItemUpdate carries the partial-update fields of PUT /api/items/:id. Nil
// means "leave unchanged".
type ItemUpdate struct {
	Title       *string `json:"title"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Content     *string `json:"content"`
	ImageURL    *string `json:"image_url"`
	AudioURL    *string `json:"audio_url"`
}

const itemColumns = `
        i.id, i.archive_id, i.title, COALESCE(i.code, ''), COALESCE(i.description, ''),
        COALESCE(i.location, ''), COALESCE(i.content, ''),
        COALESCE(i.image_url, ''), COALESCE(i.audio_url, ''),
        i.created_at, i.updated_at,
        (SELECT COUNT(*) FROM annotations ann WHERE ann.item_id = i.id)`

func scanItem(row rowScanner) (*model.ArchiveItem, error) {
	var it model.ArchiveItem
	err := row.Scan(
		&it.ID, &it.ArchiveID, &it.Title, &it.Code, &it.Description,
		&it.Location, &it.Content, &it.ImageURL, &it.AudioURL,
		&it.CreatedAt, &it.UpdatedAt, &it.AnnotationCount,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepository) collect(rows pgx.Rows) ([]model.ArchiveItem, error) {
	defer rows.Close()
	items := []model.ArchiveItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			r.logger.Error("Failed to scan item row", zap.Error(err))
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// ListByArchive returns one page of an archive's items, newest first.
func (r *ItemRepository) ListByArchive(ctx context.Context, archiveID, limit, offset int) ([]model.ArchiveItem, error) {
	query := "SELECT" + itemColumns + `
        FROM archive_items i
        WHERE i.archive_id = $1
        ORDER BY i.created_at DESC, i.id DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, archiveID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to query archive items", zap.Int("archive_id", archiveID), zap.Error(err))
		return nil, err
	}
	return r.collect(rows)
}

// ListAllByArchive returns every item of an archive, for the graph
// projection.
func (r *ItemRepository) ListAllByArchive(ctx context.Context, archiveID int) ([]model.ArchiveItem, error) {
	query := "SELECT" + itemColumns + `
        FROM archive_items i
        WHERE i.archive_id = $1
        ORDER BY i.id`

	rows, err := r.db.Query(ctx, query, archiveID)
	if err != nil {
		r.logger.Error("Failed to query archive items", zap.Int("archive_id", archiveID), zap.Error(err))
		return nil, err
	}
	return r.collect(rows)
}

func (r *ItemRepository) CountByArchive(ctx context.Context, archiveID int) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM archive_items WHERE archive_id = $1`, archiveID).Scan(&n)
	if err != nil {
		r.logger.Error("Failed to count archive items", zap.Int("archive_id", archiveID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id int) (*model.ArchiveItem, error) {
	query := "SELECT" + itemColumns + "\n        FROM archive_items i WHERE i.id = $1"

	it, err := scanItem(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("item")
	}
	if err != nil {
		r.logger.Error("Failed to get item", zap.Int("item_id", id), zap.Error(err))
		return nil, err
	}
	return it, nil
}

func (r *ItemRepository) Insert(ctx context.Context, it *model.ArchiveItem) (int, error) {
	query := `
        INSERT INTO archive_items (archive_id, title, code, description, location,
            content, image_url, audio_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		it.ArchiveID, it.Title, it.Code, it.Description, it.Location,
		it.Content, it.ImageURL, it.AudioURL, it.CreatedAt, it.UpdatedAt,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert item", zap.Int("archive_id", it.ArchiveID), zap.Error(err))
		return 0, err
	}
	r.logger.Info("Item inserted", zap.Int("item_id", id), zap.Int("archive_id", it.ArchiveID))
	return id, nil
}

// Update applies the non-nil fields of u and bumps updated_at, returning the
// updated row.
func (r *ItemRepository) Update(ctx context.Context, id int, u ItemUpdate) (*model.ArchiveItem, error) {
	sets := []string{}
	args := []any{}

	set := func(column string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	set("title", u.Title)
	set("code", u.Code)
	set("description", u.Description)
	set("location", u.Location)
	set("content", u.Content)
	set("image_url", u.ImageURL)
	set("audio_url", u.AudioURL)

	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	args = append(args, id)
	query := fmt.Sprintf("UPDATE archive_items SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update item", zap.Int("item_id", id), zap.Error(err))
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperr.NotFound("item")
	}
	r.logger.Info("Item updated", zap.Int("item_id", id))
	return r.GetByID(ctx, id)
}

// Search matches q as a case-sensitive substring of title, description or
// content. archiveID 0 searches across all archives.
func (r *ItemRepository) Search(ctx context.Context, q string, archiveID, limit int) ([]model.ArchiveItem, error) {
	pattern := likeContains(q)
	query := "SELECT" + itemColumns + `
        FROM archive_items i
        WHERE (i.title LIKE $1 ESCAPE '\'
            OR i.description LIKE $1 ESCAPE '\'
            OR i.content LIKE $1 ESCAPE '\')`
	args := []any{pattern}
	if archiveID != 0 {
		args = append(args, archiveID)
		query += fmt.Sprintf("\n          AND i.archive_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf("\n        ORDER BY i.id LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to search items", zap.String("q", q), zap.Error(err))
		return nil, err
	}
	return r.collect(rows)
}

// ListFirst returns up to limit items in id order, for the triple emitter.
func (r *ItemRepository) ListFirst(ctx context.Context, limit int) ([]model.ArchiveItem, error) {
	query := "SELECT" + itemColumns + "\n        FROM archive_items i ORDER BY i.id LIMIT $1"

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to query items", zap.Error(err))
		return nil, err
	}
	return r.collect(rows)
}
