package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/apperr"
	"github.com/archivalatlas/atlas/internal/model"
)

type AnnotationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAnnotationRepository(db *pgxpool.Pool, logger *zap.Logger) *AnnotationRepository {
	return &AnnotationRepository{db: db, logger: logger}
}

const annotationColumns = `
        ann.id, ann.item_id, ann.text, COALESCE(ann.start_pos, 0), COALESCE(ann.end_pos, 0),
        ann.annotation_type, COALESCE(ann.entity_uri, ''), ann.confidence,
        ann.created_at, COALESCE(ann.created_by, '')`

func scanAnnotation(row rowScanner) (*model.Annotation, error) {
	var a model.Annotation
	err := row.Scan(
		&a.ID, &a.ItemID, &a.Text, &a.StartPos, &a.EndPos,
		&a.AnnotationType, &a.EntityURI, &a.Confidence,
		&a.CreatedAt, &a.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnnotationRepository) collect(rows pgx.Rows) ([]model.Annotation, error) {
	defer rows.Close()
	annotations := []model.Annotation{}
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			r.logger.Error("Failed to scan annotation row", zap.Error(err))
			return nil, err
		}
		annotations = append(annotations, *a)
	}
	return annotations, rows.Err()
}

func (r *AnnotationRepository) ListByItem(ctx context.Context, itemID int) ([]model.Annotation, error) {
	query := "SELECT" + annotationColumns + "\n        FROM annotations ann WHERE ann.item_id = $1 ORDER BY ann.id"

	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		r.logger.Error("Failed to query annotations", zap.Int("item_id", itemID), zap.Error(err))
		return nil, err
	}
	return r.collect(rows)
}

// ListByArchive returns the annotations of every item in an archive, for
// the graph projection.
func (r *AnnotationRepository) ListByArchive(ctx context.Context, archiveID int) ([]model.Annotation, error) {
	query := "SELECT" + annotationColumns + `
        FROM annotations ann
        JOIN archive_items i ON i.id = ann.item_id
        WHERE i.archive_id = $1
        ORDER BY ann.item_id, ann.id`

	rows, err := r.db.Query(ctx, query, archiveID)
	if err != nil {
		r.logger.Error("Failed to query archive annotations", zap.Int("archive_id", archiveID), zap.Error(err))
		return nil, err
	}
	return r.collect(rows)
}

func (r *AnnotationRepository) GetByID(ctx context.Context, id int) (*model.Annotation, error) {
	query := "SELECT" + annotationColumns + "\n        FROM annotations ann WHERE ann.id = $1"

	a, err := scanAnnotation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("annotation")
	}
	if err != nil {
		r.logger.Error("Failed to get annotation", zap.Int("annotation_id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (r *AnnotationRepository) Insert(ctx context.Context, a *model.Annotation) (int, error) {
	query := `
        INSERT INTO annotations (item_id, text, start_pos, end_pos, annotation_type,
            entity_uri, confidence, created_at, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		a.ItemID, a.Text, a.StartPos, a.EndPos, a.AnnotationType,
		a.EntityURI, a.Confidence, a.CreatedAt, a.CreatedBy,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert annotation", zap.Int("item_id", a.ItemID), zap.Error(err))
		return 0, err
	}
	r.logger.Info("Annotation inserted", zap.Int("annotation_id", id), zap.Int("item_id", a.ItemID))
	return id, nil
}

func (r *AnnotationRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.Exec(ctx, `DELETE FROM annotations WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete annotation", zap.Int("annotation_id", id), zap.Error(err))
		return err
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("annotation")
	}
	r.logger.Info("Annotation deleted", zap.Int("annotation_id", id))
	return nil
}

// Search matches q as a case-sensitive substring of the annotation text,
// optionally narrowed to one annotation type.
func (r *AnnotationRepository) Search(ctx context.Context, q, annotationType string, limit int) ([]model.Annotation, error) {
	query := "SELECT" + annotationColumns + `
        FROM annotations ann
        WHERE ann.text LIKE $1 ESCAPE '\'`
	args := []any{likeContains(q)}
	if annotationType != "" {
		args = append(args, annotationType)
		query += fmt.Sprintf("\n          AND ann.annotation_type = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf("\n        ORDER BY ann.id LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to search annotations", zap.String("q", q), zap.Error(err))
		return nil, err
	}
	return r.collect(rows)
}
