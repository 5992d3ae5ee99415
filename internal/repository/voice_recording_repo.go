package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/archivalatlas/atlas/internal/model"
)

type VoiceRecordingRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewVoiceRecordingRepository(db *pgxpool.Pool, logger *zap.Logger) *VoiceRecordingRepository {
	return &VoiceRecordingRepository{db: db, logger: logger}
}

func (r *VoiceRecordingRepository) ListByItem(ctx context.Context, itemID int) ([]model.VoiceRecording, error) {
	query := `
        SELECT id, item_id, audio_url, COALESCE(transcript, ''), COALESCE(duration, 0),
               COALESCE(text_start, 0), COALESCE(text_end, 0), created_at, COALESCE(created_by, '')
        FROM voice_recordings
        WHERE item_id = $1
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		r.logger.Error("Failed to query voice recordings", zap.Int("item_id", itemID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	recordings := []model.VoiceRecording{}
	for rows.Next() {
		var v model.VoiceRecording
		err := rows.Scan(&v.ID, &v.ItemID, &v.AudioURL, &v.Transcript, &v.Duration,
			&v.TextStart, &v.TextEnd, &v.CreatedAt, &v.CreatedBy)
		if err != nil {
			return nil, err
		}
		recordings = append(recordings, v)
	}
	return recordings, rows.Err()
}

func (r *VoiceRecordingRepository) Insert(ctx context.Context, v *model.VoiceRecording) (int, error) {
	query := `
        INSERT INTO voice_recordings (item_id, audio_url, transcript, duration,
            text_start, text_end, created_at, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		v.ItemID, v.AudioURL, v.Transcript, v.Duration,
		v.TextStart, v.TextEnd, v.CreatedAt, v.CreatedBy,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert voice recording", zap.Int("item_id", v.ItemID), zap.Error(err))
		return 0, err
	}
	r.logger.Info("Voice recording inserted", zap.Int("recording_id", id), zap.Int("item_id", v.ItemID))
	return id, nil
}
