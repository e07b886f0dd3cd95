package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
)

func (r *Repository) ListSelections(ctx context.Context, eventID uuid.UUID) ([]model.Selection, error) {
	var sels []model.Selection
	err := r.db.SelectContext(ctx, &sels,
		"SELECT * FROM selections WHERE event_id = $1 ORDER BY created_at", eventID)
	return sels, err
}

// UpsertSelection records a favorite; picking the same file twice just
// refreshes the note.
func (r *Repository) UpsertSelection(ctx context.Context, sel *model.Selection) error {
	query := `
		INSERT INTO selections (event_id, file_id, file_name, thumbnail_url, note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, file_id) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			thumbnail_url = EXCLUDED.thumbnail_url,
			note = COALESCE(EXCLUDED.note, selections.note)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		sel.EventID,
		sel.FileID,
		sel.FileName,
		sel.ThumbnailURL,
		sel.Note,
	).Scan(&sel.ID, &sel.CreatedAt)
}

func (r *Repository) DeleteSelection(ctx context.Context, eventID uuid.UUID, fileID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM selections WHERE event_id = $1 AND file_id = $2", eventID, fileID)
	return err
}

func (r *Repository) CountSelections(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM selections WHERE event_id = $1", eventID)
	return count, err
}
