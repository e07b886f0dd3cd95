package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
)

var ErrEventNotFound = errors.New("event not found")

func (r *Repository) GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var ev model.Event
	err := r.db.GetContext(ctx, &ev, "SELECT * FROM events WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &ev, nil
}

func (r *Repository) GetEventByShareToken(ctx context.Context, token string) (*model.Event, error) {
	var ev model.Event
	err := r.db.GetContext(ctx, &ev,
		"SELECT * FROM events WHERE share_token = $1 AND is_active = true", token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &ev, nil
}

func (r *Repository) ListEvents(ctx context.Context, userID uuid.UUID) ([]model.Event, error) {
	var events []model.Event
	err := r.db.SelectContext(ctx, &events,
		"SELECT * FROM events WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return events, err
}

// CreateEventSpendingCredit spends one event credit and inserts the event in
// the same transaction, so a failed insert cannot leave the credit spent.
// Unlimited accounts (NULL balance) pass without decrementing. Returns false
// when no credit was available; nothing is written in that case.
func (r *Repository) CreateEventSpendingCredit(ctx context.Context, ev *model.Event) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE users SET
			events_remaining = CASE WHEN events_remaining IS NULL THEN NULL ELSE events_remaining - 1 END,
			updated_at = NOW()
		WHERE id = $1 AND (events_remaining IS NULL OR events_remaining > 0)`, ev.UserID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO events (user_id, name, client_name, drive_folder_id, share_token, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		ev.UserID,
		ev.Name,
		ev.ClientName,
		ev.DriveFolderID,
		ev.ShareToken,
		ev.IsActive,
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to create event: %w", err)
	}

	return true, tx.Commit()
}

func (r *Repository) UpdateEvent(ctx context.Context, ev *model.Event) error {
	query := `
		UPDATE events SET
			name = $2,
			client_name = $3,
			drive_folder_id = $4,
			is_active = $5,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query,
		ev.ID,
		ev.Name,
		ev.ClientName,
		ev.DriveFolderID,
		ev.IsActive,
	)
	return err
}

func (r *Repository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
	return err
}
