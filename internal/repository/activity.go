package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
)

// CreateActivity appends an audit record.
func (r *Repository) CreateActivity(ctx context.Context, act *model.Activity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_logs (user_id, action, target_user_id, details)
		VALUES ($1, $2, $3, $4)`,
		act.UserID, act.Action, act.TargetUserID, act.Details)
	return err
}

// RecordActivity is a helper that marshals details to JSON.
func (r *Repository) RecordActivity(ctx context.Context, userID uuid.UUID, action string, targetUserID *uuid.UUID, details map[string]interface{}) error {
	var raw []byte
	if details != nil {
		var err error
		raw, err = json.Marshal(details)
		if err != nil {
			return err
		}
	}
	return r.CreateActivity(ctx, &model.Activity{
		UserID:       userID,
		Action:       action,
		TargetUserID: targetUserID,
		Details:      raw,
	})
}

// ListActivities returns a user's own audit trail.
func (r *Repository) ListActivities(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Activity, error) {
	var acts []model.Activity
	err := r.db.SelectContext(ctx, &acts, `
		SELECT * FROM activity_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	return acts, err
}

// ListAllActivities returns the global audit trail (admin function).
func (r *Repository) ListAllActivities(ctx context.Context, limit, offset int) ([]model.Activity, error) {
	var acts []model.Activity
	err := r.db.SelectContext(ctx, &acts, `
		SELECT * FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	return acts, err
}
