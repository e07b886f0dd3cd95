package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
)

// ErrCodeExhausted is returned when the conditional usage increment finds the
// code already at its limit.
var ErrCodeExhausted = errors.New("redeem code usage limit reached")

// GetRedeemCodeByCode looks up a code by its normalized string. Returns
// (nil, nil) when no such code exists.
func (r *Repository) GetRedeemCodeByCode(ctx context.Context, code string) (*model.RedeemCode, error) {
	var rc model.RedeemCode
	err := r.db.GetContext(ctx, &rc, `
		SELECT * FROM redeem_codes WHERE code = $1`, model.NormalizeCode(code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// ApplyRedemption runs the read-decide-write sequence of a redemption in one
// transaction. The account row is locked for the duration, so two concurrent
// redemptions against the same account serialize, and the code increment is
// conditional, so a code can never overshoot max_uses. decide mutates the
// snapshot in place; any error it returns aborts without mutation.
func (r *Repository) ApplyRedemption(ctx context.Context, userID, codeID uuid.UUID, decide func(u *model.User) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var user model.User
	if err := tx.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1 FOR UPDATE", userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	if err := decide(&user); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET
			subscription_tier = $2,
			subscription_expires_at = $3,
			events_remaining = $4,
			monthly_credits = $5,
			billing_day = $6,
			last_credit_reset_at = $7,
			stacked_tier = $8,
			stacked_expires_at = $9,
			stacked_events_remaining = $10,
			stacked_monthly_credits = $11,
			updated_at = NOW()
		WHERE id = $1`,
		user.ID,
		user.SubscriptionTier,
		user.SubscriptionExpiresAt,
		user.EventsRemaining,
		user.MonthlyCredits,
		user.BillingDay,
		user.LastCreditResetAt,
		user.StackedTier,
		user.StackedExpiresAt,
		user.StackedEventsRemaining,
		user.StackedMonthlyCredits,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE redeem_codes SET times_used = times_used + 1
		WHERE id = $1 AND times_used < max_uses`, codeID)
	if err != nil {
		return fmt.Errorf("failed to increment code usage: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCodeExhausted
	}

	return tx.Commit()
}

// CreateRedeemCode creates a new redeem code (admin function).
func (r *Repository) CreateRedeemCode(ctx context.Context, rc *model.RedeemCode) error {
	query := `
		INSERT INTO redeem_codes (code, tier, events_granted, duration_days, max_uses, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		rc.Code,
		rc.Tier,
		rc.EventsGranted,
		rc.DurationDays,
		rc.MaxUses,
		rc.IsActive,
		rc.CreatedBy,
	).Scan(&rc.ID, &rc.CreatedAt)
}

// ListRedeemCodes lists codes, newest first (admin function).
func (r *Repository) ListRedeemCodes(ctx context.Context, limit, offset int) ([]model.RedeemCode, error) {
	var codes []model.RedeemCode
	err := r.db.SelectContext(ctx, &codes, `
		SELECT * FROM redeem_codes
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	return codes, err
}

// DeactivateRedeemCode flips a code inactive (admin function).
func (r *Repository) DeactivateRedeemCode(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE redeem_codes SET is_active = false WHERE id = $1`, id)
	return err
}
