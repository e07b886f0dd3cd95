package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpsertUser creates the account row on first sight of an authenticated
// subject. The subscription snapshot starts in the never-subscribed shape.
func (r *Repository) UpsertUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, display_name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = COALESCE(EXCLUDED.display_name, users.display_name),
			updated_at = NOW()
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *Repository) ListUsers(ctx context.Context, limit, offset int, search string) ([]model.User, int, error) {
	var users []model.User
	var total int

	if search != "" {
		pattern := "%" + search + "%"
		if err := r.db.GetContext(ctx, &total,
			"SELECT COUNT(*) FROM users WHERE email ILIKE $1 OR display_name ILIKE $1", pattern); err != nil {
			return nil, 0, err
		}
		err := r.db.SelectContext(ctx, &users, `
			SELECT * FROM users
			WHERE email ILIKE $1 OR display_name ILIKE $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`, pattern, limit, offset)
		return users, total, err
	}

	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"); err != nil {
		return nil, 0, err
	}
	err := r.db.SelectContext(ctx, &users, `
		SELECT * FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	return users, total, err
}

// ExtendSubscriptionDays pushes the active expiry forward (admin operation).
func (r *Repository) ExtendSubscriptionDays(ctx context.Context, id uuid.UUID, days int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			subscription_expires_at = subscription_expires_at + interval '1 day' * $2,
			updated_at = NOW()
		WHERE id = $1 AND subscription_expires_at IS NOT NULL`, id, days)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CancelSubscription resets the snapshot to the no-active-subscription shape,
// stacked subscription included (admin operation).
func (r *Repository) CancelSubscription(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			subscription_tier = NULL,
			subscription_expires_at = NULL,
			events_remaining = NULL,
			monthly_credits = NULL,
			stacked_tier = NULL,
			stacked_expires_at = NULL,
			stacked_events_remaining = NULL,
			stacked_monthly_credits = NULL,
			updated_at = NOW()
		WHERE id = $1`, id)
	return err
}

// ListLapsedWithStacked returns accounts whose active subscription has lapsed
// while a stacked one waits behind it.
func (r *Repository) ListLapsedWithStacked(ctx context.Context, now time.Time) ([]model.User, error) {
	var users []model.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT * FROM users
		WHERE stacked_tier IS NOT NULL AND subscription_expires_at < $1`, now)
	return users, err
}

// PromoteStacked moves the stacked subscription into the active fields and
// clears the stacked ones. The stacked_tier guard makes concurrent or
// repeated runs promote at most once per stacked subscription.
func (r *Repository) PromoteStacked(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			subscription_tier = stacked_tier,
			subscription_expires_at = stacked_expires_at,
			events_remaining = stacked_events_remaining,
			monthly_credits = stacked_monthly_credits,
			stacked_tier = NULL,
			stacked_expires_at = NULL,
			stacked_events_remaining = NULL,
			stacked_monthly_credits = NULL,
			updated_at = NOW()
		WHERE id = $1 AND stacked_tier IS NOT NULL`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ClearStacked drops a stacked subscription that expired before it could be
// promoted.
func (r *Repository) ClearStacked(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			stacked_tier = NULL,
			stacked_expires_at = NULL,
			stacked_events_remaining = NULL,
			stacked_monthly_credits = NULL,
			updated_at = NOW()
		WHERE id = $1 AND stacked_tier IS NOT NULL`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListDueForCreditReset returns accounts whose billing anniversary is today
// and that carry a finite monthly allotment on an active subscription.
func (r *Repository) ListDueForCreditReset(ctx context.Context, now time.Time) ([]model.User, error) {
	var users []model.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT * FROM users
		WHERE billing_day = $1
			AND subscription_expires_at > $2
			AND monthly_credits IS NOT NULL`, now.Day(), now)
	return users, err
}

// ResetMonthlyCredits restores events_remaining to the monthly allotment. The
// same-month guard keeps the reset idempotent within a calendar month even if
// two sweeps race on the same row.
func (r *Repository) ResetMonthlyCredits(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			events_remaining = monthly_credits,
			last_credit_reset_at = $2,
			updated_at = NOW()
		WHERE id = $1
			AND monthly_credits IS NOT NULL
			AND (last_credit_reset_at IS NULL
				OR date_trunc('month', last_credit_reset_at) < date_trunc('month', $2::timestamptz))`, id, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountUsers returns total accounts and accounts with an active subscription.
func (r *Repository) CountUsers(ctx context.Context, now time.Time) (total int, active int, err error) {
	if err = r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, 0, err
	}
	err = r.db.GetContext(ctx, &active,
		"SELECT COUNT(*) FROM users WHERE subscription_expires_at > $1", now)
	return total, active, err
}
