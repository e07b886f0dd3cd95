package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
	"github.com/snapselect/backend/internal/repository"
)

var (
	ErrInvalidCode    = errors.New("invalid or expired code")
	ErrMaxUsesReached = errors.New("this code has reached its usage limit")
)

// StackingConflictError rejects an upgrade while another subscription is
// already queued. The message names both the pending and the blocking tier.
type StackingConflictError struct {
	Pending model.Tier
	Current model.Tier
}

func (e *StackingConflictError) Error() string {
	return fmt.Sprintf("a %s subscription is already queued behind your current %s subscription", e.Pending, e.Current)
}

// DowngradeBlockedError rejects a code for a lower tier while the current one
// is still active.
type DowngradeBlockedError struct {
	Current model.Tier
	Target  model.Tier
}

func (e *DowngradeBlockedError) Error() string {
	return fmt.Sprintf("cannot downgrade from %s to %s while your subscription is active", e.Current, e.Target)
}

type RedeemAction string

const (
	RedeemActionNew     RedeemAction = "new"
	RedeemActionExtend  RedeemAction = "extend"
	RedeemActionUpgrade RedeemAction = "upgrade"
)

type RedeemResult struct {
	Tier          model.Tier   `json:"tier"`
	EventsGranted int          `json:"events_granted"`
	ExpiresAt     time.Time    `json:"expires_at"`
	Action        RedeemAction `json:"action"`
	Message       string       `json:"message"`
}

// RedemptionStore is the slice of the repository the engine needs.
type RedemptionStore interface {
	GetRedeemCodeByCode(ctx context.Context, code string) (*model.RedeemCode, error)
	ApplyRedemption(ctx context.Context, userID, codeID uuid.UUID, decide func(u *model.User) error) error
	RecordActivity(ctx context.Context, userID uuid.UUID, action string, targetUserID *uuid.UUID, details map[string]interface{}) error
}

type RedemptionService struct {
	store RedemptionStore
}

func NewRedemptionService(store RedemptionStore) *RedemptionService {
	return &RedemptionService{store: store}
}

// Redeem applies a code to the caller's account. Validation order is fixed:
// unknown/inactive code first, then the usage limit; the first failing check
// wins and nothing is mutated. The account update and the usage increment
// commit in one transaction.
func (s *RedemptionService) Redeem(ctx context.Context, userID uuid.UUID, rawCode string, now time.Time) (*RedeemResult, error) {
	code, err := s.store.GetRedeemCodeByCode(ctx, rawCode)
	if err != nil {
		return nil, err
	}
	if code == nil || !code.IsActive {
		return nil, ErrInvalidCode
	}
	if !code.HasUsesLeft() {
		return nil, ErrMaxUsesReached
	}

	var result *RedeemResult
	err = s.store.ApplyRedemption(ctx, userID, code.ID, func(u *model.User) error {
		r, err := applyRedemption(u, code, now)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrCodeExhausted) {
			// Lost a race against a concurrent redemption of the last use.
			return nil, ErrMaxUsesReached
		}
		return nil, err
	}

	// The redemption has committed; the audit trail is best-effort.
	if err := s.store.RecordActivity(ctx, userID, model.ActionCodeRedeemed, nil, map[string]interface{}{
		"code":           code.MaskedCode(),
		"tier":           result.Tier,
		"action":         result.Action,
		"events_granted": result.EventsGranted,
		"redeemed_at":    now,
	}); err != nil {
		log.Printf("Failed to record redemption activity for user %s: %v", userID, err)
	}

	return result, nil
}

// applyRedemption computes the next subscription snapshot in place.
// Classification against the current state:
//   - lapsed or never subscribed: fresh activation (any stacked leftover is cleared)
//   - active, same tier: additive extension of expiry and credits
//   - active, higher tier: current subscription is stacked, new tier activates
//   - active, lower tier: rejected
func applyRedemption(u *model.User, code *model.RedeemCode, now time.Time) (*RedeemResult, error) {
	if !u.IsSubscriptionActive(now) {
		return activate(u, code, now), nil
	}

	// A NULL tier on an otherwise active snapshot ranks as free.
	current := model.TierFree
	if u.SubscriptionTier != nil {
		current = *u.SubscriptionTier
	}
	target := code.Tier.Level()

	switch {
	case target == current.Level():
		return extend(u, code), nil

	case target > current.Level():
		if u.HasStacked() {
			return nil, &StackingConflictError{Pending: *u.StackedTier, Current: current}
		}
		// Queue the running subscription behind the new one, untouched.
		stacked := current
		u.StackedTier = &stacked
		u.StackedExpiresAt = u.SubscriptionExpiresAt
		u.StackedEventsRemaining = u.EventsRemaining
		u.StackedMonthlyCredits = u.MonthlyCredits
		res := activate(u, code, now)
		res.Action = RedeemActionUpgrade
		res.Message = fmt.Sprintf("Upgraded to %s. Your %s subscription will resume when it expires.", code.Tier, stacked)
		return res, nil

	default:
		return nil, &DowngradeBlockedError{Current: current, Target: code.Tier}
	}
}

// activate writes a fresh subscription over the active fields. Stacked fields
// are left alone; fresh activation after a lapse clears them first.
func activate(u *model.User, code *model.RedeemCode, now time.Time) *RedeemResult {
	if !u.IsSubscriptionActive(now) {
		u.StackedTier = nil
		u.StackedExpiresAt = nil
		u.StackedEventsRemaining = nil
		u.StackedMonthlyCredits = nil
	}

	tier := code.Tier
	expiresAt := now.AddDate(0, 0, code.DurationDays)
	resetAt := now

	credits := model.CreditsOf(code.EventsGranted)
	if tier == model.TierUnlimited {
		credits = model.UnlimitedCredits()
	}

	u.SubscriptionTier = &tier
	u.SubscriptionExpiresAt = &expiresAt
	u.EventsRemaining = credits.Ptr()
	u.MonthlyCredits = credits.Ptr()
	u.BillingDay = min(now.Day(), 28)
	u.LastCreditResetAt = &resetAt

	return &RedeemResult{
		Tier:          tier,
		EventsGranted: code.EventsGranted,
		ExpiresAt:     expiresAt,
		Action:        RedeemActionNew,
		Message:       fmt.Sprintf("Your %s subscription is active until %s.", tier, expiresAt.Format("January 2, 2006")),
	}
}

// extend pushes the expiry forward from the current expiry, not from now, and
// grants credits on top of the current balance. The unlimited tier has no
// balance to grant onto. Billing anchor and last reset are unchanged.
func extend(u *model.User, code *model.RedeemCode) *RedeemResult {
	tier := code.Tier
	expiresAt := u.SubscriptionExpiresAt.AddDate(0, 0, code.DurationDays)
	u.SubscriptionTier = &tier
	u.SubscriptionExpiresAt = &expiresAt

	if tier != model.TierUnlimited {
		u.EventsRemaining = model.CreditsFromPtr(u.EventsRemaining).Add(code.EventsGranted).Ptr()
		u.MonthlyCredits = model.CreditsFromPtr(u.MonthlyCredits).Add(code.EventsGranted).Ptr()
	}

	return &RedeemResult{
		Tier:          tier,
		EventsGranted: code.EventsGranted,
		ExpiresAt:     expiresAt,
		Action:        RedeemActionExtend,
		Message:       fmt.Sprintf("Your %s subscription was extended by %d days, until %s.", tier, code.DurationDays, expiresAt.Format("January 2, 2006")),
	}
}
