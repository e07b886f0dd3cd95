package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRolePhotographer UserRole = "photographer"
	UserRoleAdmin        UserRole = "admin"
)

// User is an account record. The subscription snapshot (tier, expiry, credits,
// billing anchor and the stacked_* fields) is mutated only by the redemption
// engine and the daily reconcile job; both must agree on its field semantics.
type User struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DisplayName *string   `json:"display_name,omitempty" db:"display_name"`
	Role        UserRole  `json:"role" db:"role"`

	SubscriptionTier      *Tier      `json:"subscription_tier,omitempty" db:"subscription_tier"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty" db:"subscription_expires_at"`
	EventsRemaining       *int       `json:"events_remaining,omitempty" db:"events_remaining"`
	MonthlyCredits        *int       `json:"monthly_credits,omitempty" db:"monthly_credits"`
	BillingDay            int        `json:"billing_day" db:"billing_day"`
	LastCreditResetAt     *time.Time `json:"last_credit_reset_at,omitempty" db:"last_credit_reset_at"`

	// At most one subscription may be stacked behind the active one.
	StackedTier            *Tier      `json:"stacked_tier,omitempty" db:"stacked_tier"`
	StackedExpiresAt       *time.Time `json:"stacked_expires_at,omitempty" db:"stacked_expires_at"`
	StackedEventsRemaining *int       `json:"stacked_events_remaining,omitempty" db:"stacked_events_remaining"`
	StackedMonthlyCredits  *int       `json:"stacked_monthly_credits,omitempty" db:"stacked_monthly_credits"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsSubscriptionActive reports whether the active subscription covers now.
func (u *User) IsSubscriptionActive(now time.Time) bool {
	return u.SubscriptionExpiresAt != nil && now.Before(*u.SubscriptionExpiresAt)
}

// IsUnlimited reports whether the active tier is the unlimited tier.
func (u *User) IsUnlimited() bool {
	return u.SubscriptionTier != nil && *u.SubscriptionTier == TierUnlimited
}

// HasStacked reports whether a subscription is queued behind the active one.
func (u *User) HasStacked() bool {
	return u.StackedTier != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
