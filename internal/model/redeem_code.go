package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RedeemCode grants a subscription tier for a number of days. Codes are the
// only monetization primitive.
type RedeemCode struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Code          string     `json:"code" db:"code"` // stored normalized (upper, trimmed)
	Tier          Tier       `json:"tier" db:"tier"`
	EventsGranted int        `json:"events_granted" db:"events_granted"`
	DurationDays  int        `json:"duration_days" db:"duration_days"`
	MaxUses       int        `json:"max_uses" db:"max_uses"`
	TimesUsed     int        `json:"times_used" db:"times_used"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// NormalizeCode is the canonical key form: trimmed and uppercased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// HasUsesLeft reports whether the code is under its usage limit.
func (c *RedeemCode) HasUsesLeft() bool {
	return c.TimesUsed < c.MaxUses
}

// MaskedCode returns the code with everything past the first three characters
// masked, for audit records.
func (c *RedeemCode) MaskedCode() string {
	if len(c.Code) <= 3 {
		return c.Code + "****"
	}
	return c.Code[:3] + "****"
}
