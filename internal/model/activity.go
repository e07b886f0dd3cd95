package model

import (
	"time"

	"github.com/google/uuid"
)

// Activity is an append-only audit record. Writes are best-effort telemetry
// and never roll back the change they describe.
type Activity struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	Action       string     `json:"action" db:"action"`
	TargetUserID *uuid.UUID `json:"target_user_id,omitempty" db:"target_user_id"`
	Details      []byte     `json:"details,omitempty" db:"details"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Activity action constants
const (
	ActionCodeRedeemed    = "code_redeemed"
	ActionCodeCreated     = "code_created"
	ActionCodeDeactivated = "code_deactivated"
	ActionSubExtended     = "subscription_extended"
	ActionSubCancelled    = "subscription_cancelled"
	ActionEventCreated    = "event_created"
	ActionEventDeleted    = "event_deleted"
)
