package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
	"github.com/snapselect/backend/internal/repository"
)

// SubscriptionStatus is the UI-facing view for gating features. A NULL
// balance (unlimited tier) is deliberately collapsed to 0 here; callers gate
// on Tier, not on the count, for unlimited accounts.
type SubscriptionStatus struct {
	IsActive        bool   `json:"is_active"`
	Tier            string `json:"tier"`
	EventsRemaining int    `json:"events_remaining"`
}

// Status derives the gating view from a snapshot. Pure, no mutation.
func Status(u *model.User, now time.Time) SubscriptionStatus {
	status := SubscriptionStatus{
		IsActive: u.IsSubscriptionActive(now),
		Tier:     string(model.TierFree),
	}
	if u.SubscriptionTier != nil {
		status.Tier = string(*u.SubscriptionTier)
	}
	if u.EventsRemaining != nil {
		status.EventsRemaining = *u.EventsRemaining
	}
	return status
}

type SubscriptionService struct {
	repo *repository.Repository
}

func NewSubscriptionService(repo *repository.Repository) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

func (s *SubscriptionService) GetStatus(ctx context.Context, userID uuid.UUID) (*SubscriptionStatus, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	status := Status(user, time.Now())
	return &status, nil
}
