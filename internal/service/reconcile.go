package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/config"
	"github.com/snapselect/backend/internal/model"
)

// ReconcileStore is the slice of the repository the daily sweep needs. All
// writes are conditional updates so a rerun on the same day is a no-op.
type ReconcileStore interface {
	ListLapsedWithStacked(ctx context.Context, now time.Time) ([]model.User, error)
	PromoteStacked(ctx context.Context, id uuid.UUID) (bool, error)
	ClearStacked(ctx context.Context, id uuid.UUID) (bool, error)
	ListDueForCreditReset(ctx context.Context, now time.Time) ([]model.User, error)
	ResetMonthlyCredits(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

type PassReport struct {
	Processed int `json:"processed"`
	// Skipped counts accounts whose conditional update matched no row,
	// typically because a concurrent run got there first.
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

type ReconcileReport struct {
	Day     string     `json:"day"`
	RanAt   time.Time  `json:"ran_at"`
	Restore PassReport `json:"restore"`
	Reset   PassReport `json:"reset"`
}

type ReconcileService struct {
	store ReconcileStore
}

func NewReconcileService(store ReconcileStore) *ReconcileService {
	return &ReconcileService{store: store}
}

// Run executes both daily passes. Each account is an independent unit of work
// with its own timeout; failures are counted, never fatal to the batch. An
// error is returned only when a bulk read itself fails.
func (s *ReconcileService) Run(ctx context.Context, now time.Time) (*ReconcileReport, error) {
	report := &ReconcileReport{
		Day:   now.Format("2006-01-02"),
		RanAt: now,
	}

	restore, err := s.restoreStacked(ctx, now)
	if err != nil {
		return nil, err
	}
	report.Restore = restore

	reset, err := s.resetCredits(ctx, now)
	if err != nil {
		return nil, err
	}
	report.Reset = reset

	return report, nil
}

// restoreStacked handles accounts whose active subscription lapsed while a
// stacked one waits: promote the stacked subscription if it is still in the
// future, otherwise just drop it.
func (s *ReconcileService) restoreStacked(ctx context.Context, now time.Time) (PassReport, error) {
	users, err := s.store.ListLapsedWithStacked(ctx, now)
	if err != nil {
		return PassReport{}, err
	}

	var report PassReport
	for _, u := range users {
		actx, cancel := context.WithTimeout(ctx, config.ReconcileAccountTimeout)

		var ok bool
		if u.StackedExpiresAt != nil && u.StackedExpiresAt.After(now) {
			ok, err = s.store.PromoteStacked(actx, u.ID)
		} else {
			// The stacked subscription itself has lapsed; no promotion.
			ok, err = s.store.ClearStacked(actx, u.ID)
		}
		cancel()

		if err != nil {
			log.Printf("Reconcile: failed to restore stacked subscription for user %s: %v", u.ID, err)
			report.Errors++
			continue
		}
		if !ok {
			// A concurrent run handled this account between list and update.
			report.Skipped++
			continue
		}
		report.Processed++
	}

	return report, nil
}

// resetCredits restores the monthly allotment on each account's billing
// anniversary. Accounts already reset this calendar month are skipped, so
// re-running the job on the same day cannot double-credit.
func (s *ReconcileService) resetCredits(ctx context.Context, now time.Time) (PassReport, error) {
	users, err := s.store.ListDueForCreditReset(ctx, now)
	if err != nil {
		return PassReport{}, err
	}

	var report PassReport
	for _, u := range users {
		if u.LastCreditResetAt != nil && sameMonth(*u.LastCreditResetAt, now) {
			report.Skipped++
			continue
		}

		actx, cancel := context.WithTimeout(ctx, config.ReconcileAccountTimeout)
		ok, err := s.store.ResetMonthlyCredits(actx, u.ID, now)
		cancel()

		if err != nil {
			log.Printf("Reconcile: failed to reset credits for user %s: %v", u.ID, err)
			report.Errors++
			continue
		}
		if !ok {
			// The same-month guard in SQL caught a racing reset.
			report.Skipped++
			continue
		}
		report.Processed++
	}

	return report, nil
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
