package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapselect/backend/internal/model"
)

// fakeReconcileStore holds users in memory and applies the same conditional
// semantics as the SQL layer, so reruns against it are no-ops too.
type fakeReconcileStore struct {
	users map[uuid.UUID]*model.User

	promoteErr map[uuid.UUID]error
	resetErr   map[uuid.UUID]error

	// raceLost makes the next conditional update for the account match no
	// row, as if a concurrent run got there first.
	raceLost map[uuid.UUID]bool

	promoted []uuid.UUID
	cleared  []uuid.UUID
	resets   []uuid.UUID
}

func newFakeReconcileStore(users ...*model.User) *fakeReconcileStore {
	s := &fakeReconcileStore{
		users:      make(map[uuid.UUID]*model.User),
		promoteErr: make(map[uuid.UUID]error),
		resetErr:   make(map[uuid.UUID]error),
		raceLost:   make(map[uuid.UUID]bool),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeReconcileStore) ListLapsedWithStacked(_ context.Context, now time.Time) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		if u.StackedTier != nil && u.SubscriptionExpiresAt != nil && u.SubscriptionExpiresAt.Before(now) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeReconcileStore) PromoteStacked(_ context.Context, id uuid.UUID) (bool, error) {
	if err := s.promoteErr[id]; err != nil {
		return false, err
	}
	u := s.users[id]
	if s.raceLost[id] || u.StackedTier == nil {
		return false, nil
	}
	u.SubscriptionTier = u.StackedTier
	u.SubscriptionExpiresAt = u.StackedExpiresAt
	u.EventsRemaining = u.StackedEventsRemaining
	u.MonthlyCredits = u.StackedMonthlyCredits
	u.StackedTier = nil
	u.StackedExpiresAt = nil
	u.StackedEventsRemaining = nil
	u.StackedMonthlyCredits = nil
	s.promoted = append(s.promoted, id)
	return true, nil
}

func (s *fakeReconcileStore) ClearStacked(_ context.Context, id uuid.UUID) (bool, error) {
	u := s.users[id]
	if u.StackedTier == nil {
		return false, nil
	}
	u.StackedTier = nil
	u.StackedExpiresAt = nil
	u.StackedEventsRemaining = nil
	u.StackedMonthlyCredits = nil
	s.cleared = append(s.cleared, id)
	return true, nil
}

func (s *fakeReconcileStore) ListDueForCreditReset(_ context.Context, now time.Time) ([]model.User, error) {
	var out []model.User
	for _, u := range s.users {
		if u.BillingDay == now.Day() && u.IsSubscriptionActive(now) && u.MonthlyCredits != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeReconcileStore) ResetMonthlyCredits(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	if err := s.resetErr[id]; err != nil {
		return false, err
	}
	u := s.users[id]
	if s.raceLost[id] || (u.LastCreditResetAt != nil && sameMonth(*u.LastCreditResetAt, now)) {
		return false, nil
	}
	fresh := *u.MonthlyCredits
	u.EventsRemaining = &fresh
	u.LastCreditResetAt = &now
	s.resets = append(s.resets, id)
	return true, nil
}

func lapsedWithStacked(stackedExpiry time.Time) *model.User {
	return &model.User{
		ID:                     uuid.New(),
		SubscriptionTier:       tierPtr(model.TierPro),
		SubscriptionExpiresAt:  timePtr(date(2024, time.March, 1)),
		EventsRemaining:        intPtr(0),
		StackedTier:            tierPtr(model.TierBasic),
		StackedExpiresAt:       timePtr(stackedExpiry),
		StackedEventsRemaining: intPtr(9),
		StackedMonthlyCredits:  intPtr(15),
	}
}

func TestReconcilePromotesLiveStacked(t *testing.T) {
	now := date(2024, time.March, 5)
	u := lapsedWithStacked(date(2024, time.March, 20))
	store := newFakeReconcileStore(u)
	svc := NewReconcileService(store)

	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Restore.Processed)
	assert.Equal(t, 0, report.Restore.Errors)
	assert.Equal(t, "2024-03-05", report.Day)

	assert.Equal(t, model.TierBasic, *u.SubscriptionTier)
	assert.Equal(t, date(2024, time.March, 20), *u.SubscriptionExpiresAt)
	assert.Equal(t, 9, *u.EventsRemaining)
	assert.Nil(t, u.StackedTier)
}

func TestReconcileClearsExpiredStacked(t *testing.T) {
	now := date(2024, time.March, 5)
	u := lapsedWithStacked(date(2024, time.March, 2))
	store := newFakeReconcileStore(u)
	svc := NewReconcileService(store)

	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Restore.Processed)
	assert.Empty(t, store.promoted)
	assert.Equal(t, []uuid.UUID{u.ID}, store.cleared)

	// The lapsed active subscription is left for the status query to report;
	// only the dead stacked one is dropped.
	assert.Equal(t, model.TierPro, *u.SubscriptionTier)
	assert.Nil(t, u.StackedTier)
}

func TestReconcileRestoreRerunIsNoop(t *testing.T) {
	now := date(2024, time.March, 5)
	u := lapsedWithStacked(date(2024, time.March, 20))
	store := newFakeReconcileStore(u)
	svc := NewReconcileService(store)

	_, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Restore.Processed)
	assert.Len(t, store.promoted, 1)
}

func TestReconcileRestoreCountsFailures(t *testing.T) {
	now := date(2024, time.March, 5)
	bad := lapsedWithStacked(date(2024, time.March, 20))
	good := lapsedWithStacked(date(2024, time.March, 25))
	store := newFakeReconcileStore(bad, good)
	store.promoteErr[bad.ID] = errors.New("deadlock detected")
	svc := NewReconcileService(store)

	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Restore.Processed)
	assert.Equal(t, 1, report.Restore.Errors)
	assert.Equal(t, []uuid.UUID{good.ID}, store.promoted)
}

func TestReconcileResetsCreditsOnBillingDay(t *testing.T) {
	now := date(2024, time.February, 15)
	u := &model.User{
		ID:                    uuid.New(),
		SubscriptionTier:      tierPtr(model.TierStarter),
		SubscriptionExpiresAt: timePtr(date(2024, time.April, 1)),
		EventsRemaining:       intPtr(1),
		MonthlyCredits:        intPtr(5),
		BillingDay:            15,
		LastCreditResetAt:     timePtr(date(2024, time.January, 15)),
	}
	store := newFakeReconcileStore(u)
	svc := NewReconcileService(store)

	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Reset.Processed)
	assert.Equal(t, 5, *u.EventsRemaining)
	assert.Equal(t, now, *u.LastCreditResetAt)
}

func TestReconcileResetSkipsAlreadyResetThisMonth(t *testing.T) {
	now := date(2024, time.February, 15)
	u := &model.User{
		ID:                    uuid.New(),
		SubscriptionTier:      tierPtr(model.TierStarter),
		SubscriptionExpiresAt: timePtr(date(2024, time.April, 1)),
		EventsRemaining:       intPtr(2),
		MonthlyCredits:        intPtr(5),
		BillingDay:            15,
		LastCreditResetAt:     timePtr(date(2024, time.February, 15)),
	}
	store := newFakeReconcileStore(u)
	svc := NewReconcileService(store)

	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Reset.Processed)
	assert.Equal(t, 1, report.Reset.Skipped)
	assert.Equal(t, 2, *u.EventsRemaining, "balance untouched on rerun")
	assert.Empty(t, store.resets)
}

// An update that matches no row lost a race with a concurrent run; the report
// counts it as a skip, not as work done.
func TestReconcileRestoreLostRaceCountsSkip(t *testing.T) {
	now := date(2024, time.March, 5)
	u := lapsedWithStacked(date(2024, time.March, 20))
	store := newFakeReconcileStore(u)
	store.raceLost[u.ID] = true
	svc := NewReconcileService(store)

	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Restore.Processed)
	assert.Equal(t, 1, report.Restore.Skipped)
	assert.Equal(t, 0, report.Restore.Errors)
}

func TestReconcileResetLostRaceCountsSkip(t *testing.T) {
	now := date(2024, time.February, 15)
	u := &model.User{
		ID:                    uuid.New(),
		SubscriptionTier:      tierPtr(model.TierStarter),
		SubscriptionExpiresAt: timePtr(date(2024, time.April, 1)),
		EventsRemaining:       intPtr(1),
		MonthlyCredits:        intPtr(5),
		BillingDay:            15,
	}
	store := newFakeReconcileStore(u)
	store.raceLost[u.ID] = true
	svc := NewReconcileService(store)

	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Reset.Processed)
	assert.Equal(t, 1, report.Reset.Skipped)
	assert.Equal(t, 1, *u.EventsRemaining)
}

func TestReconcileResetSkipsUnlimitedAccounts(t *testing.T) {
	now := date(2024, time.February, 15)
	u := &model.User{
		ID:                    uuid.New(),
		SubscriptionTier:      tierPtr(model.TierUnlimited),
		SubscriptionExpiresAt: timePtr(date(2024, time.April, 1)),
		BillingDay:            15,
	}
	store := newFakeReconcileStore(u)
	svc := NewReconcileService(store)

	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Reset.Processed)
	assert.Nil(t, u.EventsRemaining)
}

func TestReconcileResetCountsFailures(t *testing.T) {
	now := date(2024, time.February, 15)
	u := &model.User{
		ID:                    uuid.New(),
		SubscriptionTier:      tierPtr(model.TierStarter),
		SubscriptionExpiresAt: timePtr(date(2024, time.April, 1)),
		MonthlyCredits:        intPtr(5),
		BillingDay:            15,
	}
	store := newFakeReconcileStore(u)
	store.resetErr[u.ID] = errors.New("connection reset")
	svc := NewReconcileService(store)

	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Reset.Processed)
	assert.Equal(t, 1, report.Reset.Errors)
}

func TestSameMonth(t *testing.T) {
	assert.True(t, sameMonth(date(2024, time.February, 1), date(2024, time.February, 28)))
	assert.False(t, sameMonth(date(2024, time.February, 15), date(2024, time.March, 15)))
	// Same month of a different year is a different month.
	assert.False(t, sameMonth(date(2023, time.February, 15), date(2024, time.February, 15)))
}
