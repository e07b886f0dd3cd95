package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
	"github.com/snapselect/backend/internal/repository"
)

var (
	ErrNotAdmin    = errors.New("admin access required")
	ErrUnknownTier = errors.New("unknown subscription tier")
)

type AdminService struct {
	repo *repository.Repository
}

func NewAdminService(repo *repository.Repository) *AdminService {
	return &AdminService{repo: repo}
}

func (s *AdminService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}

type AdminStats struct {
	TotalUsers          int `json:"total_users"`
	ActiveSubscriptions int `json:"active_subscriptions"`
}

func (s *AdminService) GetStats(ctx context.Context) (*AdminStats, error) {
	total, active, err := s.repo.CountUsers(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return &AdminStats{TotalUsers: total, ActiveSubscriptions: active}, nil
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int, search string) ([]model.User, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListUsers(ctx, limit, offset, search)
}

func (s *AdminService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetUser(ctx, id)
}

type CreateCodeParams struct {
	Tier          string
	EventsGranted int
	DurationDays  int
	MaxUses       int
	Prefix        string
}

// GenerateRedeemCode creates one random code. The tier string is normalized
// and validated here, at the boundary, not inside comparison logic.
func (s *AdminService) GenerateRedeemCode(ctx context.Context, adminID uuid.UUID, params CreateCodeParams) (*model.RedeemCode, error) {
	tier, ok := model.ParseTier(params.Tier)
	if !ok {
		return nil, ErrUnknownTier
	}

	rc := &model.RedeemCode{
		Code:          model.NormalizeCode(params.Prefix + generateRandomCode(8)),
		Tier:          tier,
		EventsGranted: params.EventsGranted,
		DurationDays:  params.DurationDays,
		MaxUses:       params.MaxUses,
		IsActive:      true,
		CreatedBy:     &adminID,
	}
	if err := s.repo.CreateRedeemCode(ctx, rc); err != nil {
		return nil, err
	}

	s.logAdminAction(ctx, adminID, model.ActionCodeCreated, nil, map[string]interface{}{
		"code":           rc.Code,
		"tier":           rc.Tier,
		"events_granted": rc.EventsGranted,
		"duration_days":  rc.DurationDays,
		"max_uses":       rc.MaxUses,
	})

	return rc, nil
}

// GenerateBulkRedeemCodes creates up to 100 codes at once.
func (s *AdminService) GenerateBulkRedeemCodes(ctx context.Context, adminID uuid.UUID, count int, params CreateCodeParams) ([]string, error) {
	if count <= 0 || count > 100 {
		return nil, errors.New("count must be between 1 and 100")
	}

	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		rc, err := s.GenerateRedeemCode(ctx, adminID, params)
		if err != nil {
			return codes, err
		}
		codes = append(codes, rc.Code)
	}
	return codes, nil
}

func (s *AdminService) ListRedeemCodes(ctx context.Context, limit, offset int) ([]model.RedeemCode, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRedeemCodes(ctx, limit, offset)
}

func (s *AdminService) DeactivateRedeemCode(ctx context.Context, adminID uuid.UUID, code string) error {
	rc, err := s.repo.GetRedeemCodeByCode(ctx, code)
	if err != nil {
		return err
	}
	if rc == nil {
		return ErrInvalidCode
	}
	if err := s.repo.DeactivateRedeemCode(ctx, rc.ID); err != nil {
		return err
	}

	s.logAdminAction(ctx, adminID, model.ActionCodeDeactivated, nil, map[string]interface{}{
		"code": rc.Code,
	})
	return nil
}

// ExtendUserSubscription pushes a user's expiry forward by days.
func (s *AdminService) ExtendUserSubscription(ctx context.Context, adminID, targetUserID uuid.UUID, days int) error {
	if days <= 0 {
		return errors.New("days must be positive")
	}
	if err := s.repo.ExtendSubscriptionDays(ctx, targetUserID, days); err != nil {
		return err
	}

	s.logAdminAction(ctx, adminID, model.ActionSubExtended, &targetUserID, map[string]interface{}{
		"days": days,
	})
	return nil
}

// CancelUserSubscription resets a user's snapshot, stacked subscription
// included.
func (s *AdminService) CancelUserSubscription(ctx context.Context, adminID, targetUserID uuid.UUID) error {
	if err := s.repo.CancelSubscription(ctx, targetUserID); err != nil {
		return err
	}

	s.logAdminAction(ctx, adminID, model.ActionSubCancelled, &targetUserID, nil)
	return nil
}

func (s *AdminService) GetActivityLogs(ctx context.Context, limit, offset int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListAllActivities(ctx, limit, offset)
}

func (s *AdminService) logAdminAction(ctx context.Context, adminID uuid.UUID, action string, target *uuid.UUID, details map[string]interface{}) {
	if err := s.repo.RecordActivity(ctx, adminID, action, target, details); err != nil {
		log.Printf("Failed to record admin action %s: %v", action, err)
	}
}

// generateRandomCode generates a random alphanumeric code. The charset skips
// characters that read ambiguously when printed on a card.
func generateRandomCode(length int) string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		sb.WriteByte(charset[n.Int64()])
	}
	return sb.String()
}
