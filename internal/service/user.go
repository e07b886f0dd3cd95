package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
	"github.com/snapselect/backend/internal/repository"
)

type UserService struct {
	repo *repository.Repository
}

func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetUser(ctx, id)
}

// GetOrCreateUser upserts the profile row for an authenticated subject. The
// subscription snapshot is created implicitly here, in the never-subscribed
// shape.
func (s *UserService) GetOrCreateUser(ctx context.Context, id uuid.UUID, email string, displayName *string) (*model.User, error) {
	user := &model.User{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		Role:        model.UserRolePhotographer,
	}
	if err := s.repo.UpsertUser(ctx, user); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

func (s *UserService) ListActivities(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListActivities(ctx, userID, limit, offset)
}
