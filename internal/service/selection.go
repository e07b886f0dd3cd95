package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/model"
	"github.com/snapselect/backend/internal/repository"
)

type SelectionService struct {
	repo *repository.Repository
}

func NewSelectionService(repo *repository.Repository) *SelectionService {
	return &SelectionService{repo: repo}
}

func (s *SelectionService) ListSelections(ctx context.Context, eventID uuid.UUID) ([]model.Selection, error) {
	return s.repo.ListSelections(ctx, eventID)
}

// Select marks a photo as a favorite. Re-selecting is a no-op apart from an
// updated note.
func (s *SelectionService) Select(ctx context.Context, eventID uuid.UUID, fileID, fileName string, thumbnailURL, note *string) (*model.Selection, error) {
	sel := &model.Selection{
		EventID:      eventID,
		FileID:       fileID,
		FileName:     fileName,
		ThumbnailURL: thumbnailURL,
		Note:         note,
	}
	if err := s.repo.UpsertSelection(ctx, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

func (s *SelectionService) Deselect(ctx context.Context, eventID uuid.UUID, fileID string) error {
	return s.repo.DeleteSelection(ctx, eventID, fileID)
}

func (s *SelectionService) CountSelections(ctx context.Context, eventID uuid.UUID) (int, error) {
	return s.repo.CountSelections(ctx, eventID)
}
