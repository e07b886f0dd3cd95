package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/drive"
	"github.com/snapselect/backend/internal/model"
	"github.com/snapselect/backend/internal/repository"
)

var (
	ErrEventNotOwned        = errors.New("event belongs to another account")
	ErrNoActiveSubscription = errors.New("an active subscription is required to create events")
	ErrNoEventCredits       = errors.New("no event credits remaining")
)

// Photo is one swipeable item in a client gallery.
type Photo struct {
	FileID       string `json:"file_id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type EventService struct {
	repo        *repository.Repository
	driveClient *drive.Client
	subSvc      *SubscriptionService
}

func NewEventService(repo *repository.Repository, driveClient *drive.Client, subSvc *SubscriptionService) *EventService {
	return &EventService{
		repo:        repo,
		driveClient: driveClient,
		subSvc:      subSvc,
	}
}

// CreateEvent creates a photo set. Requires an active subscription and spends
// one event credit; the spend and the insert commit together, so a failed
// insert cannot burn the credit.
func (s *EventService) CreateEvent(ctx context.Context, userID uuid.UUID, name string, clientName *string, driveFolderID string) (*model.Event, error) {
	status, err := s.subSvc.GetStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !status.IsActive {
		return nil, ErrNoActiveSubscription
	}

	ev := &model.Event{
		UserID:        userID,
		Name:          name,
		ClientName:    clientName,
		DriveFolderID: driveFolderID,
		ShareToken:    generateRandomCode(16),
		IsActive:      true,
	}
	ok, err := s.repo.CreateEventSpendingCredit(ctx, ev)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoEventCredits
	}

	if err := s.repo.RecordActivity(ctx, userID, model.ActionEventCreated, nil, map[string]interface{}{
		"event_id": ev.ID,
		"name":     ev.Name,
	}); err != nil {
		log.Printf("Failed to record event creation for user %s: %v", userID, err)
	}

	return ev, nil
}

func (s *EventService) GetOwnedEvent(ctx context.Context, userID, eventID uuid.UUID) (*model.Event, error) {
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.UserID != userID {
		return nil, ErrEventNotOwned
	}
	return ev, nil
}

func (s *EventService) GetEventByShareToken(ctx context.Context, token string) (*model.Event, error) {
	return s.repo.GetEventByShareToken(ctx, token)
}

func (s *EventService) ListEvents(ctx context.Context, userID uuid.UUID) ([]model.Event, error) {
	return s.repo.ListEvents(ctx, userID)
}

func (s *EventService) UpdateEvent(ctx context.Context, ev *model.Event) error {
	return s.repo.UpdateEvent(ctx, ev)
}

func (s *EventService) DeleteEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	if _, err := s.GetOwnedEvent(ctx, userID, eventID); err != nil {
		return err
	}
	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.repo.RecordActivity(ctx, userID, model.ActionEventDeleted, nil, map[string]interface{}{
		"event_id": eventID,
	}); err != nil {
		log.Printf("Failed to record event deletion for user %s: %v", userID, err)
	}
	return nil
}

// ListPhotos pulls the event's synced Drive folder and maps it to gallery
// items.
func (s *EventService) ListPhotos(ctx context.Context, ev *model.Event) ([]Photo, error) {
	files, err := s.driveClient.ListFolderImages(ctx, ev.DriveFolderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drive folder: %w", err)
	}

	photos := make([]Photo, 0, len(files))
	for _, f := range files {
		thumb := f.ThumbnailLink
		if thumb == "" {
			thumb = drive.ThumbnailURL(f.ID, 640)
		}
		photos = append(photos, Photo{
			FileID:       f.ID,
			Name:         f.Name,
			ThumbnailURL: thumb,
		})
	}
	return photos, nil
}
