package model

import (
	"time"

	"github.com/google/uuid"
)

// Event is a photo set synced from a Google Drive folder. Clients reach it
// through the share token and swipe through its photos to pick favorites.
type Event struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	ClientName    *string   `json:"client_name,omitempty" db:"client_name"`
	DriveFolderID string    `json:"drive_folder_id" db:"drive_folder_id"`
	ShareToken    string    `json:"share_token" db:"share_token"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Selection is a client's favorite within an event.
type Selection struct {
	ID           uuid.UUID `json:"id" db:"id"`
	EventID      uuid.UUID `json:"event_id" db:"event_id"`
	FileID       string    `json:"file_id" db:"file_id"`
	FileName     string    `json:"file_name" db:"file_name"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Note         *string   `json:"note,omitempty" db:"note"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
