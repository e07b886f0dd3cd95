package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapselect/backend/internal/model"
)

func testEvent(userID uuid.UUID) *model.Event {
	return &model.Event{
		UserID:        userID,
		Name:          "Wedding Shoot",
		DriveFolderID: "folder123",
		ShareToken:    "SHARETOKEN123456",
		IsActive:      true,
	}
}

func TestCreateEventSpendingCreditCommits(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()
	ev := testEvent(userID)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO events`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(uuid.NewString(), time.Now(), time.Now()))
	mock.ExpectCommit()

	ok, err := repo.CreateEventSpendingCredit(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEqual(t, uuid.Nil, ev.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEventSpendingCreditEmptyBalance(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()

	// The WHERE clause filters out a zero balance; nothing is inserted.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ok, err := repo.CreateEventSpendingCredit(context.Background(), testEvent(userID))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed insert rolls the credit decrement back with it.
func TestCreateEventSpendingCreditInsertFailureRefunds(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO events`).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	ok, err := repo.CreateEventSpendingCredit(context.Background(), testEvent(userID))
	require.Error(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
