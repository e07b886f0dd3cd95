package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapselect/backend/internal/middleware"
	"github.com/snapselect/backend/internal/model"
	"github.com/snapselect/backend/internal/service"
)

// redeemStore serves one code against one in-memory user.
type redeemStore struct {
	code *model.RedeemCode
	user *model.User
}

func (s *redeemStore) GetRedeemCodeByCode(_ context.Context, code string) (*model.RedeemCode, error) {
	if s.code != nil && s.code.Code == model.NormalizeCode(code) {
		return s.code, nil
	}
	return nil, nil
}

func (s *redeemStore) ApplyRedemption(_ context.Context, _, _ uuid.UUID, decide func(u *model.User) error) error {
	if err := decide(s.user); err != nil {
		return err
	}
	s.code.TimesUsed++
	return nil
}

func (s *redeemStore) RecordActivity(context.Context, uuid.UUID, string, *uuid.UUID, map[string]interface{}) error {
	return nil
}

func redeemApp(store *redeemStore, userID uuid.UUID) *fiber.App {
	h := &Handler{redemptionSvc: service.NewRedemptionService(store)}

	app := fiber.New()
	app.Post("/api/redeem", func(c *fiber.Ctx) error {
		if userID != uuid.Nil {
			c.Locals(middleware.UserIDKey, userID)
		}
		return h.Redeem(c)
	})
	return app
}

func postRedeem(t *testing.T, app *fiber.App, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/redeem", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func TestRedeemEndpointSuccess(t *testing.T) {
	store := &redeemStore{
		code: &model.RedeemCode{
			ID:            uuid.New(),
			Code:          "STARTER30",
			Tier:          model.TierStarter,
			EventsGranted: 5,
			DurationDays:  30,
			MaxUses:       10,
			IsActive:      true,
		},
		user: &model.User{},
	}
	app := redeemApp(store, uuid.New())

	status, payload := postRedeem(t, app, `{"code": "starter30"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "starter", payload["tier"])
	assert.Equal(t, "new", payload["action"])
	assert.Equal(t, float64(5), payload["events_granted"])
	assert.Equal(t, 1, store.code.TimesUsed)
}

func TestRedeemEndpointUnknownCode(t *testing.T) {
	app := redeemApp(&redeemStore{user: &model.User{}}, uuid.New())

	status, payload := postRedeem(t, app, `{"code": "NOPE"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.NotEmpty(t, payload["error"])
}

func TestRedeemEndpointDowngradeConflict(t *testing.T) {
	tier := model.TierPro
	expiry := time.Now().AddDate(0, 0, 10)
	store := &redeemStore{
		code: &model.RedeemCode{
			ID:           uuid.New(),
			Code:         "STARTER30",
			Tier:         model.TierStarter,
			DurationDays: 30,
			MaxUses:      10,
			IsActive:     true,
		},
		user: &model.User{
			SubscriptionTier:      &tier,
			SubscriptionExpiresAt: &expiry,
		},
	}
	app := redeemApp(store, uuid.New())

	status, payload := postRedeem(t, app, `{"code": "STARTER30"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, payload["error"], "downgrade")
	assert.Equal(t, 0, store.code.TimesUsed)
}

func TestRedeemEndpointEmptyCode(t *testing.T) {
	app := redeemApp(&redeemStore{user: &model.User{}}, uuid.New())

	status, _ := postRedeem(t, app, `{"code": ""}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestRedeemEndpointRequiresAuth(t *testing.T) {
	app := redeemApp(&redeemStore{user: &model.User{}}, uuid.Nil)

	status, _ := postRedeem(t, app, `{"code": "STARTER30"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
