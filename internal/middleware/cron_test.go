package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cronApp(secret string) *fiber.App {
	app := fiber.New()
	app.Post("/internal/cron/reconcile", CronAuth(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestCronAuthAccepts(t *testing.T) {
	app := cronApp("topsecret")

	req := httptest.NewRequest("POST", "/internal/cron/reconcile", nil)
	req.Header.Set("Authorization", "Bearer topsecret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCronAuthRejectsWrongSecret(t *testing.T) {
	app := cronApp("topsecret")

	req := httptest.NewRequest("POST", "/internal/cron/reconcile", nil)
	req.Header.Set("Authorization", "Bearer nope")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCronAuthRejectsMissingHeader(t *testing.T) {
	app := cronApp("topsecret")

	resp, err := app.Test(httptest.NewRequest("POST", "/internal/cron/reconcile", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCronAuthUnconfiguredSecret(t *testing.T) {
	app := cronApp("")

	req := httptest.NewRequest("POST", "/internal/cron/reconcile", nil)
	req.Header.Set("Authorization", "Bearer anything")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
