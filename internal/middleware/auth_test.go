package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapselect/backend/internal/config"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, subject, email, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := AuthClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authApp() (*fiber.App, *uuid.UUID) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testSecret

	var seenID uuid.UUID
	app := fiber.New()
	app.Get("/api/user/me", Auth(cfg), func(c *fiber.Ctx) error {
		seenID = GetUserID(c)
		return c.JSON(fiber.Map{"email": GetUserEmail(c)})
	})
	return app, &seenID
}

func TestAuthAcceptsValidToken(t *testing.T) {
	app, seenID := authApp()
	userID := uuid.New()
	token := signToken(t, userID.String(), "ann@example.com", testSecret, time.Hour)

	req := httptest.NewRequest("GET", "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, *seenID)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	app, _ := authApp()
	token := signToken(t, uuid.NewString(), "ann@example.com", testSecret, -time.Hour)

	req := httptest.NewRequest("GET", "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsWrongSignature(t *testing.T) {
	app, _ := authApp()
	token := signToken(t, uuid.NewString(), "ann@example.com", "other-secret", time.Hour)

	req := httptest.NewRequest("GET", "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsNonUUIDSubject(t *testing.T) {
	app, _ := authApp()
	token := signToken(t, "not-a-uuid", "ann@example.com", testSecret, time.Hour)

	req := httptest.NewRequest("GET", "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	app, _ := authApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/user/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
