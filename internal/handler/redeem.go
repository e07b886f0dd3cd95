package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/middleware"
	"github.com/snapselect/backend/internal/service"
)

type RedeemRequest struct {
	Code string `json:"code"`
}

// Redeem applies a redeem code to the current user's subscription.
func (h *Handler) Redeem(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	var req RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "enter a code",
		})
	}

	result, err := h.redemptionSvc.Redeem(c.Context(), userID, req.Code, time.Now())
	if err != nil {
		var stacking *service.StackingConflictError
		var downgrade *service.DowngradeBlockedError

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			status = fiber.StatusNotFound
		case errors.Is(err, service.ErrMaxUsesReached),
			errors.As(err, &stacking),
			errors.As(err, &downgrade):
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"tier":           result.Tier,
		"events_granted": result.EventsGranted,
		"expires_at":     result.ExpiresAt,
		"action":         result.Action,
		"message":        result.Message,
	})
}

// GetSubscriptionStatus returns the active/inactive + remaining-credits view
// that gates UI features.
func (h *Handler) GetSubscriptionStatus(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	status, err := h.subSvc.GetStatus(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(status)
}
