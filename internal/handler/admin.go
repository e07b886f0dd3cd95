package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/middleware"
	"github.com/snapselect/backend/internal/repository"
	"github.com/snapselect/backend/internal/service"
)

type AdminHandler struct {
	adminSvc *service.AdminService
}

func NewAdminHandler(adminSvc *service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.adminSvc.GetStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(stats)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	search := c.Query("search")

	users, total, err := h.adminSvc.ListUsers(c.Context(), limit, offset, search)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
	})
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	user, err := h.adminSvc.GetUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(user)
}

type CreateCodeRequest struct {
	Tier          string `json:"tier"`
	EventsGranted int    `json:"events_granted"`
	DurationDays  int    `json:"duration_days"`
	MaxUses       int    `json:"max_uses"`
	Prefix        string `json:"prefix,omitempty"`
}

func (r *CreateCodeRequest) validate() string {
	if r.EventsGranted < 0 {
		return "events_granted must not be negative"
	}
	if r.DurationDays <= 0 {
		return "duration_days must be positive"
	}
	if r.MaxUses <= 0 {
		return "max_uses must be positive"
	}
	return ""
}

func (h *AdminHandler) CreateCode(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)

	var req CreateCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	code, err := h.adminSvc.GenerateRedeemCode(c.Context(), adminID, service.CreateCodeParams{
		Tier:          req.Tier,
		EventsGranted: req.EventsGranted,
		DurationDays:  req.DurationDays,
		MaxUses:       req.MaxUses,
		Prefix:        req.Prefix,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnknownTier) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(code)
}

type BulkCodeRequest struct {
	Count int `json:"count"`
	CreateCodeRequest
}

func (h *AdminHandler) CreateBulkCodes(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)

	var req BulkCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Count <= 0 || req.Count > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "count must be between 1 and 100",
		})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	codes, err := h.adminSvc.GenerateBulkRedeemCodes(c.Context(), adminID, req.Count, service.CreateCodeParams{
		Tier:          req.Tier,
		EventsGranted: req.EventsGranted,
		DurationDays:  req.DurationDays,
		MaxUses:       req.MaxUses,
		Prefix:        req.Prefix,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnknownTier) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"codes": codes,
	})
}

func (h *AdminHandler) ListCodes(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	codes, err := h.adminSvc.ListRedeemCodes(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"codes": codes,
	})
}

type DeactivateCodeRequest struct {
	Code string `json:"code"`
}

func (h *AdminHandler) DeactivateCode(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)

	var req DeactivateCodeRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code is required",
		})
	}

	if err := h.adminSvc.DeactivateRedeemCode(c.Context(), adminID, req.Code); err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "code not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

type ExtendSubscriptionRequest struct {
	Days int `json:"days"`
}

func (h *AdminHandler) ExtendSubscription(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	var req ExtendSubscriptionRequest
	if err := c.BodyParser(&req); err != nil || req.Days <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days must be positive",
		})
	}

	if err := h.adminSvc.ExtendUserSubscription(c.Context(), adminID, userID, req.Days); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user has no active subscription",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) CancelSubscription(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	if err := h.adminSvc.CancelUserSubscription(c.Context(), adminID, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *AdminHandler) GetLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	logs, err := h.adminSvc.GetActivityLogs(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"logs": logs,
	})
}
