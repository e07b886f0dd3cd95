package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/middleware"
	"github.com/snapselect/backend/internal/model"
	"github.com/snapselect/backend/internal/repository"
	"github.com/snapselect/backend/internal/service"
)

type CreateEventRequest struct {
	Name          string  `json:"name"`
	ClientName    *string `json:"client_name,omitempty"`
	DriveFolderID string  `json:"drive_folder_id"`
}

func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Name == "" || req.DriveFolderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name and drive_folder_id are required",
		})
	}

	ev, err := h.eventSvc.CreateEvent(c.Context(), userID, req.Name, req.ClientName, req.DriveFolderID)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, service.ErrNoActiveSubscription) || errors.Is(err, service.ErrNoEventCredits) {
			status = fiber.StatusPaymentRequired
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(ev)
}

func (h *Handler) ListEvents(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	events, err := h.eventSvc.ListEvents(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"events": events,
	})
}

func (h *Handler) GetEvent(c *fiber.Ctx) error {
	ev, err := h.ownedEvent(c)
	if err != nil {
		return eventError(c, err)
	}
	return c.JSON(ev)
}

type UpdateEventRequest struct {
	Name          *string `json:"name,omitempty"`
	ClientName    *string `json:"client_name,omitempty"`
	DriveFolderID *string `json:"drive_folder_id,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (h *Handler) UpdateEvent(c *fiber.Ctx) error {
	ev, err := h.ownedEvent(c)
	if err != nil {
		return eventError(c, err)
	}

	var req UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.Name != nil {
		ev.Name = *req.Name
	}
	if req.ClientName != nil {
		ev.ClientName = req.ClientName
	}
	if req.DriveFolderID != nil {
		ev.DriveFolderID = *req.DriveFolderID
	}
	if req.IsActive != nil {
		ev.IsActive = *req.IsActive
	}

	if err := h.eventSvc.UpdateEvent(c.Context(), ev); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(ev)
}

func (h *Handler) DeleteEvent(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid event id",
		})
	}

	if err := h.eventSvc.DeleteEvent(c.Context(), userID, eventID); err != nil {
		return eventError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetEventPhotos lists the synced Drive photos for an owned event.
func (h *Handler) GetEventPhotos(c *fiber.Ctx) error {
	ev, err := h.ownedEvent(c)
	if err != nil {
		return eventError(c, err)
	}

	photos, err := h.eventSvc.ListPhotos(c.Context(), ev)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"photos": photos,
	})
}

// GetEventSelections lists the client's favorites for an owned event.
func (h *Handler) GetEventSelections(c *fiber.Ctx) error {
	ev, err := h.ownedEvent(c)
	if err != nil {
		return eventError(c, err)
	}

	selections, err := h.selectionSvc.ListSelections(c.Context(), ev.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"selections": selections,
	})
}

func (h *Handler) ownedEvent(c *fiber.Ctx) (*model.Event, error) {
	userID := middleware.GetUserID(c)
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return nil, errBadEventID
	}
	return h.eventSvc.GetOwnedEvent(c.Context(), userID, eventID)
}

var errBadEventID = errors.New("invalid event id")

func eventError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errBadEventID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEventNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEventNotOwned):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
