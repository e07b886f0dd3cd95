package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/snapselect/backend/internal/model"
	"github.com/snapselect/backend/internal/repository"
)

// The /client surface is reached by share token only; no account is involved.

func (h *Handler) clientEvent(c *fiber.Ctx) (*model.Event, error) {
	return h.eventSvc.GetEventByShareToken(c.Context(), c.Params("token"))
}

// GetClientEvent returns the gallery metadata a client sees when opening a
// share link.
func (h *Handler) GetClientEvent(c *fiber.Ctx) error {
	ev, err := h.clientEvent(c)
	if err != nil {
		return clientEventError(c, err)
	}

	count, err := h.selectionSvc.CountSelections(c.Context(), ev.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"name":           ev.Name,
		"client_name":    ev.ClientName,
		"selected_count": count,
	})
}

// GetClientPhotos lists the swipeable photos for a shared event.
func (h *Handler) GetClientPhotos(c *fiber.Ctx) error {
	ev, err := h.clientEvent(c)
	if err != nil {
		return clientEventError(c, err)
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

type SelectPhotoRequest struct {
	FileID       string  `json:"file_id"`
	FileName     string  `json:"file_name"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	Note         *string `json:"note,omitempty"`
}

// SelectPhoto marks a photo as a favorite.
func (h *Handler) SelectPhoto(c *fiber.Ctx) error {
	ev, err := h.clientEvent(c)
	if err != nil {
		return clientEventError(c, err)
	}

	var req SelectPhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.FileID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file_id is required",
		})
	}

	sel, err := h.selectionSvc.Select(c.Context(), ev.ID, req.FileID, req.FileName, req.ThumbnailURL, req.Note)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(sel)
}

// DeselectPhoto removes a favorite.
func (h *Handler) DeselectPhoto(c *fiber.Ctx) error {
	ev, err := h.clientEvent(c)
	if err != nil {
		return clientEventError(c, err)
	}

	if err := h.selectionSvc.Deselect(c.Context(), ev.ID, c.Params("file_id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetClientSelections lists what the client has picked so far.
func (h *Handler) GetClientSelections(c *fiber.Ctx) error {
	ev, err := h.clientEvent(c)
	if err != nil {
		return clientEventError(c, err)
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

func clientEventError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrEventNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "gallery not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
