package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/snapselect/backend/internal/middleware"
	"github.com/snapselect/backend/internal/model"
)

func (h *Handler) ListMyPortfolio(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	images, err := h.portfolioSvc.ListImages(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"images": images})
}

type AddPortfolioImageRequest struct {
	Title     *string `json:"title,omitempty"`
	ImageURL  string  `json:"image_url"`
	SortOrder int     `json:"sort_order"`
}

func (h *Handler) AddPortfolioImage(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req AddPortfolioImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.ImageURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "image_url is required",
		})
	}

	img := &model.PortfolioImage{
		UserID:    userID,
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		SortOrder: req.SortOrder,
	}
	if err := h.portfolioSvc.AddImage(c.Context(), img); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(img)
}

func (h *Handler) RemovePortfolioImage(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	imageID, err := uuid.Parse(c.Params("image_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid image id",
		})
	}

	if err := h.portfolioSvc.RemoveImage(c.Context(), userID, imageID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetPublicPortfolio returns a photographer's public showcase, packages
// included.
func (h *Handler) GetPublicPortfolio(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	images, err := h.portfolioSvc.ListImages(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	packages, err := h.packageSvc.ListPackages(c.Context(), userID, true)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"images":   images,
		"packages": packages,
	})
}

func (h *Handler) ListMyPackages(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	packages, err := h.packageSvc.ListPackages(c.Context(), userID, false)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"packages": packages})
}

type PackageRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PriceCents  int     `json:"price_cents"`
	Currency    string  `json:"currency"`
	IsActive    *bool   `json:"is_active,omitempty"`
	SortOrder   int     `json:"sort_order"`
}

func (h *Handler) CreatePackage(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Name == "" || req.PriceCents < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required and price must not be negative",
		})
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	pkg := &model.Package{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		IsActive:    active,
		SortOrder:   req.SortOrder,
	}
	if err := h.packageSvc.CreatePackage(c.Context(), pkg); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(pkg)
}

func (h *Handler) UpdatePackage(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	packageID, err := uuid.Parse(c.Params("package_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid package id",
		})
	}

	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	pkg := &model.Package{
		ID:          packageID,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		IsActive:    active,
		SortOrder:   req.SortOrder,
	}
	if err := h.packageSvc.UpdatePackage(c.Context(), pkg); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(pkg)
}

func (h *Handler) DeletePackage(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	packageID, err := uuid.Parse(c.Params("package_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid package id",
		})
	}

	if err := h.packageSvc.DeletePackage(c.Context(), userID, packageID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
