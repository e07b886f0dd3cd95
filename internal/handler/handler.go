package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/snapselect/backend/internal/config"
	"github.com/snapselect/backend/internal/service"
)

type Handler struct {
	cfg           *config.Config
	userSvc       *service.UserService
	subSvc        *service.SubscriptionService
	redemptionSvc *service.RedemptionService
	eventSvc      *service.EventService
	selectionSvc  *service.SelectionService
	portfolioSvc  *service.PortfolioService
	packageSvc    *service.PackageService
}

func New(
	cfg *config.Config,
	userSvc *service.UserService,
	subSvc *service.SubscriptionService,
	redemptionSvc *service.RedemptionService,
	eventSvc *service.EventService,
	selectionSvc *service.SelectionService,
	portfolioSvc *service.PortfolioService,
	packageSvc *service.PackageService,
) *Handler {
	return &Handler{
		cfg:           cfg,
		userSvc:       userSvc,
		subSvc:        subSvc,
		redemptionSvc: redemptionSvc,
		eventSvc:      eventSvc,
		selectionSvc:  selectionSvc,
		portfolioSvc:  portfolioSvc,
		packageSvc:    packageSvc,
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
