package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/snapselect/backend/internal/config"
	"github.com/snapselect/backend/internal/drive"
	"github.com/snapselect/backend/internal/handler"
	"github.com/snapselect/backend/internal/middleware"
	"github.com/snapselect/backend/internal/repository"
	"github.com/snapselect/backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	repo, err := repository.New(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	// Create services
	driveClient := drive.NewClient(cfg.Drive.BaseURL, cfg.Drive.APIKey)
	userSvc := service.NewUserService(repo)
	subSvc := service.NewSubscriptionService(repo)
	redemptionSvc := service.NewRedemptionService(repo)
	reconcileSvc := service.NewReconcileService(repo)
	eventSvc := service.NewEventService(repo, driveClient, subSvc)
	selectionSvc := service.NewSelectionService(repo)
	portfolioSvc := service.NewPortfolioService(repo)
	packageSvc := service.NewPackageService(repo)
	adminSvc := service.NewAdminService(repo)

	// Create handlers
	h := handler.New(cfg, userSvc, subSvc, redemptionSvc, eventSvc, selectionSvc, portfolioSvc, packageSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Health check
	app.Get("/health", h.Health)

	// Public pages
	app.Get("/public/portfolio/:user_id", h.GetPublicPortfolio)

	// Client gallery (share token, no account)
	client := app.Group("/client")
	client.Get("/:token", h.GetClientEvent)
	client.Get("/:token/photos", h.GetClientPhotos)
	client.Get("/:token/selections", h.GetClientSelections)
	client.Post("/:token/selections", h.SelectPhoto)
	client.Delete("/:token/selections/:file_id", h.DeselectPhoto)

	// API routes with auth-provider token verification
	api := app.Group("/api", middleware.Auth(cfg))

	// User
	api.Get("/user/me", h.GetMe)
	api.Get("/user/activity", h.GetMyActivity)

	// Subscription
	api.Post("/redeem", h.Redeem)
	api.Get("/subscription/status", h.GetSubscriptionStatus)

	// Events
	api.Get("/events", h.ListEvents)
	api.Post("/events", h.CreateEvent)
	api.Get("/events/:event_id", h.GetEvent)
	api.Put("/events/:event_id", h.UpdateEvent)
	api.Delete("/events/:event_id", h.DeleteEvent)
	api.Get("/events/:event_id/photos", h.GetEventPhotos)
	api.Get("/events/:event_id/selections", h.GetEventSelections)

	// Portfolio
	api.Get("/portfolio", h.ListMyPortfolio)
	api.Post("/portfolio", h.AddPortfolioImage)
	api.Delete("/portfolio/:image_id", h.RemovePortfolioImage)

	// Pricing packages
	api.Get("/packages", h.ListMyPackages)
	api.Post("/packages", h.CreatePackage)
	api.Put("/packages/:package_id", h.UpdatePackage)
	api.Delete("/packages/:package_id", h.DeletePackage)

	// Admin panel routes (requires auth + admin role)
	admin := app.Group("/api/admin", middleware.Auth(cfg), middleware.AdminAuth(adminSvc))
	admin.Get("/stats", adminHandler.GetStats)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:user_id", adminHandler.GetUser)
	admin.Post("/users/:user_id/subscription/extend", adminHandler.ExtendSubscription)
	admin.Post("/users/:user_id/subscription/cancel", adminHandler.CancelSubscription)
	admin.Get("/codes", adminHandler.ListCodes)
	admin.Post("/codes", adminHandler.CreateCode)
	admin.Post("/codes/bulk", adminHandler.CreateBulkCodes)
	admin.Post("/codes/deactivate", adminHandler.DeactivateCode)
	admin.Get("/logs", adminHandler.GetLogs)

	// Internal endpoints (for cron jobs)
	internal := app.Group("/internal", middleware.CronAuth(cfg.Cron.Secret))
	internal.Post("/cron/reconcile", func(c *fiber.Ctx) error {
		report, err := reconcileSvc.Run(c.Context(), time.Now())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(report)
	})

	// Start background reconcile loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runReconcileLoop(ctx, reconcileSvc)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// runReconcileLoop is a safety net behind the external cron trigger. Both
// passes are idempotent per day, so overlap between the two is harmless.
func runReconcileLoop(ctx context.Context, reconcileSvc *service.ReconcileService) {
	ticker := time.NewTicker(config.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := reconcileSvc.Run(ctx, time.Now())
			if err != nil {
				log.Printf("Reconcile run failed: %v", err)
				continue
			}
			log.Printf("Reconcile %s: restored %d (%d skipped, %d errors), reset %d (%d skipped, %d errors)",
				report.Day,
				report.Restore.Processed, report.Restore.Skipped, report.Restore.Errors,
				report.Reset.Processed, report.Reset.Skipped, report.Reset.Errors,
			)
		}
	}
}
