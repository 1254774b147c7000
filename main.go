package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"github.com/webinter/internship-backend/config"
	"github.com/webinter/internship-backend/database"
	"github.com/webinter/internship-backend/handlers"
	"github.com/webinter/internship-backend/jobs"
	"github.com/webinter/internship-backend/services"
	"github.com/webinter/internship-backend/shared"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Apply schema migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	defaults := shared.NewDefaultUnifiedConfiguration()

	// Initialize services
	userService := services.NewUserService(db)
	candidateService := services.NewCandidateService(db)
	analyticsService := services.NewAnalyticsService(candidateService)
	downloader := shared.NewSheetDownloader(defaults.Sync.DownloadTimeout)
	ingestService := services.NewIngestService(candidateService, downloader, cfg.SheetSyncURL)

	// Seed the default admin login on a fresh database
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userService.SeedDefaultAdmin(seedCtx); err != nil {
		logrus.Errorf("Failed to seed default admin: %v", err)
	}
	cancel()

	// Background sheet sync (immediately on startup, then on a timer)
	syncJob := jobs.NewSheetSyncJob(ingestService, cfg.GetSyncInterval())
	syncJob.Start()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, []byte(cfg.JWTSecret))
	candidateHandler := handlers.NewCandidateHandler(candidateService)
	sheetHandler := handlers.NewSheetHandler(ingestService, candidateService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	adminHandler := handlers.NewAdminHandler(syncJob)

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// API status
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Internship Management System API",
			"status":  "running",
			"version": "3.0",
			"endpoints": fiber.Map{
				"auth":       "/api/auth/login",
				"candidates": "/api/candidates",
				"analytics":  "/api/analytics",
			},
		})
	})

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// Routes
	api := app.Group("/api")

	// Auth routes (unprotected)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/update-password", authHandler.UpdatePassword)

	// Everything below requires a valid token
	api.Use(handlers.NewAuthMiddleware([]byte(cfg.JWTSecret)))

	// Candidate routes; export must be registered before :id
	api.Get("/candidates", candidateHandler.List)
	api.Get("/candidates/statuses", candidateHandler.Statuses)
	api.Get("/candidates/export", sheetHandler.Export)
	api.Post("/candidates", candidateHandler.Create)
	api.Post("/candidates/upload", sheetHandler.Upload)
	api.Get("/candidates/:id", candidateHandler.GetByID)
	api.Post("/candidates/:id/extend", candidateHandler.Extend)
	api.Get("/candidates/:id/extensions", candidateHandler.Extensions)

	// Analytics
	api.Get("/analytics", analyticsHandler.Report)

	// Admin routes
	admin := api.Group("/admin")
	admin.Post("/sync", adminHandler.TriggerSync)
	admin.Get("/sync/status", adminHandler.SyncStatus)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
