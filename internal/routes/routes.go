package routes

import (
	"time"

	"github.com/applynowhq/admissions-backend/internal/config"
	"github.com/applynowhq/admissions-backend/internal/handlers"
	"github.com/applynowhq/admissions-backend/internal/metrics"
	"github.com/applynowhq/admissions-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	intakeHandler *handlers.IntakeHandler,
	applicationHandler *handlers.ApplicationHandler,
	adminHandler *handlers.AdminHandler,
	assistHandler *handlers.AssistHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)
	api.Get("/metrics", metrics.Handler())

	// Auth is public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Intake wizard (JWT required)
	intake := api.Group("/intake", middleware.JWTProtected(cfg))
	intake.Post("/", intakeHandler.Start)
	intake.Get("/", intakeHandler.State)
	intake.Post("/advance", intakeHandler.Advance)
	intake.Post("/back", intakeHandler.Back)
	intake.Post("/submit", intakeHandler.Submit)

	// Applicant-facing application records (JWT required)
	api.Get("/applications", middleware.JWTProtected(cfg), applicationHandler.ListMine)
	api.Get("/applications/:id", middleware.JWTProtected(cfg), applicationHandler.Get)
	api.Post("/applications/:id/prediction", middleware.JWTProtected(cfg), applicationHandler.RequestPrediction)

	// Assistant chat (JWT required)
	api.Post("/assist/chat", middleware.JWTProtected(cfg), assistHandler.Chat)

	// Admissions review panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/applications", adminHandler.ListApplications)
	admin.Put("/applications/:id/status", adminHandler.Review)
}
