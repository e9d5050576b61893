package handlers

import (
	"errors"
	"time"

	"github.com/applynowhq/admissions-backend/internal/dto"
	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/applynowhq/admissions-backend/internal/predict"
	"github.com/applynowhq/admissions-backend/internal/services"
	"github.com/applynowhq/admissions-backend/internal/session"
	"github.com/applynowhq/admissions-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type ApplicationHandler struct {
	apps              *services.ApplicationService
	predictionTimeout time.Duration
}

func NewApplicationHandler(apps *services.ApplicationService, predictionTimeout time.Duration) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, predictionTimeout: predictionTimeout}
}

// ListMine returns the caller's applications, newest first.
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	apps, err := h.apps.ListForUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch applications",
		})
	}
	return c.JSON(fiber.Map{"applications": apps, "total": len(apps)})
}

// Get returns one application; owners see their own, admins see any.
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	app, err := h.apps.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Application not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to fetch application"})
	}

	if app.UserID != userID && session.Role(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: true, Message: "Not your application"})
	}
	return c.JSON(app)
}

// RequestPrediction computes and attaches an admission estimate for the
// caller's application. A remote failure is a retryable 502; the stored
// application, including any earlier prediction, is untouched on failure.
func (h *ApplicationHandler) RequestPrediction(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	// Fiber param strings share the request buffer; copy before the store
	// retains the id as a map key past this request.
	id := utils.CopyString(c.Params("id"))
	app, err := h.apps.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Application not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to fetch application"})
	}
	if app.UserID != userID && session.Role(c) != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: true, Message: "Not your application"})
	}

	updated, err := h.apps.RequestPrediction(c.Context(), id, h.predictionTimeout)
	if err != nil {
		var perr *predict.PredictionError
		if errors.As(err, &perr) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.PredictionErrorResponse{
				Error:     true,
				Message:   "Prediction service unavailable, please retry",
				Retryable: true,
			})
		}
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Application not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to store prediction"})
	}

	return c.JSON(updated)
}
