package handlers

import (
	"errors"

	"github.com/applynowhq/admissions-backend/internal/dto"
	"github.com/applynowhq/admissions-backend/internal/models"
	"github.com/applynowhq/admissions-backend/internal/services"
	"github.com/applynowhq/admissions-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// AdminHandler exposes the reviewer worklist and decision actions.
type AdminHandler struct {
	apps *services.ApplicationService
}

func NewAdminHandler(apps *services.ApplicationService) *AdminHandler {
	return &AdminHandler{apps: apps}
}

// ListApplications returns every application, newest submission first, with
// an optional status filter.
func (h *AdminHandler) ListApplications(c *fiber.Ctx) error {
	apps, err := h.apps.ListAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch applications",
		})
	}

	if status := c.Query("status"); status != "" {
		filtered := make([]models.Application, 0, len(apps))
		for _, app := range apps {
			if string(app.Status) == status {
				filtered = append(filtered, app)
			}
		}
		apps = filtered
	}

	return c.JSON(fiber.Map{"applications": apps, "total": len(apps)})
}

// Review sets an application's status to Under Review, Approved, or
// Rejected. Anything else is rejected by the store.
func (h *AdminHandler) Review(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	// Fiber param strings share the request buffer; copy before the store
	// retains the id as a map key past this request.
	app, err := h.apps.Review(c.Context(), utils.CopyString(c.Params("id")), models.ApplicationStatus(req.Status))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Application not found"})
		}
		if errors.Is(err, store.ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Status must be Under Review, Approved, or Rejected",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to update status"})
	}

	return c.JSON(app)
}
