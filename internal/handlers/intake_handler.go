package handlers

import (
	"errors"
	"log/slog"

	"github.com/applynowhq/admissions-backend/internal/dto"
	"github.com/applynowhq/admissions-backend/internal/intake"
	"github.com/applynowhq/admissions-backend/internal/metrics"
	"github.com/applynowhq/admissions-backend/internal/services"
	"github.com/applynowhq/admissions-backend/internal/session"
	"github.com/applynowhq/admissions-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

// IntakeHandler drives the multi-step application flow over HTTP. One live
// flow per authenticated user, held by the intake manager.
type IntakeHandler struct {
	manager *intake.Manager
	apps    *services.ApplicationService
	store   store.ApplicationStore
}

func NewIntakeHandler(manager *intake.Manager, apps *services.ApplicationService, st store.ApplicationStore) *IntakeHandler {
	return &IntakeHandler{manager: manager, apps: apps, store: st}
}

// Start begins a flow, optionally pre-filled from one of the caller's own
// applications for the edit path.
func (h *IntakeHandler) Start(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}

	var req dto.StartIntakeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
		}
	}

	var flow *intake.Flow
	if req.From != "" {
		app, err := h.apps.Get(c.Context(), req.From)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Application not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load application"})
		}
		if app.UserID != userID {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: true, Message: "Not your application"})
		}
		flow = h.manager.Start(userID, app)
	} else {
		flow = h.manager.Start(userID, nil)
	}

	return c.Status(fiber.StatusCreated).JSON(stateResponse(flow))
}

func (h *IntakeHandler) State(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	flow, ok := h.manager.Get(userID)
	if !ok {
		return noFlow(c)
	}
	return c.JSON(stateResponse(flow))
}

// Advance validates the posted form for the current step. A validation
// failure keeps the flow where it is and returns the field-error map.
func (h *IntakeHandler) Advance(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	flow, ok := h.manager.Get(userID)
	if !ok {
		return noFlow(c)
	}

	switch flow.Step() {
	case intake.StepPersonal:
		var form intake.PersonalForm
		if perr := c.BodyParser(&form); perr != nil {
			return badBody(c)
		}
		err = flow.AdvancePersonal(form)
	case intake.StepAcademic:
		var form intake.AcademicForm
		if perr := c.BodyParser(&form); perr != nil {
			return badBody(c)
		}
		err = flow.AdvanceAcademic(form)
	case intake.StepGuardian:
		var form intake.GuardianForm
		if perr := c.BodyParser(&form); perr != nil {
			return badBody(c)
		}
		err = flow.AdvanceGuardian(form)
	default:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "Nothing to advance: flow is at the review step",
		})
	}

	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
				Error:   true,
				Message: "Validation failed",
				Fields:  verr.Fields,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	}

	return c.JSON(stateResponse(flow))
}

func (h *IntakeHandler) Back(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	flow, ok := h.manager.Get(userID)
	if !ok {
		return noFlow(c)
	}
	flow.Retreat()
	return c.JSON(stateResponse(flow))
}

// Submit finalizes the flow from the review step, stores the application,
// and discards the flow.
func (h *IntakeHandler) Submit(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	}
	flow, ok := h.manager.Get(userID)
	if !ok {
		return noFlow(c)
	}

	app, err := flow.Submit(c.Context(), h.store)
	if err != nil {
		if errors.Is(err, intake.ErrNotAtReview) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Complete all steps before submitting",
			})
		}
		slog.Error("application submit failed", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to submit application",
		})
	}

	h.manager.End(userID)
	metrics.SubmissionsTotal.Inc()
	slog.Info("application submitted", "application_id", app.ID, "user_id", userID.String())

	return c.Status(fiber.StatusCreated).JSON(dto.SubmitResponse{ID: app.ID})
}

func stateResponse(flow *intake.Flow) dto.IntakeStateResponse {
	return dto.IntakeStateResponse{
		Step:  flow.Step().String(),
		Forms: flow.Forms(),
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
}

func noFlow(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: "No application in progress; start one first",
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}
