package handlers

import (
	"time"

	"github.com/applynowhq/admissions-backend/internal/database"
	"github.com/applynowhq/admissions-backend/internal/dto"
	"github.com/applynowhq/admissions-backend/internal/predict"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	storeDriver string
	engine      *predict.Engine
}

func NewHealthHandler(storeDriver string, engine *predict.Engine) *HealthHandler {
	return &HealthHandler{storeDriver: storeDriver, engine: engine}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Store:     h.storeDriver,
		Predictor: h.engine.Strategy(),
	})
}
